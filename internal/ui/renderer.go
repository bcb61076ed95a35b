package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/bomber-arcade/internal/game"
)

// Glyphs, two characters per cell for a square-ish appearance.
const (
	glyphEmpty     = "  "
	glyphSolid     = "██"
	glyphBreakable = "▒▒"
	glyphBomb      = "()"
	glyphBombLate  = "<>"
	glyphFire      = "░░"
	glyphPlayer    = "☻ "
	glyphShielded  = "(☻"
	glyphEnemy     = "><"
	glyphBlast     = "**"
	glyphSpark     = "··"
)

var powerUpGlyphs = map[game.TileType]string{
	game.PowerUpRange:  "F+",
	game.PowerUpBomb:   "B+",
	game.PowerUpSpeed:  "S+",
	game.PowerUpShield: "H+",
}

// cell rounds a continuous position to the tile it is drawn on.
func cell(x, y float64) game.Position {
	return game.Position{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// RenderBoard converts a snapshot into a styled terminal string.
func RenderBoard(snap *game.Snapshot, theme Theme) string {
	if snap == nil || len(snap.Board) == 0 {
		return "Waiting for game state..."
	}

	fires := make(map[game.Position]game.ExplosionView, len(snap.Explosions))
	for _, ex := range snap.Explosions {
		fires[ex.Pos] = ex
	}

	bombs := make(map[game.Position]game.BombView, len(snap.Bombs))
	for _, b := range snap.Bombs {
		bombs[b.Pos] = b
	}

	enemies := make(map[game.Position]bool, len(snap.Enemies))
	for _, en := range snap.Enemies {
		enemies[cell(en.X, en.Y)] = true
	}

	particles := make(map[game.Position]game.ParticleKind, len(snap.Particles))
	for _, p := range snap.Particles {
		particles[cell(p.X, p.Y)] = p.Kind
	}

	showPlayer := snap.Status != game.StatusMenu && snap.Status != game.StatusGameOver
	playerPos := cell(snap.Player.X, snap.Player.Y)

	rows := make([]string, 0, snap.Height)
	for y := 0; y < snap.Height && y < len(snap.Board); y++ {
		var b strings.Builder
		for x := 0; x < snap.Width && x < len(snap.Board[y]); x++ {
			pos := game.Position{X: x, Y: y}

			// Priority: Player > Explosion > Enemy > Bomb > Particle > Tile
			switch ex, fire := fires[pos]; {
			case showPlayer && pos == playerPos:
				b.WriteString(renderPlayer(snap.Player, theme))
			case fire:
				b.WriteString(renderFire(ex))
			case enemies[pos]:
				b.WriteString(enemyStyle.Inherit(theme.Empty).Render(glyphEnemy))
			default:
				if bomb, ok := bombs[pos]; ok {
					b.WriteString(renderBomb(bomb, theme))
				} else if kind, ok := particles[pos]; ok && snap.Board[y][x] == game.Empty {
					b.WriteString(renderParticle(kind, theme))
				} else {
					b.WriteString(renderTile(snap.Board[y][x], theme))
				}
			}
		}
		rows = append(rows, b.String())
	}

	return strings.Join(rows, "\n")
}

func renderPlayer(p game.PlayerView, theme Theme) string {
	if p.Shielded {
		return shieldedStyle.Inherit(theme.Empty).Render(glyphShielded)
	}
	return playerStyle.Inherit(theme.Empty).Render(glyphPlayer)
}

// renderFire fades the cell once half of its lifetime has passed.
func renderFire(ex game.ExplosionView) string {
	if ex.Remaining > 0.5 {
		return fireStyle.Render(glyphFire)
	}
	return fireFadeStyle.Render(glyphFire)
}

// renderBomb pulses in the last third of the fuse.
func renderBomb(b game.BombView, theme Theme) string {
	if b.Fuse < 1.0/3 {
		return bombPulseStyle.Inherit(theme.Empty).Render(glyphBombLate)
	}
	return bombStyle.Inherit(theme.Empty).Render(glyphBomb)
}

func renderParticle(kind game.ParticleKind, theme Theme) string {
	if kind == game.ParticleEnemy {
		return enemyParticleStyle.Inherit(theme.Empty).Render(glyphSpark)
	}
	return blastParticleStyle.Inherit(theme.Empty).Render(glyphBlast)
}

func renderTile(tile game.TileType, theme Theme) string {
	switch {
	case tile == game.SolidWall:
		return theme.Solid.Render(glyphSolid)
	case tile == game.BreakableWall:
		return theme.Breakable.Render(glyphBreakable)
	case tile.IsPowerUp():
		return powerUpStyles[tile.String()].Inherit(theme.Empty).Render(powerUpGlyphs[tile])
	default:
		return theme.Empty.Render(glyphEmpty)
	}
}

// HUDValues holds the formatted HUD fields.
type HUDValues struct {
	Score   string
	Lives   string
	Time    string
	Level   string
	Enemies string
	Range   string
	Bombs   string
	Speed   string
}

// FormatHUD formats the snapshot's HUD fields: score padded to four
// digits, the clock rounded up and never negative, speed in tenths.
func FormatHUD(snap *game.Snapshot) HUDValues {
	secs := int(math.Ceil(snap.TimeLeft.Seconds()))
	if secs < 0 {
		secs = 0
	}
	return HUDValues{
		Score:   fmt.Sprintf("%04d", snap.Score),
		Lives:   fmt.Sprintf("%d", snap.Lives),
		Time:    fmt.Sprintf("%d", secs),
		Level:   fmt.Sprintf("%d", snap.Level),
		Enemies: fmt.Sprintf("%d", snap.EnemyCount),
		Range:   fmt.Sprintf("RANGE: %d", snap.Player.BombRange),
		Bombs:   fmt.Sprintf("BOMBS: %d", snap.Player.MaxBombs),
		Speed:   fmt.Sprintf("SPEED: %d", int(math.Round(snap.Player.Speed*10))),
	}
}

// RenderHUD renders the heads-up display beside the board.
func RenderHUD(snap *game.Snapshot, theme Theme, title string, recent []string) string {
	if snap == nil {
		return ""
	}

	label := dimStyle.Width(9)
	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	hud := FormatHUD(snap)

	parts := []string{
		accent.Render("💣 " + title),
		"",
		label.Render("SCORE") + accent.Render(hud.Score),
		label.Render("LIVES") + strings.Repeat("♥", max(snap.Lives, 0)) + " " + hud.Lives,
		label.Render("TIME") + hud.Time,
		label.Render("LEVEL") + hud.Level + "/" + fmt.Sprintf("%d", snap.FinalLevel),
		label.Render("ENEMIES") + hud.Enemies,
		"",
		hud.Range,
		hud.Bombs,
		hud.Speed,
	}
	if snap.Player.Shielded {
		parts = append(parts, shieldedStyle.Render("SHIELD"))
	}

	if len(recent) > 0 {
		parts = append(parts, "", dimStyle.Render("Events:"))
		for _, line := range recent {
			parts = append(parts, "  "+line)
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Render(strings.Join(parts, "\n"))
}

// OverlayText returns the banner for end-of-level and end-of-run states.
func OverlayText(snap *game.Snapshot) string {
	if snap == nil {
		return ""
	}
	switch snap.Status {
	case game.StatusLevelComplete:
		return fmt.Sprintf("LEVEL %d CLEARED!", snap.Level)
	case game.StatusGameOver:
		return "GAME OVER"
	case game.StatusWin:
		return "VICTORY!"
	}
	return ""
}

// RenderOverlay styles the banner, or returns "" when there is none.
func RenderOverlay(snap *game.Snapshot, theme Theme, hint string) string {
	text := OverlayText(snap)
	if text == "" {
		return ""
	}
	body := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(text)
	if snap.Status == game.StatusWin {
		body += "\n" + dimStyle.Render("Congratulations! You cleared all levels.")
	}
	if hint != "" {
		body += "\n" + helpStyle.Render(hint)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 2).
		Align(lipgloss.Center).
		Render(body)
}

// RenderMenu renders the title screen with the theme picker.
func RenderMenu(current Theme) string {
	title := lipgloss.NewStyle().Foreground(current.Accent).Bold(true).Render("💣 BOMBERMAN")

	lines := []string{title, "", dimStyle.Render("Theme:")}
	for i, t := range Themes {
		marker := "  "
		style := dimStyle
		if t.Name == current.Name {
			marker = "→ "
			style = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
		}
		lines = append(lines, fmt.Sprintf("%s[%d] %s", marker, i+1, style.Render(t.Name)))
	}
	lines = append(lines, "", "Press [Enter] to start!")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(current.Border).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))
}

// ShakeOffset turns the shake magnitude into a left margin that
// alternates every frame. The resting margin is 2 columns.
func ShakeOffset(shake float64, tick int) int {
	const rest = 2
	if shake < 1 {
		return rest
	}
	amp := int(math.Ceil(shake / 10))
	if amp > rest {
		amp = rest
	}
	if tick%2 == 0 {
		return rest + amp
	}
	return rest - amp
}

// describeEvent formats an event for the HUD log; "" hides it.
func describeEvent(ev game.Event) string {
	switch ev.Kind {
	case game.EventEnemyKilled:
		return "enemy down"
	case game.EventPowerUpCollected:
		return "+" + ev.PowerUp.String()
	case game.EventPlayerDied:
		return "life lost"
	case game.EventLevelComplete:
		return "level cleared"
	}
	return ""
}
