package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amalg/bomber-arcade/internal/game"
)

// maxRecentEvents bounds the HUD event log.
const maxRecentEvents = 4

// Controller accepts player commands. *game.Loop satisfies it.
type Controller interface {
	Enqueue(game.Action)
}

// frameMsg carries a new frame from the loop or the feed.
type frameMsg game.Frame

// errMsg carries an error.
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// Model is the Bubbletea model for both the local game and spectators.
type Model struct {
	frames   <-chan game.Frame
	control  Controller // nil when spectating
	title    string
	theme    Theme
	snap     *game.Snapshot
	recent   []string
	tick     int
	err      error
	quitting bool
}

// NewModel creates a playable model: frames come from the loop and keys
// are forwarded to control.
func NewModel(frames <-chan game.Frame, control Controller, theme Theme) Model {
	return Model{
		frames:  frames,
		control: control,
		title:   "BOMBERMAN",
		theme:   theme,
	}
}

// NewSpectatorModel creates a read-only model for a remote feed.
func NewSpectatorModel(frames <-chan game.Frame, player string, theme Theme) Model {
	return Model{
		frames: frames,
		title:  "WATCHING " + player,
		theme:  theme,
	}
}

// Init starts listening for frames.
func (m Model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

// Update handles incoming messages (key presses, frames).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		frame := game.Frame(msg)
		m.snap = &frame.Snapshot
		m.tick++
		m.record(frame.Events)
		return m, waitForFrame(m.frames)

	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

// record appends displayable events to the bounded log.
func (m *Model) record(events []game.Event) {
	for _, ev := range events {
		if ev.Kind == game.EventLevelComplete || ev.Kind == game.EventGameOver {
			// A new level or run starts with an empty log
			m.recent = nil
		}
		if line := describeEvent(ev); line != "" {
			m.recent = append(m.recent, line)
		}
	}
	if n := len(m.recent); n > maxRecentEvents {
		m.recent = append([]string(nil), m.recent[n-maxRecentEvents:]...)
	}
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye! 👋\n"
	}

	if m.err != nil {
		return errStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	if m.snap == nil || m.snap.Status == game.StatusMenu {
		if m.control == nil {
			return "Waiting for the player to start...\n"
		}
		return RenderMenu(m.theme) + "\n" + helpStyle.Render("1/2/3: Theme | Enter: Start | Q: Quit") + "\n"
	}

	board := lipgloss.NewStyle().
		PaddingLeft(ShakeOffset(m.snap.Shake, m.tick)).
		Render(RenderBoard(m.snap, m.theme))
	hud := RenderHUD(m.snap, m.theme, m.title, m.recent)

	// Layout: board on the left, HUD on the right
	view := lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", hud)

	if overlay := RenderOverlay(m.snap, m.theme, m.overlayHint()); overlay != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, "", overlay)
	}

	help := "WASD/Arrows: Move | Space: Bomb | 1/2/3: Theme | Q: Quit"
	if m.control == nil {
		help = "Spectating | 1/2/3: Theme | Q: Quit"
	}
	return view + "\n" + helpStyle.Render(help) + "\n"
}

func (m Model) overlayHint() string {
	if m.control == nil || m.snap == nil {
		return ""
	}
	if m.snap.Status == game.StatusGameOver || m.snap.Status == game.StatusWin {
		return "Press [R] to play again"
	}
	return ""
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "1", "2", "3":
		m.theme = Themes[int(key[0]-'1')]
		return m, nil
	}

	if m.control == nil {
		return m, nil
	}

	switch key {
	case "up", "w":
		m.control.Enqueue(game.Action{Type: game.ActionMove, Dir: game.DirUp})
	case "down", "s":
		m.control.Enqueue(game.Action{Type: game.ActionMove, Dir: game.DirDown})
	case "left", "a":
		m.control.Enqueue(game.Action{Type: game.ActionMove, Dir: game.DirLeft})
	case "right", "d":
		m.control.Enqueue(game.Action{Type: game.ActionMove, Dir: game.DirRight})
	case " ":
		m.control.Enqueue(game.Action{Type: game.ActionPlaceBomb})
	case "enter", "r":
		if m.snap == nil || m.snap.Status != game.StatusPlaying {
			m.recent = nil
		}
		m.control.Enqueue(game.Action{Type: game.ActionStart})
	}

	return m, nil
}

// Theme returns the active theme.
func (m Model) Theme() Theme {
	return m.theme
}

// waitForFrame returns a Cmd that waits for the next frame.
func waitForFrame(frames <-chan game.Frame) tea.Cmd {
	return func() tea.Msg {
		frame, ok := <-frames
		if !ok {
			return errMsg{err: fmt.Errorf("feed closed")}
		}
		return frameMsg(frame)
	}
}
