package game

import "time"

// BombView is a bomb as seen by renderers.
type BombView struct {
	Pos  Position `json:"pos"`
	Fuse float64  `json:"fuse"` // remaining fraction, 1 = just placed
}

// ExplosionView is a hazard cell as seen by renderers.
type ExplosionView struct {
	Pos       Position `json:"pos"`
	Remaining float64  `json:"remaining"` // remaining fraction
}

// PlayerView is the player's renderable state.
type PlayerView struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Shielded  bool    `json:"shielded"`
	BombRange int     `json:"bomb_range"`
	MaxBombs  int     `json:"max_bombs"`
	Active    int     `json:"active_bombs"`
	Speed     float64 `json:"speed"`
}

// PoweredUp reports whether any upgrade has been collected.
func (p PlayerView) PoweredUp(config Config) bool {
	return p.BombRange > 1 || p.MaxBombs > 1 || p.Speed > config.PlayerSpeed+0.001
}

// EnemyView is an enemy's renderable state.
type EnemyView struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Phase float64 `json:"phase"`
}

// ParticleView is a spark position with its remaining life fraction.
type ParticleView struct {
	X    float64      `json:"x"`
	Y    float64      `json:"y"`
	Life float64      `json:"life"`
	Kind ParticleKind `json:"kind"`
}

// Snapshot is a read-only copy of the simulation taken after an update.
type Snapshot struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Board      [][]TileType    `json:"board"`
	Bombs      []BombView      `json:"bombs"`
	Explosions []ExplosionView `json:"explosions"`
	Player     PlayerView      `json:"player"`
	Enemies    []EnemyView     `json:"enemies"`
	Particles  []ParticleView  `json:"particles"`
	Score      int             `json:"score"`
	Lives      int             `json:"lives"`
	TimeLeft   time.Duration   `json:"time_left"`
	Level      int             `json:"level"`
	FinalLevel int             `json:"final_level"`
	EnemyCount int             `json:"enemy_count"`
	Status     Status          `json:"status"`
	Shake      float64         `json:"shake"`
}

// Frame is one tick's snapshot plus the events it produced.
type Frame struct {
	Snapshot Snapshot `json:"snapshot"`
	Events   []Event  `json:"events,omitempty"`
}

// Snapshot creates a deep copy of the renderable state.
func (e *Engine) Snapshot() Snapshot {
	bombs := make([]BombView, len(e.Bombs))
	for i, b := range e.Bombs {
		bombs[i] = BombView{Pos: b.Pos, Fuse: fraction(b.Fuse, e.Config.BombFuse)}
	}

	explosions := make([]ExplosionView, len(e.Explosions))
	for i, ex := range e.Explosions {
		explosions[i] = ExplosionView{Pos: ex.Pos, Remaining: fraction(ex.Remaining, e.Config.ExplosionDuration)}
	}

	enemies := make([]EnemyView, len(e.Enemies))
	for i, en := range e.Enemies {
		enemies[i] = EnemyView{X: en.X, Y: en.Y, Phase: en.Phase}
	}

	particles := make([]ParticleView, len(e.Particles))
	for i, p := range e.Particles {
		particles[i] = ParticleView{X: p.X, Y: p.Y, Life: fraction(p.Life, time.Second), Kind: p.Kind}
	}

	p := e.Player
	return Snapshot{
		Width:      e.Board.Width,
		Height:     e.Board.Height,
		Board:      e.Board.Clone(),
		Bombs:      bombs,
		Explosions: explosions,
		Player: PlayerView{
			X:         p.X,
			Y:         p.Y,
			Shielded:  p.Shielded(),
			BombRange: p.BombRange,
			MaxBombs:  p.MaxBombs,
			Active:    p.ActiveBombs,
			Speed:     p.Speed,
		},
		Enemies:    enemies,
		Particles:  particles,
		Score:      p.Score,
		Lives:      p.Lives,
		TimeLeft:   e.Clock,
		Level:      e.Level,
		FinalLevel: e.Config.FinalLevel,
		EnemyCount: len(e.Enemies),
		Status:     e.Status,
		Shake:      e.Shake,
	}
}

func fraction(v, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(v) / float64(total)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
