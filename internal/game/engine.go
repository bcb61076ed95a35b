package game

import (
	"math"
	"math/rand"
	"time"
)

// Engine owns the whole simulation: board, actors, bombs, explosions and
// the level state machine. It is not safe for concurrent use; Loop adds
// locking for callers that need it.
type Engine struct {
	Config Config
	Status Status
	Level  int

	Board      *Board
	Player     *Player
	Enemies    []*Enemy
	Bombs      []*Bomb
	Explosions []*Explosion
	Particles  []*Particle

	Clock      time.Duration // level countdown
	LevelDelay time.Duration // remaining LevelComplete pause
	Shake      float64       // cosmetic screen shake intensity

	rng    *rand.Rand
	events []Event
}

// NewEngine creates an engine waiting in the menu.
// A nil rng is replaced by a time-seeded source.
func NewEngine(config Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		Config: config,
		Status: StatusMenu,
		Level:  1,
		Board:  NewEmptyBoard(config.Width, config.Height),
		Player: &Player{},
		rng:    rng,
	}
	e.resetPlayer()
	return e
}

// Start begins a fresh run at level 1. Only valid from the menu or a
// finished run; otherwise it is a no-op.
func (e *Engine) Start() bool {
	switch e.Status {
	case StatusMenu, StatusGameOver, StatusWin:
	default:
		return false
	}
	e.Level = 1
	e.resetPlayer()
	e.Particles = nil
	e.startLevel()
	return true
}

func (e *Engine) resetPlayer() {
	p := e.Player
	*p = Player{
		Lives:     e.Config.StartLives,
		BombRange: 1,
		MaxBombs:  1,
	}
	p.Speed = e.Config.PlayerSpeed
	p.Place(e.Config.StartPos)
}

// startLevel regenerates the board and enemies for e.Level. Every level
// restarts lives, score and bomb upgrades; only speed carries over.
func (e *Engine) startLevel() {
	e.Board = NewBoard(e.Level, e.Config, e.rng)
	e.Bombs = nil
	e.Explosions = nil
	e.Clock = e.Config.LevelTime
	e.LevelDelay = 0

	p := e.Player
	p.Place(e.Config.StartPos)
	p.Lives = e.Config.StartLives
	p.Score = 0
	p.BombRange = 1
	p.MaxBombs = 1
	p.ActiveBombs = 0
	p.Shield = 0

	e.Enemies = e.spawnEnemies(EnemyCount(e.Level), EnemySpeed(e.Level))
	e.Status = StatusPlaying
}

// spawnEnemies drops enemies on random empty cells away from the start corner.
func (e *Engine) spawnEnemies(count int, speed float64) []*Enemy {
	w, h := e.Config.Width, e.Config.Height
	if w < 5 || h < 5 {
		return nil
	}

	enemies := make([]*Enemy, 0, count)
	for i := 0; i < count; i++ {
		pos, ok := e.randomSpawnCell(w, h)
		if !ok {
			break
		}
		en := &Enemy{Phase: e.rng.Float64() * 2 * math.Pi}
		en.Speed = speed
		en.Place(pos)
		enemies = append(enemies, en)
	}
	return enemies
}

func (e *Engine) randomSpawnCell(w, h int) (Position, bool) {
	for attempt := 0; attempt < 1000; attempt++ {
		pos := Position{X: e.rng.Intn(w-4) + 3, Y: e.rng.Intn(h-4) + 3}
		if e.Board.At(pos) == Empty {
			return pos, true
		}
	}
	// Dense boards: fall back to a scan
	for y := 3; y < h-1; y++ {
		for x := 3; x < w-1; x++ {
			pos := Position{X: x, Y: y}
			if e.Board.At(pos) == Empty {
				return pos, true
			}
		}
	}
	return Position{}, false
}

// Update advances the simulation by dt and returns the events it produced.
//
// Within one Playing tick the order is fixed: clocks, motion, explosion and
// bomb timers (with chain reactions), collisions, enemy AI, player input,
// level completion.
func (e *Engine) Update(dt time.Duration, in Input) []Event {
	e.events = nil
	e.tickParticles(dt)

	switch e.Status {
	case StatusLevelComplete:
		e.LevelDelay -= dt
		if e.LevelDelay <= 0 {
			e.Level++
			e.startLevel()
		}
		return e.flush()
	case StatusPlaying:
	default:
		return e.flush()
	}

	ms := float64(dt) / float64(time.Millisecond)

	e.Clock -= dt
	if e.Clock <= 0 {
		e.Clock = 0
		e.timeOut()
		return e.flush()
	}
	if e.Player.Shield > 0 {
		e.Player.Shield -= dt
		if e.Player.Shield < 0 {
			e.Player.Shield = 0
		}
	}
	if e.Shake > 0 {
		e.Shake -= ms * 0.01
		if e.Shake < 0 {
			e.Shake = 0
		}
	}

	// Motion
	if e.Player.Step() {
		e.collectPowerUp()
	}
	arrived := make(map[*Enemy]bool)
	for _, en := range e.Enemies {
		en.Phase += ms * 0.005
		if en.Step() {
			arrived[en] = true
		}
	}

	// Timers
	e.tickExplosions(dt)
	e.tickBombs(dt)

	e.checkCollisions()
	if e.Status != StatusPlaying {
		return e.flush()
	}

	// Enemy AI; an enemy that arrived this tick waits one tick before
	// choosing, and a blocked attempt leaves it idle
	for _, en := range e.Enemies {
		if en.Moving || arrived[en] {
			continue
		}
		en.RequestMove(ChooseDirection(en, e.Board, e.Bombs, e.rng), e.Board)
	}

	e.Player.RequestMove(in.Dir, e.Board)
	if in.PlaceBomb {
		e.placeBomb()
	}

	e.checkLevelComplete()
	return e.flush()
}

// playerDeath costs a life and either respawns the player or ends the run.
func (e *Engine) playerDeath() {
	p := e.Player
	p.Lives--
	e.Shake = 20
	e.emit(Event{Kind: EventPlayerDied, Pos: p.Cell()})

	if p.Lives <= 0 {
		p.Lives = 0
		e.Status = StatusGameOver
		e.emit(Event{Kind: EventGameOver, Pos: p.Cell()})
		return
	}

	p.Place(e.Config.StartPos)
	p.Shield = e.Config.RespawnShield
}

// timeOut ends the run when the level clock runs out.
func (e *Engine) timeOut() {
	p := e.Player
	if p.Lives > 0 {
		p.Lives--
	}
	e.emit(Event{Kind: EventPlayerDied, Pos: p.Cell()})
	e.Status = StatusGameOver
	e.emit(Event{Kind: EventGameOver, Pos: p.Cell()})
}

func (e *Engine) checkLevelComplete() {
	if e.Status != StatusPlaying || len(e.Enemies) > 0 {
		return
	}
	if e.Level >= e.Config.FinalLevel {
		e.Status = StatusWin
		e.emit(Event{Kind: EventVictory})
		return
	}
	e.Status = StatusLevelComplete
	e.LevelDelay = e.Config.LevelCompleteDelay
	e.emit(Event{Kind: EventLevelComplete})
}

func (e *Engine) spawnParticles(x, y float64, kind ParticleKind) {
	for i := 0; i < e.Config.ParticlesPerBurst; i++ {
		e.Particles = append(e.Particles, &Particle{
			X:    x,
			Y:    y,
			VX:   (e.rng.Float64() - 0.5) * 0.005,
			VY:   (e.rng.Float64() - 0.5) * 0.005,
			Life: 500*time.Millisecond + time.Duration(e.rng.Float64()*float64(500*time.Millisecond)),
			Kind: kind,
		})
	}
}

func (e *Engine) tickParticles(dt time.Duration) {
	ms := float64(dt) / float64(time.Millisecond)
	alive := e.Particles[:0]
	for _, p := range e.Particles {
		p.X += p.VX * ms
		p.Y += p.VY * ms
		p.Life -= dt
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	e.Particles = alive
}

func (e *Engine) emit(ev Event) {
	e.events = append(e.events, ev)
}

func (e *Engine) flush() []Event {
	events := e.events
	e.events = nil
	return events
}
