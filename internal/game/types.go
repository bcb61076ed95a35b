package game

import (
	"fmt"
	"math"
	"time"
)

// TileType represents the type of a cell on the game board.
// Power-ups are stored on the board as tile variants.
type TileType int

const (
	Empty         TileType = iota
	SolidWall              // Indestructible
	BreakableWall          // Destructible by bombs
	PowerUpRange           // +1 blast range
	PowerUpBomb            // +1 simultaneous bomb
	PowerUpSpeed           // faster movement
	PowerUpShield          // temporary invulnerability
)

// PowerUpKinds lists the collectible tile kinds in spawn order.
var PowerUpKinds = []TileType{PowerUpRange, PowerUpBomb, PowerUpSpeed, PowerUpShield}

// IsPowerUp reports whether the tile is one of the collectible kinds.
func (t TileType) IsPowerUp() bool {
	return t >= PowerUpRange && t <= PowerUpShield
}

func (t TileType) String() string {
	switch t {
	case Empty:
		return "empty"
	case SolidWall:
		return "solid"
	case BreakableWall:
		return "breakable"
	case PowerUpRange:
		return "range"
	case PowerUpBomb:
		return "bomb"
	case PowerUpSpeed:
		return "speed"
	case PowerUpShield:
		return "shield"
	}
	return "unknown"
}

// Direction represents a movement direction.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions is the order enemies consider neighbouring cells in.
var Directions = []Direction{DirDown, DirUp, DirRight, DirLeft}

// Delta returns the grid offset for a direction.
func (d Direction) Delta() Position {
	switch d {
	case DirUp:
		return Position{X: 0, Y: -1}
	case DirDown:
		return Position{X: 0, Y: 1}
	case DirLeft:
		return Position{X: -1, Y: 0}
	case DirRight:
		return Position{X: 1, Y: 0}
	}
	return Position{}
}

// Position represents a coordinate on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Input is the player's intent for one tick.
type Input struct {
	Dir       Direction
	PlaceBomb bool
}

// Status represents the current game phase.
type Status int

const (
	StatusMenu          Status = iota // Waiting for a start selection
	StatusPlaying                     // Simulation running
	StatusGameOver                    // Out of lives
	StatusLevelComplete               // Waiting to load the next level
	StatusWin                         // Final level cleared
)

func (s Status) String() string {
	switch s {
	case StatusMenu:
		return "menu"
	case StatusPlaying:
		return "playing"
	case StatusGameOver:
		return "gameover"
	case StatusLevelComplete:
		return "level_complete"
	case StatusWin:
		return "win"
	}
	return "unknown"
}

// Player is the single human-controlled actor.
type Player struct {
	Motion
	Lives       int
	Score       int
	BombRange   int
	MaxBombs    int
	ActiveBombs int
	Shield      time.Duration // 0 = inactive
}

// Shielded reports whether the shield is currently active.
func (p *Player) Shielded() bool {
	return p.Shield > 0
}

// Enemy is a wandering monster.
type Enemy struct {
	Motion
	Phase float64 // float animation phase, radians
}

// Bomb is a placed bomb waiting for its fuse to run out.
type Bomb struct {
	Owner *Player // bookkeeping only
	Pos   Position
	Fuse  time.Duration
	Range int
}

// Explosion is one hazardous cell of a blast.
type Explosion struct {
	Pos       Position
	Remaining time.Duration
}

// Particle is a cosmetic spark, in tile units.
type Particle struct {
	X, Y   float64
	VX, VY float64 // tiles per millisecond
	Life   time.Duration
	Kind   ParticleKind
}

// ParticleKind selects the particle colour.
type ParticleKind int

const (
	ParticleBlast ParticleKind = iota
	ParticleEnemy
)

// Config holds the tunable parameters of a run.
type Config struct {
	Width                 int           `json:"width"`
	Height                int           `json:"height"`
	SafeZone              int           `json:"safe_zone"`
	StartPos              Position      `json:"start_pos"`
	BombFuse              time.Duration `json:"bomb_fuse"`
	ExplosionDuration     time.Duration `json:"explosion_duration"`
	LevelTime             time.Duration `json:"level_time"`
	LevelCompleteDelay    time.Duration `json:"level_complete_delay"`
	FinalLevel            int           `json:"final_level"`
	StartLives            int           `json:"start_lives"`
	PlayerSpeed           float64       `json:"player_speed"` // tiles per tick
	SpeedBoost            float64       `json:"speed_boost"`
	ShieldPowerUpDuration time.Duration `json:"shield_powerup_duration"`
	RespawnShield         time.Duration `json:"respawn_shield"`
	WallScore             int           `json:"wall_score"`
	PowerUpScore          int           `json:"powerup_score"`
	KillScore             int           `json:"kill_score"`
	PowerUpChance         float64       `json:"powerup_chance"`
	ContactDistance       float64       `json:"contact_distance"`
	ParticlesPerBurst     int           `json:"particles_per_burst"`
	TickRate              int           `json:"tick_rate"` // Ticks per second
}

// DefaultConfig returns the arcade defaults.
func DefaultConfig() Config {
	return Config{
		Width:                 15,
		Height:                13,
		SafeZone:              3,
		StartPos:              Position{X: 1, Y: 1},
		BombFuse:              3 * time.Second,
		ExplosionDuration:     500 * time.Millisecond,
		LevelTime:             180 * time.Second,
		LevelCompleteDelay:    3 * time.Second,
		FinalLevel:            3,
		StartLives:            3,
		PlayerSpeed:           0.15,
		SpeedBoost:            0.02,
		ShieldPowerUpDuration: 5 * time.Second,
		RespawnShield:         3 * time.Second,
		WallScore:             10,
		PowerUpScore:          50,
		KillScore:             100,
		PowerUpChance:         0.3,
		ContactDistance:       0.6,
		ParticlesPerBurst:     15,
		TickRate:              60,
	}
}

// Board size limits. The upper bound keeps a full frame within the
// spectator feed's message limit.
const (
	MinBoardSide = 7
	MaxBoardSide = 99
)

// Validate checks that the board fits the limits and holds the start cell.
func (c Config) Validate() error {
	if c.Width < MinBoardSide || c.Width > MaxBoardSide || c.Height < MinBoardSide || c.Height > MaxBoardSide {
		return fmt.Errorf("board %dx%d out of range: each side must be %d..%d", c.Width, c.Height, MinBoardSide, MaxBoardSide)
	}
	if c.StartPos.X <= 0 || c.StartPos.Y <= 0 || c.StartPos.X >= c.Width-1 || c.StartPos.Y >= c.Height-1 {
		return fmt.Errorf("start position %+v outside the playable area", c.StartPos)
	}
	return nil
}

// BreakChance is the probability that a free cell becomes a breakable wall.
func BreakChance(level int) float64 {
	return math.Min(0.85, 0.5+float64(level)*0.05)
}

// EnemySpeed is the per-tick enemy speed for a level.
func EnemySpeed(level int) float64 {
	return math.Min(0.12, 0.04+float64(level)*0.02)
}

// EnemyCount is the number of enemies spawned on a level.
func EnemyCount(level int) int {
	return 3 + level
}
