package game

import (
	"math"
	"math/rand"
)

// Motion is the cell-to-cell movement shared by the player and enemies.
// An idle actor sits on exact integer coordinates; a moving one slides
// toward Target at Speed tiles per tick.
type Motion struct {
	X, Y   float64
	Target Position
	Moving bool
	Speed  float64
}

// Place puts the actor idle on a cell.
func (m *Motion) Place(pos Position) {
	m.X, m.Y = float64(pos.X), float64(pos.Y)
	m.Target = pos
	m.Moving = false
}

// Cell returns the rounded grid cell the actor occupies.
func (m *Motion) Cell() Position {
	return Position{X: int(math.Round(m.X)), Y: int(math.Round(m.Y))}
}

// Step advances one tick toward the target and reports whether the actor arrived.
func (m *Motion) Step() bool {
	if !m.Moving {
		return false
	}
	dx := float64(m.Target.X) - m.X
	dy := float64(m.Target.Y) - m.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < m.Speed {
		m.X, m.Y = float64(m.Target.X), float64(m.Target.Y)
		m.Moving = false
		return true
	}
	m.X += dx / dist * m.Speed
	m.Y += dy / dist * m.Speed
	return false
}

// RequestMove starts a transit toward the neighbouring cell in dir.
// Rejected while in transit or when the cell is not walkable.
func (m *Motion) RequestMove(dir Direction, board *Board) bool {
	if m.Moving || dir == DirNone {
		return false
	}
	next := m.Cell().Add(dir.Delta())
	if !board.IsWalkable(next) {
		return false
	}
	m.Target = next
	m.Moving = true
	return true
}

// DistanceTo is the Euclidean distance between two actors.
func (m *Motion) DistanceTo(o *Motion) float64 {
	return math.Hypot(m.X-o.X, m.Y-o.Y)
}

// IntentFromKeys resolves held arrow keys to one direction.
// Precedence is up, down, left, right.
func IntentFromKeys(up, down, left, right bool) Direction {
	switch {
	case up:
		return DirUp
	case down:
		return DirDown
	case left:
		return DirLeft
	case right:
		return DirRight
	}
	return DirNone
}

// ChooseDirection picks an idle enemy's next direction: uniformly among
// neighbours that are walkable and free of bombs, or uniformly among all
// four directions when none are.
func ChooseDirection(en *Enemy, board *Board, bombs []*Bomb, rng *rand.Rand) Direction {
	here := en.Cell()
	safe := make([]Direction, 0, len(Directions))
	for _, d := range Directions {
		next := here.Add(d.Delta())
		if !board.IsWalkable(next) || bombAt(bombs, next) != nil {
			continue
		}
		safe = append(safe, d)
	}
	if len(safe) > 0 {
		return safe[rng.Intn(len(safe))]
	}
	return Directions[rng.Intn(len(Directions))]
}
