package game

import (
	"math/rand"
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

// newTestEngine returns a running level 1 on a board with only the
// structural walls and no enemies.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	config := DefaultConfig()
	e := NewEngine(config, rand.New(rand.NewSource(1)))
	if !e.Start() {
		t.Fatal("Start from menu should succeed")
	}
	e.Board = NewEmptyBoard(config.Width, config.Height)
	e.Enemies = nil
	return e
}

// openBoard returns a board with no walls at all.
func openBoard(width, height int) *Board {
	b := &Board{Width: width, Height: height, Tiles: make([][]TileType, height)}
	for y := range b.Tiles {
		b.Tiles[y] = make([]TileType, width)
	}
	return b
}

// parkEnemy walls an enemy into the bottom-right corner so the level
// cannot complete and the enemy never reaches the player.
func parkEnemy(e *Engine) *Enemy {
	pos := Position{X: e.Config.Width - 2, Y: e.Config.Height - 2}
	e.Board.Set(Position{X: pos.X - 1, Y: pos.Y}, SolidWall)
	e.Board.Set(Position{X: pos.X, Y: pos.Y - 1}, SolidWall)
	en := &Enemy{}
	en.Speed = EnemySpeed(1)
	en.Place(pos)
	e.Enemies = append(e.Enemies, en)
	return en
}

func addEnemy(e *Engine, pos Position) *Enemy {
	en := &Enemy{}
	en.Speed = EnemySpeed(e.Level)
	en.Place(pos)
	e.Enemies = append(e.Enemies, en)
	return en
}

func hasExplosionAt(e *Engine, pos Position) bool {
	for _, ex := range e.Explosions {
		if ex.Pos == pos {
			return true
		}
	}
	return false
}
