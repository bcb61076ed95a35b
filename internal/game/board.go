package game

import (
	"math/rand"
)

// Board is the tile grid of one level, indexed [y][x].
type Board struct {
	Width  int
	Height int
	Tiles  [][]TileType
}

// NewEmptyBoard returns a board of the given size with only the structural walls.
func NewEmptyBoard(width, height int) *Board {
	b := &Board{Width: width, Height: height, Tiles: make([][]TileType, height)}
	for y := 0; y < height; y++ {
		b.Tiles[y] = make([]TileType, width)
		for x := 0; x < width; x++ {
			if isStructural(x, y, width, height) {
				b.Tiles[y][x] = SolidWall
			}
		}
	}
	return b
}

// NewBoard generates the grid for a level.
//
// Layout rules:
//   - Border is all SolidWall
//   - SolidWall at every position where both X and Y are even
//   - The top-left safe zone is kept clear
//   - Every other cell is a BreakableWall with probability BreakChance(level)
func NewBoard(level int, config Config, rng *rand.Rand) *Board {
	b := NewEmptyBoard(config.Width, config.Height)
	chance := BreakChance(level)

	for y := 1; y < config.Height-1; y++ {
		for x := 1; x < config.Width-1; x++ {
			if b.Tiles[y][x] != Empty {
				continue
			}
			if x < config.SafeZone && y < config.SafeZone {
				continue
			}
			if rng.Float64() < chance {
				b.Tiles[y][x] = BreakableWall
			}
		}
	}

	return b
}

func isStructural(x, y, width, height int) bool {
	if x == 0 || y == 0 || x == width-1 || y == height-1 {
		return true
	}
	return x%2 == 0 && y%2 == 0
}

// InBounds reports whether pos lies on the board.
func (b *Board) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Width && pos.Y >= 0 && pos.Y < b.Height
}

// At returns the tile at pos; out-of-bounds reads as SolidWall.
func (b *Board) At(pos Position) TileType {
	if !b.InBounds(pos) {
		return SolidWall
	}
	return b.Tiles[pos.Y][pos.X]
}

// Set writes a tile; out-of-bounds writes are ignored.
func (b *Board) Set(pos Position, t TileType) {
	if !b.InBounds(pos) {
		return
	}
	b.Tiles[pos.Y][pos.X] = t
}

// IsWalkable reports whether an actor may enter pos.
func (b *Board) IsWalkable(pos Position) bool {
	if !b.InBounds(pos) {
		return false
	}
	t := b.Tiles[pos.Y][pos.X]
	return t == Empty || t.IsPowerUp()
}

// Clone returns a deep copy of the tiles.
func (b *Board) Clone() [][]TileType {
	tiles := make([][]TileType, b.Height)
	for y := range tiles {
		tiles[y] = make([]TileType, b.Width)
		copy(tiles[y], b.Tiles[y])
	}
	return tiles
}
