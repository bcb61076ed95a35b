package game

import (
	"math/rand"
	"testing"
)

func TestNewBoard(t *testing.T) {
	config := DefaultConfig()

	for level := 1; level <= 8; level++ {
		board := NewBoard(level, config, rand.New(rand.NewSource(int64(level))))

		if board.Height != config.Height || len(board.Tiles) != config.Height {
			t.Fatalf("level %d: expected height %d, got %d", level, config.Height, len(board.Tiles))
		}
		if len(board.Tiles[0]) != config.Width {
			t.Fatalf("level %d: expected width %d, got %d", level, config.Width, len(board.Tiles[0]))
		}

		// Border walls
		for x := 0; x < config.Width; x++ {
			if board.Tiles[0][x] != SolidWall || board.Tiles[config.Height-1][x] != SolidWall {
				t.Errorf("level %d: horizontal border at x=%d should be SolidWall", level, x)
			}
		}
		for y := 0; y < config.Height; y++ {
			if board.Tiles[y][0] != SolidWall || board.Tiles[y][config.Width-1] != SolidWall {
				t.Errorf("level %d: vertical border at y=%d should be SolidWall", level, y)
			}
		}

		// Pillar pattern
		for y := 2; y < config.Height-1; y += 2 {
			for x := 2; x < config.Width-1; x += 2 {
				if board.Tiles[y][x] != SolidWall {
					t.Errorf("level %d: pillar at (%d,%d) should be SolidWall, got %v", level, x, y, board.Tiles[y][x])
				}
			}
		}

		// Safe zone, except where pillars stand
		for y := 1; y < config.SafeZone; y++ {
			for x := 1; x < config.SafeZone; x++ {
				if x%2 == 0 && y%2 == 0 {
					continue
				}
				if board.Tiles[y][x] != Empty {
					t.Errorf("level %d: safe cell (%d,%d) should be Empty, got %v", level, x, y, board.Tiles[y][x])
				}
			}
		}

		// Only walls and empty cells at level start
		for y := range board.Tiles {
			for x, tile := range board.Tiles[y] {
				if tile.IsPowerUp() {
					t.Errorf("level %d: unexpected power-up at (%d,%d)", level, x, y)
				}
			}
		}
	}
}

func TestNewBoardFollowsBreakChance(t *testing.T) {
	config := DefaultConfig()
	level := 3

	board := NewBoard(level, config, rand.New(rand.NewSource(42)))

	// Replay the same random stream in generation order
	replay := rand.New(rand.NewSource(42))
	chance := BreakChance(level)
	for y := 1; y < config.Height-1; y++ {
		for x := 1; x < config.Width-1; x++ {
			if isStructural(x, y, config.Width, config.Height) {
				continue
			}
			if x < config.SafeZone && y < config.SafeZone {
				continue
			}
			want := Empty
			if replay.Float64() < chance {
				want = BreakableWall
			}
			if board.Tiles[y][x] != want {
				t.Fatalf("cell (%d,%d): expected %v, got %v", x, y, want, board.Tiles[y][x])
			}
		}
	}
}

func TestDifficultyCurves(t *testing.T) {
	cases := []struct {
		level  int
		chance float64
		speed  float64
		count  int
	}{
		{level: 1, chance: 0.55, speed: 0.06, count: 4},
		{level: 2, chance: 0.60, speed: 0.08, count: 5},
		{level: 3, chance: 0.65, speed: 0.10, count: 6},
		{level: 4, chance: 0.70, speed: 0.12, count: 7},
		{level: 9, chance: 0.85, speed: 0.12, count: 12},
	}

	for _, c := range cases {
		if got := BreakChance(c.level); !almostEqual(got, c.chance) {
			t.Errorf("BreakChance(%d) = %v, want %v", c.level, got, c.chance)
		}
		if got := EnemySpeed(c.level); !almostEqual(got, c.speed) {
			t.Errorf("EnemySpeed(%d) = %v, want %v", c.level, got, c.speed)
		}
		if got := EnemyCount(c.level); got != c.count {
			t.Errorf("EnemyCount(%d) = %d, want %d", c.level, got, c.count)
		}
	}
}

func TestIsWalkable(t *testing.T) {
	board := openBoard(5, 5)
	kinds := map[TileType]bool{
		Empty:         true,
		PowerUpRange:  true,
		PowerUpBomb:   true,
		PowerUpSpeed:  true,
		PowerUpShield: true,
		SolidWall:     false,
		BreakableWall: false,
	}

	pos := Position{X: 2, Y: 2}
	for tile, want := range kinds {
		board.Set(pos, tile)
		if got := board.IsWalkable(pos); got != want {
			t.Errorf("IsWalkable on %v = %v, want %v", tile, got, want)
		}
	}

	for _, out := range []Position{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 5, Y: 0}, {X: 0, Y: 5}} {
		if board.IsWalkable(out) {
			t.Errorf("out-of-bounds (%d,%d) should not be walkable", out.X, out.Y)
		}
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}

	for _, size := range [][2]int{{MinBoardSide - 2, 13}, {15, MaxBoardSide + 2}, {0, 0}} {
		config := DefaultConfig()
		config.Width, config.Height = size[0], size[1]
		if err := config.Validate(); err == nil {
			t.Errorf("board %dx%d should be rejected", size[0], size[1])
		}
	}

	config := DefaultConfig()
	config.Width, config.Height = MaxBoardSide, MaxBoardSide
	if err := config.Validate(); err != nil {
		t.Errorf("largest board rejected: %v", err)
	}

	config = DefaultConfig()
	config.StartPos = Position{X: 0, Y: 1}
	if err := config.Validate(); err == nil {
		t.Error("start on the border should be rejected")
	}
}
