package game

import (
	"math/rand"
	"testing"
)

func TestMotionStepSnapsOnArrival(t *testing.T) {
	board := NewEmptyBoard(15, 13)
	m := Motion{Speed: 0.15}
	m.Place(Position{X: 1, Y: 1})

	if !m.RequestMove(DirRight, board) {
		t.Fatal("move right from (1,1) should be accepted")
	}

	for i := 1; i <= 6; i++ {
		if m.Step() {
			t.Fatalf("arrived too early on step %d at x=%v", i, m.X)
		}
		if m.Y != 1 {
			t.Fatalf("moving right must not change y, got %v", m.Y)
		}
	}
	if !m.Step() {
		t.Fatalf("expected arrival on step 7, x=%v", m.X)
	}
	if m.X != 2 || m.Y != 1 || m.Moving {
		t.Errorf("expected idle at (2,1), got (%v,%v) moving=%v", m.X, m.Y, m.Moving)
	}
}

func TestRequestMoveRejections(t *testing.T) {
	board := NewEmptyBoard(15, 13)
	m := Motion{Speed: 0.15}
	m.Place(Position{X: 1, Y: 1})

	// Border walls
	if m.RequestMove(DirUp, board) || m.RequestMove(DirLeft, board) {
		t.Fatal("moves into the border should be rejected")
	}
	if m.RequestMove(DirNone, board) {
		t.Fatal("no direction should be a no-op")
	}

	board.Set(Position{X: 2, Y: 1}, BreakableWall)
	if m.RequestMove(DirRight, board) {
		t.Fatal("move into a breakable wall should be rejected")
	}

	if !m.RequestMove(DirDown, board) {
		t.Fatal("move down to (1,2) should be accepted")
	}
	m.Step()

	// No redirection mid-transit
	if m.RequestMove(DirUp, board) {
		t.Error("a moving actor must not accept a new target")
	}
	if m.Target != (Position{X: 1, Y: 2}) {
		t.Errorf("target changed mid-transit: %+v", m.Target)
	}
}

func TestIntentFromKeysPrecedence(t *testing.T) {
	cases := []struct {
		up, down, left, right bool
		want                  Direction
	}{
		{want: DirNone},
		{right: true, want: DirRight},
		{left: true, right: true, want: DirLeft},
		{down: true, left: true, want: DirDown},
		{up: true, down: true, left: true, right: true, want: DirUp},
	}
	for _, c := range cases {
		if got := IntentFromKeys(c.up, c.down, c.left, c.right); got != c.want {
			t.Errorf("IntentFromKeys(%v,%v,%v,%v) = %v, want %v", c.up, c.down, c.left, c.right, got, c.want)
		}
	}
}

func TestChooseDirectionAvoidsWallsAndBombs(t *testing.T) {
	board := NewEmptyBoard(15, 13)
	en := &Enemy{}
	en.Speed = 0.06
	en.Place(Position{X: 1, Y: 1})

	// Up and left are border, right holds a bomb: only down is safe
	bombs := []*Bomb{{Pos: Position{X: 2, Y: 1}}}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		if d := ChooseDirection(en, board, bombs, rng); d != DirDown {
			t.Fatalf("expected DirDown, got %v", d)
		}
	}
}

func TestChooseDirectionIsUniformOverSafeCells(t *testing.T) {
	board := NewEmptyBoard(15, 13)
	en := &Enemy{}
	en.Place(Position{X: 1, Y: 1})

	rng := rand.New(rand.NewSource(3))
	seen := map[Direction]int{}
	for i := 0; i < 400; i++ {
		seen[ChooseDirection(en, board, nil, rng)]++
	}
	if len(seen) != 2 || seen[DirDown] == 0 || seen[DirRight] == 0 {
		t.Fatalf("expected only down and right, got %v", seen)
	}
	if seen[DirDown] < 120 || seen[DirRight] < 120 {
		t.Errorf("choice looks biased: %v", seen)
	}
}

func TestChooseDirectionFallbackStalls(t *testing.T) {
	board := NewEmptyBoard(15, 13)
	en := &Enemy{}
	en.Speed = 0.06
	en.Place(Position{X: 1, Y: 1})
	board.Set(Position{X: 2, Y: 1}, BreakableWall)
	board.Set(Position{X: 1, Y: 2}, BreakableWall)

	rng := rand.New(rand.NewSource(11))
	seen := map[Direction]bool{}
	for i := 0; i < 200; i++ {
		d := ChooseDirection(en, board, nil, rng)
		seen[d] = true
		if en.RequestMove(d, board) {
			t.Fatalf("boxed-in enemy should never start moving, chose %v", d)
		}
	}
	if len(seen) != 4 {
		t.Errorf("fallback should draw from all four directions, saw %v", seen)
	}
}
