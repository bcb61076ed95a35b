package game

import "time"

// blastDirs are the rays of a detonation; the zero offset is the bomb's own cell.
var blastDirs = []Position{
	{X: 0, Y: 0},  // Centre
	{X: 0, Y: 1},  // Down
	{X: 0, Y: -1}, // Up
	{X: 1, Y: 0},  // Right
	{X: -1, Y: 0}, // Left
}

// placeBomb places a bomb at the player's current (rounded) cell.
func (e *Engine) placeBomb() {
	p := e.Player
	if p.ActiveBombs >= p.MaxBombs {
		return
	}

	pos := p.Cell()
	if bombAt(e.Bombs, pos) != nil {
		return
	}

	e.Bombs = append(e.Bombs, &Bomb{
		Owner: p,
		Pos:   pos,
		Fuse:  e.Config.BombFuse,
		Range: p.BombRange,
	})
	p.ActiveBombs++
}

// tickBombs ages every fuse and detonates expired bombs together with
// every bomb their blasts reach, all within this call.
func (e *Engine) tickBombs(dt time.Duration) {
	var queue []*Bomb
	for _, b := range e.Bombs {
		b.Fuse -= dt
		if b.Fuse <= 0 {
			queue = append(queue, b)
		}
	}
	if len(queue) == 0 {
		return
	}

	detonated := make(map[*Bomb]bool, len(queue))
	for _, b := range queue {
		detonated[b] = true
	}

	// Worklist: a detonation may append further bombs.
	for i := 0; i < len(queue); i++ {
		for _, chained := range e.detonate(queue[i]) {
			if detonated[chained] {
				continue
			}
			chained.Fuse = 0
			detonated[chained] = true
			queue = append(queue, chained)
		}
	}

	remaining := make([]*Bomb, 0, len(e.Bombs))
	for _, b := range e.Bombs {
		if detonated[b] {
			if b.Owner != nil {
				b.Owner.ActiveBombs--
			}
			continue
		}
		remaining = append(remaining, b)
	}
	e.Bombs = remaining
}

// detonate propagates one bomb's blast and returns the other bombs it reached.
func (e *Engine) detonate(bomb *Bomb) []*Bomb {
	e.Shake = 10
	e.emit(Event{Kind: EventBombExploded, Pos: bomb.Pos})
	e.spawnParticles(float64(bomb.Pos.X), float64(bomb.Pos.Y), ParticleBlast)

	var reached []*Bomb
	for _, d := range blastDirs {
		limit := bomb.Range
		if d.X == 0 && d.Y == 0 {
			limit = 1
		}

		for dist := 1; dist <= limit; dist++ {
			pos := bomb.Pos
			if d.X != 0 || d.Y != 0 {
				pos = Position{X: bomb.Pos.X + d.X*dist, Y: bomb.Pos.Y + d.Y*dist}
			}

			if !e.Board.InBounds(pos) {
				break
			}
			tile := e.Board.At(pos)
			if tile == SolidWall {
				break
			}

			e.Explosions = append(e.Explosions, &Explosion{
				Pos:       pos,
				Remaining: e.Config.ExplosionDuration,
			})

			// The blast stops at the wall it breaks
			if tile == BreakableWall {
				e.destroyWall(pos)
				break
			}

			if other := bombAt(e.Bombs, pos); other != nil && other != bomb {
				reached = append(reached, other)
			}
		}
	}
	return reached
}

// destroyWall clears a breakable wall, possibly leaving a power-up behind.
func (e *Engine) destroyWall(pos Position) {
	if e.Board.At(pos) != BreakableWall {
		return
	}
	e.Board.Set(pos, Empty)
	e.maybeSpawnPowerUp(pos)
	e.Player.Score += e.Config.WallScore
}

// tickExplosions ages hazard cells and drops the expired ones.
func (e *Engine) tickExplosions(dt time.Duration) {
	remaining := e.Explosions[:0]
	for _, ex := range e.Explosions {
		ex.Remaining -= dt
		if ex.Remaining > 0 {
			remaining = append(remaining, ex)
		}
	}
	e.Explosions = remaining
}

func bombAt(bombs []*Bomb, pos Position) *Bomb {
	for _, b := range bombs {
		if b.Pos == pos {
			return b
		}
	}
	return nil
}
