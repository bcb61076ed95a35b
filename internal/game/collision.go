package game

// checkCollisions resolves explosion hits and enemy contact for this tick.
func (e *Engine) checkCollisions() {
	hazards := make(map[Position]bool, len(e.Explosions))
	for _, ex := range e.Explosions {
		hazards[ex.Pos] = true
	}

	if hazards[e.Player.Cell()] && !e.Player.Shielded() {
		e.playerDeath()
		if e.Status != StatusPlaying {
			return
		}
	}

	// Enemies caught in fire
	survivors := e.Enemies[:0]
	for _, en := range e.Enemies {
		if !hazards[en.Cell()] {
			survivors = append(survivors, en)
			continue
		}
		e.spawnParticles(en.X, en.Y, ParticleEnemy)
		e.Player.Score += e.Config.KillScore
		e.emit(Event{Kind: EventEnemyKilled, Pos: en.Cell()})
	}
	e.Enemies = survivors

	// Contact never hurts enemies, only the player
	for _, en := range e.Enemies {
		if e.Player.Shielded() {
			return
		}
		if e.Player.DistanceTo(&en.Motion) < e.Config.ContactDistance {
			e.playerDeath()
			if e.Status != StatusPlaying {
				return
			}
		}
	}
}
