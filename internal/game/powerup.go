package game

// maybeSpawnPowerUp turns a freshly cleared cell into a random power-up.
func (e *Engine) maybeSpawnPowerUp(pos Position) {
	if e.rng.Float64() >= e.Config.PowerUpChance {
		return
	}
	e.Board.Set(pos, PowerUpKinds[e.rng.Intn(len(PowerUpKinds))])
}

// collectPowerUp applies the power-up under the player, if any.
// Called when the player snaps onto a cell.
func (e *Engine) collectPowerUp() {
	p := e.Player
	pos := p.Cell()
	tile := e.Board.At(pos)
	if !tile.IsPowerUp() {
		return
	}

	switch tile {
	case PowerUpRange:
		p.BombRange++
	case PowerUpBomb:
		p.MaxBombs++
	case PowerUpSpeed:
		p.Speed += e.Config.SpeedBoost
	case PowerUpShield:
		p.Shield = e.Config.ShieldPowerUpDuration
	}
	p.Score += e.Config.PowerUpScore
	e.Board.Set(pos, Empty)
	e.emit(Event{Kind: EventPowerUpCollected, Pos: pos, PowerUp: tile})
}
