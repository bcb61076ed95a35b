package game

// EventKind identifies a discrete simulation signal.
type EventKind int

const (
	EventBombExploded EventKind = iota
	EventEnemyKilled
	EventPowerUpCollected
	EventPlayerDied
	EventGameOver
	EventLevelComplete
	EventVictory
)

func (k EventKind) String() string {
	switch k {
	case EventBombExploded:
		return "bomb_exploded"
	case EventEnemyKilled:
		return "enemy_killed"
	case EventPowerUpCollected:
		return "powerup_collected"
	case EventPlayerDied:
		return "player_died"
	case EventGameOver:
		return "game_over"
	case EventLevelComplete:
		return "level_complete"
	case EventVictory:
		return "victory"
	}
	return "unknown"
}

// Event is emitted by Update for audio and presentation consumers.
type Event struct {
	Kind    EventKind `json:"kind"`
	Pos     Position  `json:"pos"`
	PowerUp TileType  `json:"powerup,omitempty"` // only for EventPowerUpCollected
}

// CountEvents returns how many events of kind k are in events.
func CountEvents(events []Event, k EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == k {
			n++
		}
	}
	return n
}
