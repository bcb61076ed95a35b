// Package metrics exports run statistics to Prometheus and serves the
// latest snapshot over HTTP for overlays and dashboards.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/amalg/bomber-arcade/internal/game"
)

// Metrics has bounded cardinality: the only label is the power-up kind.
type Metrics struct {
	frames        prometheus.Counter
	explosions    prometheus.Counter
	enemiesKilled prometheus.Counter
	powerUps      *prometheus.CounterVec
	deaths        prometheus.Counter
	levelsCleared prometheus.Counter
	victories     prometheus.Counter
	gameOvers     prometheus.Counter

	score      prometheus.Gauge
	level      prometheus.Gauge
	lives      prometheus.Gauge
	enemies    prometheus.Gauge
	bombs      prometheus.Gauge
	explosionG prometheus.Gauge
	watchers   prometheus.Gauge

	mu     sync.RWMutex
	latest game.Snapshot
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		frames: f.NewCounter(prometheus.CounterOpts{
			Name: "bomber_frames_total",
			Help: "Simulation ticks processed",
		}),
		explosions: f.NewCounter(prometheus.CounterOpts{
			Name: "bomber_bombs_exploded_total",
			Help: "Bombs detonated, chained ones included",
		}),
		enemiesKilled: f.NewCounter(prometheus.CounterOpts{
			Name: "bomber_enemies_killed_total",
			Help: "Enemies destroyed by explosions",
		}),
		powerUps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bomber_powerups_collected_total",
			Help: "Power-ups collected by kind",
		}, []string{"kind"}), // Bounded: range, bomb, speed, shield
		deaths: f.NewCounter(prometheus.CounterOpts{
			Name: "bomber_player_deaths_total",
			Help: "Lives lost, time-outs included",
		}),
		levelsCleared: f.NewCounter(prometheus.CounterOpts{
			Name: "bomber_levels_cleared_total",
			Help: "Levels cleared before the final one",
		}),
		victories: f.NewCounter(prometheus.CounterOpts{
			Name: "bomber_victories_total",
			Help: "Runs that cleared the final level",
		}),
		gameOvers: f.NewCounter(prometheus.CounterOpts{
			Name: "bomber_game_overs_total",
			Help: "Runs that ended out of lives",
		}),
		score: f.NewGauge(prometheus.GaugeOpts{
			Name: "bomber_score",
			Help: "Current score",
		}),
		level: f.NewGauge(prometheus.GaugeOpts{
			Name: "bomber_level",
			Help: "Current level",
		}),
		lives: f.NewGauge(prometheus.GaugeOpts{
			Name: "bomber_lives",
			Help: "Remaining lives",
		}),
		enemies: f.NewGauge(prometheus.GaugeOpts{
			Name: "bomber_enemies",
			Help: "Enemies alive on the board",
		}),
		bombs: f.NewGauge(prometheus.GaugeOpts{
			Name: "bomber_bombs",
			Help: "Live bombs on the board",
		}),
		explosionG: f.NewGauge(prometheus.GaugeOpts{
			Name: "bomber_explosion_cells",
			Help: "Hazardous explosion cells on the board",
		}),
		watchers: f.NewGauge(prometheus.GaugeOpts{
			Name: "bomber_feed_watchers",
			Help: "Connected spectators",
		}),
	}
}

// Observe records one frame.
func (m *Metrics) Observe(frame game.Frame) {
	m.frames.Inc()

	for _, ev := range frame.Events {
		switch ev.Kind {
		case game.EventBombExploded:
			m.explosions.Inc()
		case game.EventEnemyKilled:
			m.enemiesKilled.Inc()
		case game.EventPowerUpCollected:
			m.powerUps.WithLabelValues(ev.PowerUp.String()).Inc()
		case game.EventPlayerDied:
			m.deaths.Inc()
		case game.EventLevelComplete:
			m.levelsCleared.Inc()
		case game.EventVictory:
			m.victories.Inc()
		case game.EventGameOver:
			m.gameOvers.Inc()
		}
	}

	snap := frame.Snapshot
	m.score.Set(float64(snap.Score))
	m.level.Set(float64(snap.Level))
	m.lives.Set(float64(snap.Lives))
	m.enemies.Set(float64(snap.EnemyCount))
	m.bombs.Set(float64(len(snap.Bombs)))
	m.explosionG.Set(float64(len(snap.Explosions)))

	m.mu.Lock()
	m.latest = snap
	m.mu.Unlock()
}

// SetWatchers updates the spectator gauge.
func (m *Metrics) SetWatchers(n int) {
	m.watchers.Set(float64(n))
}

// Latest returns the most recently observed snapshot.
func (m *Metrics) Latest() game.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}
