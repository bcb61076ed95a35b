package game

import (
	"log"
	"sync"
	"time"
)

// ActionType represents the type of player command.
type ActionType int

const (
	ActionMove ActionType = iota
	ActionPlaceBomb
	ActionStart
)

// Action is a raw input command queued for the next tick.
type Action struct {
	Type ActionType
	Dir  Direction // Only relevant for ActionMove
}

// maxFrameStep caps dt after a stall so timers do not jump a whole fuse.
const maxFrameStep = 250 * time.Millisecond

// Loop drives an Engine at a fixed tick rate and fans each frame out to
// subscribers (the TUI, the spectator feed, metrics).
type Loop struct {
	engine   *Engine
	actions  chan Action
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	onTick   []func(Frame)
	last     time.Time
}

// NewLoop wraps an engine.
func NewLoop(engine *Engine) *Loop {
	return &Loop{
		engine:  engine,
		actions: make(chan Action, 256),
		done:    make(chan struct{}),
	}
}

// OnTick registers a callback that is invoked after every tick with a copy
// of the frame. Register callbacks before calling Run.
func (l *Loop) OnTick(fn func(Frame)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onTick = append(l.onTick, fn)
}

// Run ticks the engine at Config.TickRate until Stop is called.
func (l *Loop) Run() {
	rate := l.engine.Config.TickRate
	if rate <= 0 {
		rate = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	l.last = time.Now()
	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			dt := now.Sub(l.last)
			l.last = now
			if dt > maxFrameStep {
				dt = maxFrameStep
			}
			l.Step(dt)
		}
	}
}

// Stop halts the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Enqueue queues a command for the next tick.
func (l *Loop) Enqueue(a Action) {
	select {
	case l.actions <- a:
	default:
		// Drop action if buffer is full (prevents blocking)
	}
}

// Step processes one tick: drain commands, update the engine, publish.
// The frame is copied under the lock and published after it is released
// so callbacks may call back into the loop.
func (l *Loop) Step(dt time.Duration) Frame {
	l.mu.Lock()
	in := l.drainActions()
	events := l.engine.Update(dt, in)
	frame := Frame{Snapshot: l.engine.Snapshot(), Events: events}
	callbacks := append([]func(Frame){}, l.onTick...)
	l.mu.Unlock()

	for _, fn := range callbacks {
		fn(frame)
	}
	return frame
}

// Frame returns the current state without advancing time.
func (l *Loop) Frame() Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Frame{Snapshot: l.engine.Snapshot()}
}

// Config returns the engine configuration.
func (l *Loop) Config() Config {
	return l.engine.Config
}

// drainActions merges every queued command into one tick of input.
// Must be called with l.mu held.
func (l *Loop) drainActions() Input {
	var up, down, left, right, bomb bool
	for {
		select {
		case a := <-l.actions:
			switch a.Type {
			case ActionMove:
				switch a.Dir {
				case DirUp:
					up = true
				case DirDown:
					down = true
				case DirLeft:
					left = true
				case DirRight:
					right = true
				}
			case ActionPlaceBomb:
				bomb = true
			case ActionStart:
				if l.engine.Start() {
					log.Printf("[LOOP] Run started")
				}
			}
		default:
			return Input{Dir: IntentFromKeys(up, down, left, right), PlaceBomb: bomb}
		}
	}
}

// Subscribe returns a channel that yields frames. A slow reader only
// misses intermediate frames; the latest one always gets through.
func (l *Loop) Subscribe() <-chan Frame {
	ch := make(chan Frame, 1)
	l.OnTick(func(f Frame) {
		select {
		case ch <- f:
		default:
			select {
			case old := <-ch:
				f.Events = append(append([]Event(nil), old.Events...), f.Events...)
			default:
			}
			select {
			case ch <- f:
			default:
			}
		}
	})
	return ch
}
