package network

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/amalg/bomber-arcade/internal/game"
)

// writeTimeout keeps a stalled spectator from blocking the game loop.
const writeTimeout = 200 * time.Millisecond

// FeedConfig configures the spectator feed.
type FeedConfig struct {
	Addr        string  // TCP listen address
	MaxFPS      float64 // frames per second sent to spectators
	MaxWatchers int
	Player      string // advertised player name
}

// DefaultFeedConfig returns a feed on port 9999 at 20 frames per second.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		Addr:        "0.0.0.0:9999",
		MaxFPS:      20,
		MaxWatchers: 16,
		Player:      "Player",
	}
}

// Server streams frames of a local run to read-only spectators.
type Server struct {
	config     FeedConfig
	gameConfig game.Config
	listener   net.Listener
	watchers   map[string]*watcherConn
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
	limiter    *rate.Limiter
	nextID     atomic.Uint64

	// latest frame and the events not yet delivered
	frameMu sync.Mutex
	latest  game.Frame
	pending []game.Event
}

// watcherConn represents a connected spectator.
type watcherConn struct {
	conn net.Conn
	id   string
	name string
	mu   sync.Mutex
}

// NewServer creates a feed server. Call Start to begin listening.
func NewServer(config FeedConfig, gameConfig game.Config) *Server {
	burst := int(config.MaxFPS)
	if burst < 1 {
		burst = 1
	}
	return &Server{
		config:     config,
		gameConfig: gameConfig,
		watchers:   make(map[string]*watcherConn),
		done:       make(chan struct{}),
		limiter:    rate.NewLimiter(rate.Limit(config.MaxFPS), burst),
	}
}

// Start begins accepting spectators.
func (s *Server) Start() error {
	var err error
	s.listener, err = net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Printf("[FEED] Listening on %s", s.listener.Addr())
	go s.acceptLoop()
	return nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

// Stop shuts down the server and disconnects every spectator.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.RLock()
		for _, w := range s.watchers {
			w.conn.Close()
		}
		s.mu.RUnlock()
	})
}

// WatcherCount returns the number of connected spectators.
func (s *Server) WatcherCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.watchers)
}

// Publish records a frame and forwards it when the rate limiter allows.
// Events of skipped frames are carried into the next frame sent.
func (s *Server) Publish(frame game.Frame) {
	s.frameMu.Lock()
	s.latest = frame
	s.pending = append(s.pending, frame.Events...)
	if !s.limiter.Allow() {
		s.frameMu.Unlock()
		return
	}
	out := game.Frame{Snapshot: frame.Snapshot, Events: s.pending}
	s.pending = nil
	s.frameMu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.watchers {
		s.sendFrame(w, out)
	}
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("[FEED] Accept error: %v", err)
				continue
			}
		}
		go s.handleWatcher(conn)
	}
}

func (s *Server) handleWatcher(conn net.Conn) {
	defer conn.Close()

	env, err := Decode(conn)
	if err != nil {
		log.Printf("[FEED] Failed to read watch message: %v", err)
		return
	}
	if env.Type != MsgWatch {
		log.Printf("[FEED] Expected watch message, got %s", env.Type)
		Encode(conn, MsgError, ErrorMsg{Message: "expected watch message"})
		return
	}

	var watch WatchMsg
	if err := DecodePayload(env, &watch); err != nil {
		log.Printf("[FEED] %v", err)
		return
	}

	if s.config.MaxWatchers > 0 && s.WatcherCount() >= s.config.MaxWatchers {
		Encode(conn, MsgError, ErrorMsg{Message: fmt.Sprintf("feed is full (%d/%d watchers)", s.config.MaxWatchers, s.config.MaxWatchers)})
		return
	}

	id := fmt.Sprintf("w%d", s.nextID.Add(1))
	w := &watcherConn{conn: conn, id: id, name: watch.Name}

	// Welcome and the current frame go out before the watcher is
	// registered, so Publish can never overtake the handshake.
	welcome := WelcomeMsg{WatcherID: id, Player: s.config.Player, Config: s.gameConfig}
	if err := Encode(conn, MsgWelcome, welcome); err != nil {
		log.Printf("[FEED] Failed to send welcome: %v", err)
		return
	}
	s.frameMu.Lock()
	initial := game.Frame{Snapshot: s.latest.Snapshot}
	s.frameMu.Unlock()
	s.sendFrame(w, initial)

	s.mu.Lock()
	s.watchers[id] = w
	s.mu.Unlock()

	log.Printf("[FEED] Watcher joined: %s (%s)", watch.Name, id)

	// Spectators are read-only; reading only detects the disconnect
	for {
		env, err := Decode(conn)
		if err != nil {
			log.Printf("[FEED] Watcher %s disconnected: %v", id, err)
			s.removeWatcher(id)
			return
		}
		log.Printf("[FEED] Ignoring %s message from watcher %s", env.Type, id)
	}
}

func (s *Server) removeWatcher(id string) {
	s.mu.Lock()
	if w, ok := s.watchers[id]; ok {
		w.conn.Close()
		delete(s.watchers, id)
	}
	s.mu.Unlock()
	log.Printf("[FEED] Watcher removed: %s", id)
}

func (s *Server) sendFrame(w *watcherConn, frame game.Frame) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := Encode(w.conn, MsgFrame, FrameMsg{Frame: frame}); err != nil {
		log.Printf("[FEED] Failed to send frame to %s: %v", w.id, err)
	}
}
