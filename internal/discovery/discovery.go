package discovery

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/amalg/bomber-arcade/internal/game"
)

const (
	// BroadcastPort is the UDP port used for session discovery.
	BroadcastPort = 9998
	// BroadcastInterval is how often a running game advertises itself.
	BroadcastInterval = 1 * time.Second
	// SessionExpiry is how long a session stays visible after its last broadcast.
	SessionExpiry = 4 * time.Second
)

// SessionInfo describes a running game whose spectator feed can be watched.
type SessionInfo struct {
	Player   string `json:"player"`
	Level    int    `json:"level"`
	Score    int    `json:"score"`
	Status   string `json:"status"`
	Watchers int    `json:"watchers"`
	FeedAddr string `json:"feed_addr"` // TCP host:port of the spectator feed
}

// --- Broadcaster ---

// Broadcaster periodically sends UDP broadcast packets with session info.
type Broadcaster struct {
	info SessionInfo
	done chan struct{}
	mu   sync.Mutex
}

// NewBroadcaster creates a new session broadcaster.
func NewBroadcaster(info SessionInfo) *Broadcaster {
	return &Broadcaster{
		info: info,
		done: make(chan struct{}),
	}
}

// Observe refreshes the advertised progress from a snapshot.
func (b *Broadcaster) Observe(snap game.Snapshot, watchers int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.info.Level = snap.Level
	b.info.Score = snap.Score
	b.info.Status = snap.Status.String()
	b.info.Watchers = watchers
}

// Info returns the currently advertised session.
func (b *Broadcaster) Info() SessionInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.info
}

// Start begins broadcasting session info via UDP.
func (b *Broadcaster) Start() error {
	go b.broadcastLoop()
	return nil
}

// Stop stops the broadcaster.
func (b *Broadcaster) Stop() {
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

func (b *Broadcaster) broadcastLoop() {
	// ListenPacket rather than DialUDP: dialing 255.255.255.255 fails
	// silently on Linux without SO_BROADCAST.
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		log.Printf("[DISCOVERY] Failed to create broadcast socket: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(BroadcastInterval)
	defer ticker.Stop()

	for {
		b.announce(conn)
		select {
		case <-b.done:
			return
		case <-ticker.C:
		}
	}
}

// announce writes the session to loopback, the global broadcast address
// and every interface's directed broadcast address.
func (b *Broadcaster) announce(conn net.PacketConn) {
	data, err := json.Marshal(b.Info())
	if err != nil {
		log.Printf("[DISCOVERY] Failed to encode session: %v", err)
		return
	}

	// Loopback first: same-machine watchers, and firewalls often drop 255.255.255.255
	targets := []net.IP{net.IPv4(127, 0, 0, 1), net.IPv4bcast}
	targets = append(targets, interfaceBroadcasts()...)
	for _, ip := range targets {
		conn.WriteTo(data, &net.UDPAddr{IP: ip, Port: BroadcastPort})
	}
}

// interfaceBroadcasts lists the directed broadcast address of every
// IPv4 interface that is up and broadcast-capable.
func interfaceBroadcasts() []net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}

	var out []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagBroadcast == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok {
				if ip := directedBroadcast(ipnet); ip != nil {
					out = append(out, ip)
				}
			}
		}
	}
	return out
}

// directedBroadcast returns IP | ^Mask for an IPv4 network, or nil.
func directedBroadcast(ipnet *net.IPNet) net.IP {
	ip4 := ipnet.IP.To4()
	if ip4 == nil || len(ipnet.Mask) != net.IPv4len {
		return nil
	}
	bcast := make(net.IP, net.IPv4len)
	for i := range bcast {
		bcast[i] = ip4[i] | ^ipnet.Mask[i]
	}
	return bcast
}

// --- Listener ---

// discoveredSession holds a session and when it was last seen.
type discoveredSession struct {
	Info     SessionInfo
	LastSeen time.Time
}

// Listener listens for UDP session advertisements.
type Listener struct {
	sessions map[string]*discoveredSession // keyed by FeedAddr
	mu       sync.RWMutex
	conn     *net.UDPConn
	done     chan struct{}
}

// NewListener creates a new session listener.
func NewListener() *Listener {
	return &Listener{
		sessions: make(map[string]*discoveredSession),
		done:     make(chan struct{}),
	}
}

// Start begins listening for session broadcasts.
func (l *Listener) Start() error {
	addr := &net.UDPAddr{
		Port: BroadcastPort,
		IP:   net.IPv4zero,
	}

	var err error
	l.conn, err = net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("listen UDP on port %d: %w (is another watcher browsing?)", BroadcastPort, err)
	}

	go l.listenLoop()
	go l.cleanupLoop()

	return nil
}

// Stop stops the listener.
func (l *Listener) Stop() {
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	if l.conn != nil {
		l.conn.Close()
	}
}

// Sessions returns the currently visible sessions, highest level first.
func (l *Listener) Sessions() []SessionInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()

	sessions := make([]SessionInfo, 0, len(l.sessions))
	for _, ds := range l.sessions {
		sessions = append(sessions, ds.Info)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Level != sessions[j].Level {
			return sessions[i].Level > sessions[j].Level
		}
		return sessions[i].FeedAddr < sessions[j].FeedAddr
	})
	return sessions
}

// record stores an advertisement received from sender at the given time.
// A feed bound to a wildcard address is rewritten to the sender's IP.
func (l *Listener) record(data []byte, sender net.IP, seen time.Time) bool {
	var info SessionInfo
	if err := json.Unmarshal(data, &info); err != nil || info.FeedAddr == "" {
		return false
	}
	if host, port, err := net.SplitHostPort(info.FeedAddr); err == nil && sender != nil {
		if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
			info.FeedAddr = net.JoinHostPort(sender.String(), port)
		}
	}

	l.mu.Lock()
	l.sessions[info.FeedAddr] = &discoveredSession{Info: info, LastSeen: seen}
	l.mu.Unlock()
	return true
}

// expire drops sessions not seen since SessionExpiry before now.
func (l *Listener) expire(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for addr, ds := range l.sessions {
		if now.Sub(ds.LastSeen) > SessionExpiry {
			delete(l.sessions, addr)
		}
	}
}

func (l *Listener) listenLoop() {
	buf := make([]byte, 4096)
	for {
		select {
		case <-l.done:
			return
		default:
		}

		l.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}
		l.record(buf[:n], from.IP, time.Now())
	}
}

func (l *Listener) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case now := <-ticker.C:
			l.expire(now)
		}
	}
}

// Browse listens for the given duration and returns what it saw.
func Browse(wait time.Duration) ([]SessionInfo, error) {
	l := NewListener()
	if err := l.Start(); err != nil {
		return nil, err
	}
	defer l.Stop()

	time.Sleep(wait)
	return l.Sessions(), nil
}
