package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/amalg/bomber-arcade/internal/discovery"
	"github.com/amalg/bomber-arcade/internal/game"
	"github.com/amalg/bomber-arcade/internal/metrics"
	"github.com/amalg/bomber-arcade/internal/network"
	"github.com/amalg/bomber-arcade/internal/ui"
)

func main() {
	name := flag.String("name", "Player", "Your player name (shown to spectators)")
	seed := flag.Int64("seed", 0, "Random seed for level layouts (0: time based)")
	themeName := flag.String("theme", "classic", "Visual theme: classic, retro or neon")
	width := flag.Int("width", 15, "Board width (odd number, 7..99)")
	height := flag.Int("height", 13, "Board height (odd number, 7..99)")
	feedPort := flag.Int("feed-port", 0, "Spectator feed port (0: disabled)")
	advertise := flag.Bool("advertise", false, "Announce the spectator feed on the LAN")
	metricsAddr := flag.String("metrics-addr", "", "Serve /metrics and /api on this address (empty: disabled)")
	logFile := flag.String("log", "", "Log file path (default: discard logs)")
	flag.Parse()

	// Ensure odd dimensions for proper wall grid
	if *width%2 == 0 {
		*width++
	}
	if *height%2 == 0 {
		*height++
	}

	theme, ok := ui.ThemeByName(*themeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown theme %q (want classic, retro or neon)\n", *themeName)
		os.Exit(1)
	}

	// Redirect log output before anything else runs: stderr output
	// corrupts Bubbletea's terminal rendering.
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	config := game.DefaultConfig()
	config.Width = *width
	config.Height = *height
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid board: %v\n", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Printf("[MAIN] Seed %d", *seed)

	engine := game.NewEngine(config, rand.New(rand.NewSource(*seed)))
	loop := game.NewLoop(engine)
	frames := loop.Subscribe()

	var feed *network.Server
	if *feedPort > 0 {
		feedConfig := network.DefaultFeedConfig()
		feedConfig.Addr = fmt.Sprintf("0.0.0.0:%d", *feedPort)
		feedConfig.Player = *name

		feed = network.NewServer(feedConfig, config)
		if err := feed.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start spectator feed: %v\n", err)
			os.Exit(1)
		}
		defer feed.Stop()

		fmt.Printf("💣 Spectator feed on port %d\n", *feedPort)
		printLocalAddrs(*feedPort)
	}

	watchers := func() int {
		if feed == nil {
			return 0
		}
		return feed.WatcherCount()
	}

	if feed != nil {
		loop.OnTick(feed.Publish)
	}

	if *advertise {
		if feed == nil {
			fmt.Fprintln(os.Stderr, "-advertise needs -feed-port")
			os.Exit(1)
		}
		b := discovery.NewBroadcaster(discovery.SessionInfo{
			Player:   *name,
			Status:   game.StatusMenu.String(),
			FeedAddr: feed.Addr(),
		})
		b.Start()
		defer b.Stop()
		loop.OnTick(func(f game.Frame) { b.Observe(f.Snapshot, watchers()) })
	}

	if *metricsAddr != "" {
		m := metrics.New(prometheus.DefaultRegisterer)
		loop.OnTick(func(f game.Frame) {
			m.Observe(f)
			m.SetWatchers(watchers())
		})

		srv, err := metrics.StartServer(*metricsAddr, metrics.NewRouter(metrics.RouterConfig{
			Metrics:  m,
			Gatherer: prometheus.DefaultGatherer,
		}))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start metrics server: %v\n", err)
			os.Exit(1)
		}
		defer srv.Close()
		fmt.Printf("📈 Metrics on http://%s/metrics\n", *metricsAddr)
	}

	if feed != nil || *metricsAddr != "" {
		// Small pause so the user can read the addresses
		time.Sleep(500 * time.Millisecond)
	}

	go loop.Run()
	defer loop.Stop()

	// Handle OS signals for clean shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	model := ui.NewModel(frames, loop, theme)
	p := tea.NewProgram(model, tea.WithAltScreen())
	go func() {
		<-sigCh
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// printLocalAddrs prints the addresses spectators can watch from.
func printLocalAddrs(port int) {
	fmt.Println("Spectators can watch using:")
	fmt.Printf("  watch -addr 127.0.0.1:%d (this machine)\n", port)

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				fmt.Printf("  watch -addr %s:%d\n", ipnet.IP.String(), port)
			}
		}
	}
}
