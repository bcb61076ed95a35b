package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg/bomber-arcade/internal/discovery"
	"github.com/amalg/bomber-arcade/internal/network"
	"github.com/amalg/bomber-arcade/internal/ui"
)

func main() {
	addr := flag.String("addr", "", "Feed address (e.g., 192.168.1.5:9999); empty browses the LAN")
	name := flag.String("name", "Spectator", "Your spectator name")
	themeName := flag.String("theme", "classic", "Visual theme: classic, retro or neon")
	wait := flag.Duration("browse", 2*time.Second, "How long to listen for LAN sessions")
	flag.Parse()

	log.SetOutput(io.Discard)

	theme, ok := ui.ThemeByName(*themeName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown theme %q (want classic, retro or neon)\n", *themeName)
		os.Exit(1)
	}

	target := *addr
	if target == "" {
		fmt.Println("Looking for games on the LAN...")
		sessions, err := discovery.Browse(*wait)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to browse: %v\n", err)
			os.Exit(1)
		}
		if len(sessions) == 0 {
			fmt.Fprintln(os.Stderr, "No games found. Usage: watch -addr <host:port>")
			os.Exit(1)
		}
		for _, s := range sessions {
			fmt.Printf("  %-16s level %d  score %04d  %-14s %s\n", s.Player, s.Level, s.Score, s.Status, s.FeedAddr)
		}
		target = sessions[0].FeedAddr
	}

	fmt.Printf("Connecting to %s as %s...\n", target, *name)

	client, err := network.NewClient(target, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Printf("Watching %s (spectator %s)\n", client.Player(), client.WatcherID())
	time.Sleep(500 * time.Millisecond)

	model := ui.NewSpectatorModel(client.Frames(), client.Player(), theme)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
