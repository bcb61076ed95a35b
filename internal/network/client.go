package network

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/amalg/bomber-arcade/internal/game"
)

// Client connects to a feed and yields the frames it receives.
type Client struct {
	conn      net.Conn
	watcherID string
	player    string
	config    game.Config
	frameCh   chan game.Frame
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient dials a feed and completes the watch handshake.
func NewClient(addr, name string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}

	c := &Client{
		conn:    conn,
		frameCh: make(chan game.Frame, 10),
		done:    make(chan struct{}),
	}

	if err := Encode(conn, MsgWatch, WatchMsg{Name: name}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send watch: %w", err)
	}

	env, err := Decode(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read welcome: %w", err)
	}

	if env.Type == MsgError {
		var errMsg ErrorMsg
		DecodePayload(env, &errMsg)
		conn.Close()
		return nil, fmt.Errorf("feed error: %s", errMsg.Message)
	}

	if env.Type != MsgWelcome {
		conn.Close()
		return nil, fmt.Errorf("expected welcome, got %s", env.Type)
	}

	var welcome WelcomeMsg
	if err := DecodePayload(env, &welcome); err != nil {
		conn.Close()
		return nil, err
	}

	c.watcherID = welcome.WatcherID
	c.player = welcome.Player
	c.config = welcome.Config

	go c.receiveLoop()

	return c, nil
}

// WatcherID returns the id the feed assigned to this spectator.
func (c *Client) WatcherID() string {
	return c.watcherID
}

// Player returns the name of the player being watched.
func (c *Client) Player() string {
	return c.player
}

// Config returns the game configuration received from the feed.
func (c *Client) Config() game.Config {
	return c.config
}

// Frames returns a channel that yields frames; it is closed on disconnect.
func (c *Client) Frames() <-chan game.Frame {
	return c.frameCh
}

// Close disconnects from the feed.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
	c.conn.Close()
}

func (c *Client) receiveLoop() {
	defer close(c.frameCh)

	for {
		select {
		case <-c.done:
			return
		default:
		}

		env, err := Decode(c.conn)
		if err != nil {
			return
		}

		switch env.Type {
		case MsgFrame:
			var msg FrameMsg
			if err := DecodePayload(env, &msg); err != nil {
				continue
			}
			// Drop the oldest frame if the consumer is slow
			select {
			case c.frameCh <- msg.Frame:
			default:
				select {
				case <-c.frameCh:
				default:
				}
				c.frameCh <- msg.Frame
			}
		case MsgError:
			var errMsg ErrorMsg
			DecodePayload(env, &errMsg)
			return
		}
	}
}
