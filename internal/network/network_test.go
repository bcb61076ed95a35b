package network

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/bomber-arcade/internal/game"
)

func TestEncodeDecodeFrame(t *testing.T) {
	var buf bytes.Buffer
	frame := game.Frame{
		Snapshot: game.Snapshot{Level: 2, Score: 340, Status: game.StatusPlaying},
		Events:   []game.Event{{Kind: game.EventEnemyKilled, Pos: game.Position{X: 3, Y: 5}}},
	}

	require.NoError(t, Encode(&buf, MsgFrame, FrameMsg{Frame: frame}))

	env, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, MsgFrame, env.Type)

	var msg FrameMsg
	require.NoError(t, DecodePayload(env, &msg))
	assert.Equal(t, 2, msg.Frame.Snapshot.Level)
	assert.Equal(t, 340, msg.Frame.Snapshot.Score)
	assert.Equal(t, game.StatusPlaying, msg.Frame.Snapshot.Status)
	require.Len(t, msg.Frame.Events, 1)
	assert.Equal(t, game.EventEnemyKilled, msg.Frame.Events[0].Kind)
}

func TestDecodeRejectsOversizedMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(maxMessageSize+1)))

	_, err := Decode(&buf)
	assert.ErrorContains(t, err, "too large")
}

func TestDecodeTruncatedBody(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, MsgWatch, WatchMsg{Name: "alice"}))
	truncated := bytes.NewReader(buf.Bytes()[:buf.Len()-3])

	_, err := Decode(truncated)
	assert.Error(t, err)
}

func TestFeedDeliversFrames(t *testing.T) {
	config := DefaultFeedConfig()
	config.Addr = "127.0.0.1:0"
	config.Player = "Host"
	gameConfig := game.DefaultConfig()

	srv := NewServer(config, gameConfig)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	client, err := NewClient(srv.Addr(), "spectator")
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "Host", client.Player())
	assert.Equal(t, gameConfig.Width, client.Config().Width)
	assert.NotEmpty(t, client.WatcherID())

	require.Eventually(t, func() bool { return srv.WatcherCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.Publish(game.Frame{
		Snapshot: game.Snapshot{Level: 3, Status: game.StatusWin},
		Events:   []game.Event{{Kind: game.EventVictory}},
	})

	timeout := time.After(2 * time.Second)
	for {
		select {
		case f, ok := <-client.Frames():
			require.True(t, ok, "feed closed early")
			if f.Snapshot.Level != 3 {
				continue
			}
			assert.Equal(t, game.StatusWin, f.Snapshot.Status)
			assert.Equal(t, 1, game.CountEvents(f.Events, game.EventVictory))
			return
		case <-timeout:
			t.Fatal("published frame never arrived")
		}
	}
}

func TestFeedRejectsWhenFull(t *testing.T) {
	config := DefaultFeedConfig()
	config.Addr = "127.0.0.1:0"
	config.MaxWatchers = 1

	srv := NewServer(config, game.DefaultConfig())
	require.NoError(t, srv.Start())
	defer srv.Stop()

	first, err := NewClient(srv.Addr(), "first")
	require.NoError(t, err)
	defer first.Close()
	require.Eventually(t, func() bool { return srv.WatcherCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = NewClient(srv.Addr(), "second")
	assert.ErrorContains(t, err, "feed is full")
}

func TestPublishCarriesEventsOfSkippedFrames(t *testing.T) {
	config := DefaultFeedConfig()
	config.MaxFPS = 1
	srv := NewServer(config, game.DefaultConfig())

	srv.Publish(game.Frame{Events: []game.Event{{Kind: game.EventBombExploded}}})
	srv.Publish(game.Frame{Events: []game.Event{{Kind: game.EventEnemyKilled}}})
	srv.Publish(game.Frame{Snapshot: game.Snapshot{Level: 2}, Events: []game.Event{{Kind: game.EventLevelComplete}}})

	srv.frameMu.Lock()
	defer srv.frameMu.Unlock()
	assert.Equal(t, 2, srv.latest.Snapshot.Level)
	require.Len(t, srv.pending, 2)
	assert.Equal(t, game.EventEnemyKilled, srv.pending[0].Kind)
	assert.Equal(t, game.EventLevelComplete, srv.pending[1].Kind)
}

func TestLargestBoardFitsInOneMessage(t *testing.T) {
	config := game.DefaultConfig()
	config.Width, config.Height = game.MaxBoardSide, game.MaxBoardSide
	require.NoError(t, config.Validate())

	engine := game.NewEngine(config, nil)
	require.True(t, engine.Start())
	snap := engine.Snapshot()

	// Worst case: every cell burning at once
	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			snap.Explosions = append(snap.Explosions, game.ExplosionView{
				Pos:       game.Position{X: x, Y: y},
				Remaining: 2.0 / 3,
			})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, MsgFrame, FrameMsg{Frame: game.Frame{Snapshot: snap}}))
	assert.Less(t, buf.Len(), maxMessageSize)
}
