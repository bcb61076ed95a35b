package discovery

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amalg/bomber-arcade/internal/game"
)

func TestBroadcasterObserve(t *testing.T) {
	b := NewBroadcaster(SessionInfo{Player: "alice", FeedAddr: "0.0.0.0:9999"})
	b.Observe(game.Snapshot{Level: 2, Score: 410, Status: game.StatusLevelComplete}, 3)

	info := b.Info()
	assert.Equal(t, "alice", info.Player)
	assert.Equal(t, 2, info.Level)
	assert.Equal(t, 410, info.Score)
	assert.Equal(t, "level_complete", info.Status)
	assert.Equal(t, 3, info.Watchers)
}

func TestListenerRecordRewritesWildcardHost(t *testing.T) {
	l := NewListener()
	data, err := json.Marshal(SessionInfo{Player: "alice", Level: 1, FeedAddr: "0.0.0.0:9999"})
	require.NoError(t, err)

	require.True(t, l.record(data, net.IPv4(192, 168, 1, 5), time.Now()))

	sessions := l.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "192.168.1.5:9999", sessions[0].FeedAddr)
}

func TestListenerRecordKeepsExplicitHost(t *testing.T) {
	l := NewListener()
	data, err := json.Marshal(SessionInfo{FeedAddr: "10.0.0.7:9000"})
	require.NoError(t, err)

	require.True(t, l.record(data, net.IPv4(192, 168, 1, 5), time.Now()))
	assert.Equal(t, "10.0.0.7:9000", l.Sessions()[0].FeedAddr)
}

func TestListenerIgnoresGarbage(t *testing.T) {
	l := NewListener()
	assert.False(t, l.record([]byte("not json"), nil, time.Now()))
	assert.False(t, l.record([]byte(`{"player":"x"}`), nil, time.Now()))
	assert.Empty(t, l.Sessions())
}

func TestListenerExpiryAndOrdering(t *testing.T) {
	l := NewListener()
	now := time.Now()

	for _, info := range []SessionInfo{
		{Level: 1, FeedAddr: "10.0.0.1:9999"},
		{Level: 3, FeedAddr: "10.0.0.2:9999"},
		{Level: 2, FeedAddr: "10.0.0.3:9999"},
	} {
		data, err := json.Marshal(info)
		require.NoError(t, err)
		l.record(data, nil, now)
	}
	stale, _ := json.Marshal(SessionInfo{Level: 9, FeedAddr: "10.0.0.4:9999"})
	l.record(stale, nil, now.Add(-2*SessionExpiry))

	l.expire(now)

	sessions := l.Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{sessions[0].Level, sessions[1].Level, sessions[2].Level})
}

func TestDirectedBroadcast(t *testing.T) {
	_, ipnet, err := net.ParseCIDR("192.168.1.20/24")
	require.NoError(t, err)
	ipnet.IP = net.IPv4(192, 168, 1, 20)

	assert.Equal(t, "192.168.1.255", directedBroadcast(ipnet).String())

	_, v6, err := net.ParseCIDR("fe80::1/64")
	require.NoError(t, err)
	assert.Nil(t, directedBroadcast(v6))
}
