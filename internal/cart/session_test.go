package cart

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionsGetCreatesOnce(t *testing.T) {
	s := NewSessions(SessionConfig{TTL: time.Hour}, zap.NewNop())
	t.Cleanup(s.Close)

	id := s.NewID()
	require.True(t, ValidID(id))

	c1 := s.Get(id)
	c1.Add("1")
	c2 := s.Get(id)
	require.Same(t, c1, c2)
	require.Equal(t, 1, c2.Quantity("1"))

	other := s.Get(s.NewID())
	require.NotSame(t, c1, other)
	require.Equal(t, 2, s.Count())
}

func TestSessionsEndRunsHooks(t *testing.T) {
	var mu sync.Mutex
	var ended []string
	s := NewSessions(SessionConfig{TTL: time.Hour}, zap.NewNop(), func(id string) {
		mu.Lock()
		defer mu.Unlock()
		ended = append(ended, id)
	})
	t.Cleanup(s.Close)

	c := s.Get("a")
	c.Add("1")
	s.End("a")

	require.Empty(t, c.Quantities())
	_, ok := s.Peek("a")
	require.False(t, ok)
	require.Equal(t, []string{"a"}, ended)

	// a new cart starts empty
	require.Zero(t, s.Get("a").ItemCount())
}

func TestSessionsExpire(t *testing.T) {
	ended := make(chan string, 1)
	s := NewSessions(SessionConfig{TTL: 20 * time.Millisecond, CleanupInterval: time.Hour}, zap.NewNop(),
		func(id string) { ended <- id })
	t.Cleanup(s.Close)

	c := s.Get("idle")
	c.Add("2")

	time.Sleep(50 * time.Millisecond)
	s.Sweep()

	select {
	case id := <-ended:
		require.Equal(t, "idle", id)
	case <-time.After(time.Second):
		t.Fatal("session did not expire")
	}
	require.Empty(t, c.Quantities())
	require.Zero(t, s.Count())
}

func TestSessionsClose(t *testing.T) {
	n := 0
	s := NewSessions(SessionConfig{}, zap.NewNop(), func(string) { n++ })
	s.Get("a")
	s.Get("b")
	s.Close()
	require.Equal(t, 2, n)
	require.Zero(t, s.Count())
}

func TestSessionsGetTearsDownExpiredCart(t *testing.T) {
	var mu sync.Mutex
	var ended []string
	s := NewSessions(SessionConfig{TTL: 20 * time.Millisecond, CleanupInterval: time.Hour}, zap.NewNop(),
		func(id string) {
			mu.Lock()
			defer mu.Unlock()
			ended = append(ended, id)
		})
	t.Cleanup(s.Close)

	old := s.Get("idle")
	old.Add("custom")

	time.Sleep(50 * time.Millisecond)

	// the janitor has not run; Get itself must end the expired session
	fresh := s.Get("idle")
	require.NotSame(t, old, fresh)
	require.Zero(t, fresh.ItemCount())
	require.Empty(t, old.Quantities())

	mu.Lock()
	require.Equal(t, []string{"idle"}, ended)
	mu.Unlock()
}

func TestSessionsSweepLoop(t *testing.T) {
	ended := make(chan string, 1)
	s := NewSessions(SessionConfig{TTL: 10 * time.Millisecond, CleanupInterval: 10 * time.Millisecond}, zap.NewNop(),
		func(id string) { ended <- id })
	t.Cleanup(s.Close)

	s.Get("idle").Add("1")

	select {
	case id := <-ended:
		require.Equal(t, "idle", id)
	case <-time.After(time.Second):
		t.Fatal("sweep loop did not end the session")
	}
}

func TestSessionsCloseStopsSweepLoop(t *testing.T) {
	s := NewSessions(SessionConfig{CleanupInterval: time.Millisecond}, zap.NewNop())
	s.Close()

	select {
	case <-s.done:
	default:
		t.Fatal("sweep loop still running")
	}
	// closing twice is harmless
	s.Close()
}

func TestValidID(t *testing.T) {
	require.False(t, ValidID(""))
	require.False(t, ValidID("not-a-uuid"))
	require.True(t, ValidID("0b5e3a52-1d3e-4a4f-9a43-1f6b5f8c2d10"))
}
