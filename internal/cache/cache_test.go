package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_GetSetInvalidate(t *testing.T) {
	req := require.New(t)
	s := New[[]string]()
	key := MessagesKey("user-1", "conv-1")

	_, ok := s.Get(key)
	req.False(ok)

	s.Set(key, []string{"a"})
	v, ok := s.Get(key)
	req.True(ok)
	req.Equal([]string{"a"}, v)

	s.Invalidate(key)
	_, ok = s.Get(key)
	req.False(ok)

	stale, ok := s.GetStale(key)
	req.True(ok)
	req.Equal([]string{"a"}, stale)
}

func TestStore_Update(t *testing.T) {
	req := require.New(t)
	s := New[int]()
	key := ConversationsKey("user-1")

	req.False(s.Update(key, func(v int) int { return v + 1 }))

	s.Set(key, 1)
	req.True(s.Update(key, func(v int) int { return v + 1 }))
	v, _ := s.Get(key)
	req.Equal(2, v)

	s.Invalidate(key)
	req.False(s.UpdateValid(key, func(v int) int { return v + 1 }))
	req.True(s.Update(key, func(v int) int { return v * 10 }))
	stale, _ := s.GetStale(key)
	req.Equal(20, stale)
	_, ok := s.Get(key)
	req.False(ok, "Update keeps the entry invalidated")
}

func TestStore_SubscribeReceivesInvalidations(t *testing.T) {
	req := require.New(t)
	s := New[int]()

	var mu sync.Mutex
	var got []Key
	unsubscribe := s.Subscribe(func(key Key) {
		mu.Lock()
		got = append(got, key)
		mu.Unlock()
	})

	s.Invalidate(ConversationsKey("u1"))
	s.Invalidate(MessagesKey("u1", "c1"))
	unsubscribe()
	s.Invalidate(ConversationsKey("u2"))

	req.Equal([]Key{ConversationsKey("u1"), MessagesKey("u1", "c1")}, got)
	req.Equal("conversations:u1", got[0].String())
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s := New[int]()
	s.Set(ConversationsKey("u1"), 3)
	done := make(chan int, 1)
	s.Subscribe(func(key Key) {
		v, _ := s.GetStale(key)
		done <- v
	})
	s.Invalidate(ConversationsKey("u1"))
	require.Equal(t, 3, <-done)
}

func TestStore_MaxAge(t *testing.T) {
	req := require.New(t)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	s := NewWithMaxAge[[]string](30 * time.Second)
	s.now = func() time.Time { return now }
	key := MessagesKey("u1", "c1")

	s.Set(key, []string{"a"})
	now = now.Add(20 * time.Second)
	req.True(s.UpdateValid(key, func(v []string) []string { return append(v, "b") }))

	v, ok := s.Get(key)
	req.True(ok)
	req.Equal([]string{"a", "b"}, v)

	// local edits do not make the entry any younger
	now = now.Add(15 * time.Second)
	_, ok = s.Get(key)
	req.False(ok)
	req.False(s.UpdateValid(key, func(v []string) []string { return append(v, "c") }))

	stale, ok := s.GetStale(key)
	req.True(ok)
	req.Equal([]string{"a", "b"}, stale)

	s.Set(key, []string{"x"})
	_, ok = s.Get(key)
	req.True(ok)
}

func TestMessagesKey_IsPerViewer(t *testing.T) {
	require.NotEqual(t, MessagesKey("u1", "c1"), MessagesKey("u2", "c1"))
}
