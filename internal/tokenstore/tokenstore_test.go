package tokenstore_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/streamtracker/streamtracker/internal/tokenstore"
	"github.com/stretchr/testify/assert"
)

func TestTokenLifecycle(t *testing.T) {
	s := tokenstore.New()
	_, ok := s.Get()
	assert.False(t, ok)

	s.Set("abc")
	tok, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	s.Set("def")
	tok, _ = s.Get()
	assert.Equal(t, "def", tok)

	s.Clear()
	_, ok = s.Get()
	assert.False(t, ok)
}

func TestTriggerWithoutHandler(t *testing.T) {
	var s tokenstore.Store
	assert.NotPanics(t, s.TriggerUnauthorized)
}

func TestTriggerRunsLatestHandler(t *testing.T) {
	s := tokenstore.New()
	var first, second atomic.Int32
	s.SetOnUnauthorized(func() { first.Add(1) })
	s.SetOnUnauthorized(func() { second.Add(1) })

	s.TriggerUnauthorized()
	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestTriggerAfterDeregister(t *testing.T) {
	s := tokenstore.New()
	var calls atomic.Int32
	s.SetOnUnauthorized(func() { calls.Add(1) })
	s.SetOnUnauthorized(nil)

	s.TriggerUnauthorized()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestTriggerDoesNotWait(t *testing.T) {
	s := tokenstore.New()
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	s.SetOnUnauthorized(func() {
		defer wg.Done()
		<-release
	})

	done := make(chan struct{})
	go func() {
		s.TriggerUnauthorized()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("TriggerUnauthorized blocked on the handler")
	}
	close(release)
	wg.Wait()
}

func TestHandlerMaySetToken(t *testing.T) {
	s := tokenstore.New()
	s.Set("stale")
	s.SetOnUnauthorized(s.Clear)

	s.TriggerUnauthorized()
	assert.Eventually(t, func() bool {
		_, ok := s.Get()
		return !ok
	}, time.Second, 5*time.Millisecond)
}
