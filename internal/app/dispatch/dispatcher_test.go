package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []string
	fail  map[string]bool
	block chan struct{}
}

func (s *recordingSender) Send(to, subject, html string) (string, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[to] {
		return "", errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, to)
	return "msg-" + to, nil
}

func (s *recordingSender) delivered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func TestDispatcherDeliversEnqueuedJobs(t *testing.T) {
	sender := &recordingSender{}
	d := NewEmailDispatcher(sender, 8, zerolog.Nop())
	d.Start()

	assert.True(t, d.Enqueue(Job{To: "a@academix.com", Subject: "s"}))
	assert.True(t, d.Enqueue(Job{To: "b@academix.com", Subject: "s"}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, []string{"a@academix.com", "b@academix.com"}, sender.delivered())
}

func TestDispatcherContinuesAfterDeliveryFailure(t *testing.T) {
	sender := &recordingSender{fail: map[string]bool{"broken@academix.com": true}}
	d := NewEmailDispatcher(sender, 8, zerolog.Nop())
	d.Start()

	assert.True(t, d.Enqueue(Job{To: "broken@academix.com"}))
	assert.True(t, d.Enqueue(Job{To: "ok@academix.com"}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, []string{"ok@academix.com"}, sender.delivered())
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewEmailDispatcher(sender, 1, zerolog.Nop())
	// Worker not started, so the queue fills immediately
	assert.True(t, d.Enqueue(Job{To: "first@academix.com"}))
	assert.False(t, d.Enqueue(Job{To: "second@academix.com"}))
	close(sender.block)

	d.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	assert.Equal(t, []string{"first@academix.com"}, sender.delivered())
}

func TestDispatcherRejectsAfterStop(t *testing.T) {
	sender := &recordingSender{}
	d := NewEmailDispatcher(sender, 8, zerolog.Nop())
	d.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.False(t, d.Enqueue(Job{To: "late@academix.com"}))
	assert.Empty(t, sender.delivered())
}

func TestDispatcherStopIsIdempotent(t *testing.T) {
	d := NewEmailDispatcher(&recordingSender{}, 8, zerolog.Nop())
	d.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	require.NoError(t, d.Stop(ctx))
}
