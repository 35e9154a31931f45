package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	msgs []Message
	err  error
	gate chan struct{}
}

func (r *recordingSender) Send(ctx context.Context, msg Message) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherDeliversAndDrainsOnStop(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(quietLogger(), WithWorkers(2), WithQueueSize(8), WithSender(ChannelEmail, sender))
	d.Start()

	for i := 0; i < 5; i++ {
		require.True(t, d.Submit(Message{Channel: ChannelEmail, To: []string{"a@example.com"}}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))
	assert.Equal(t, 5, sender.count())
	assert.False(t, d.Submit(Message{Channel: ChannelEmail}), "submit after stop must be rejected")
}

func TestDispatcherSubmitNeverBlocksWhenFull(t *testing.T) {
	d := NewDispatcher(quietLogger(), WithQueueSize(1))
	// workers not started, so the queue fills immediately

	assert.True(t, d.Submit(Message{Channel: ChannelInApp}))

	done := make(chan bool, 1)
	go func() { done <- d.Submit(Message{Channel: ChannelInApp}) }()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
	assert.Equal(t, int64(1), d.Dropped())
}

func TestDispatcherSwallowsSenderErrors(t *testing.T) {
	failing := &recordingSender{err: errors.New("smtp down")}
	disabled := &recordingSender{err: ErrChannelDisabled}
	d := NewDispatcher(quietLogger(),
		WithSender(ChannelEmail, failing),
		WithSender(ChannelTelegram, disabled),
	)
	d.Start()
	d.Submit(Message{Channel: ChannelEmail, To: []string{"x@example.com"}})
	d.Submit(Message{Channel: ChannelTelegram, To: []string{"1"}})
	d.Submit(Message{Channel: ChannelInApp}) // no sender registered

	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, disabled.count())
}

func TestDispatcherStopHonoursContext(t *testing.T) {
	gate := make(chan struct{})
	slow := &recordingSender{gate: gate}
	d := NewDispatcher(quietLogger(), WithWorkers(1), WithSender(ChannelEmail, slow))
	d.Start()
	d.Submit(Message{Channel: ChannelEmail})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)
	close(gate)
}
