// Package notify delivers fire-and-forget notifications on a bounded work queue.
// Delivery is at-most-once: failures are logged and never retried.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
)

// Channel names a delivery route for a Message.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
	ChannelInApp    Channel = "in_app"
)

// ErrChannelDisabled is returned by senders that lack credentials.
var ErrChannelDisabled = errors.New("notification channel disabled")

// Button is one inline keyboard button of a Telegram message.
type Button struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// Message is one unit of work. To holds email addresses or Telegram chat IDs.
type Message struct {
	Channel      Channel
	To           []string
	Subject      string
	Body         string
	Buttons      [][]Button
	Notification *domain.Notification
}

// Sender delivers a message on one channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

const (
	defaultWorkers    = 2
	defaultQueueSize  = 256
	defaultJobTimeout = 30 * time.Second
)

// Dispatcher fans messages out to channel senders from a bounded queue.
// Submit never blocks; a full queue drops the message.
type Dispatcher struct {
	logger     *slog.Logger
	senders    map[Channel]Sender
	workers    int
	queueSize  int
	jobTimeout time.Duration

	queue   chan Message
	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
	started bool
	dropped atomic.Int64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers sets the number of delivery goroutines.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize sets how many messages may wait for a worker.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithJobTimeout bounds a single Send call.
func WithJobTimeout(t time.Duration) Option {
	return func(d *Dispatcher) {
		if t > 0 {
			d.jobTimeout = t
		}
	}
}

// WithSender registers the sender for a channel. Messages on channels without a sender are dropped.
func WithSender(ch Channel, s Sender) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.senders[ch] = s
		}
	}
}

// NewDispatcher creates a dispatcher. Call Start before Submit and Stop on shutdown.
func NewDispatcher(logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		logger:     logger,
		senders:    make(map[Channel]Sender),
		workers:    defaultWorkers,
		queueSize:  defaultQueueSize,
		jobTimeout: defaultJobTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.queue = make(chan Message, d.queueSize)
	return d
}

// Start launches the workers. Calling it twice is a no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
	d.logger.Info("Notification dispatcher started", slog.Int("workers", d.workers), slog.Int("queue_size", d.queueSize))
}

// Submit enqueues msg without blocking. It returns false when the queue is full
// or the dispatcher has stopped.
func (d *Dispatcher) Submit(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.dropped.Add(1)
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		d.dropped.Add(1)
		d.logger.Warn("Notification queue full, dropping message", slog.String("channel", string(msg.Channel)))
		return false
	}
}

// Dropped reports how many messages were rejected by Submit.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Stop closes the queue and waits for queued messages to drain or ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.logger.Info("Notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.logger.Warn("Notification dispatcher stop timed out", slog.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(id, msg)
	}
}

func (d *Dispatcher) deliver(worker int, msg Message) {
	logger := d.logger.With(slog.Int("worker", worker), slog.String("channel", string(msg.Channel)))
	sender, ok := d.senders[msg.Channel]
	if !ok {
		logger.Debug("No sender registered for channel, dropping message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Notification sender panicked", slog.Any("panic", r))
		}
	}()

	start := time.Now()
	err := sender.Send(ctx, msg)
	switch {
	case errors.Is(err, ErrChannelDisabled):
		logger.Debug("Notification channel disabled, skipping")
	case err != nil:
		logger.Error("Failed to deliver notification", slog.String("error", err.Error()), slog.Int("recipients", len(msg.To)))
	default:
		logger.Info("Notification delivered", slog.Int("recipients", len(msg.To)), slog.Duration("took", time.Since(start)))
	}
}
