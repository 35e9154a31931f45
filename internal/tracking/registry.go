// Package tracking fans live trip locations out to stream subscribers.
package tracking

import (
	"sync"

	"github.com/bluestar-trading/erp_backend/internal/core/domain"
	"github.com/google/uuid"
)

const DefaultBufferSize = 16

// Subscription receives updates for one trip until it is unsubscribed.
type Subscription struct {
	ID     string
	TripID string
	ch     chan domain.TripLocation
	once   sync.Once
}

// Updates is closed when the subscription ends.
func (s *Subscription) Updates() <-chan domain.TripLocation {
	return s.ch
}

// Registry is safe for concurrent use. Publishers never block: a subscriber whose
// buffer is full loses its oldest pending update.
type Registry struct {
	mu         sync.RWMutex
	subs       map[string]map[string]*Subscription
	bufferSize int
}

func NewRegistry(bufferSize int) *Registry {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Registry{
		subs:       make(map[string]map[string]*Subscription),
		bufferSize: bufferSize,
	}
}

func (r *Registry) Subscribe(tripID string) *Subscription {
	sub := &Subscription{
		ID:     uuid.NewString(),
		TripID: tripID,
		ch:     make(chan domain.TripLocation, r.bufferSize),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs[tripID] == nil {
		r.subs[tripID] = make(map[string]*Subscription)
	}
	r.subs[tripID][sub.ID] = sub
	return sub
}

// Unsubscribe removes the subscription and closes its channel. It is idempotent.
func (r *Registry) Unsubscribe(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.subs[sub.TripID]; ok {
		delete(set, sub.ID)
		if len(set) == 0 {
			delete(r.subs, sub.TripID)
		}
	}
	sub.once.Do(func() { close(sub.ch) })
}

// Publish returns the number of subscribers the update was handed to.
func (r *Registry) Publish(tripID string, loc domain.TripLocation) int {
	// Write lock: draining an old update and closing in Unsubscribe must not interleave.
	r.mu.Lock()
	defer r.mu.Unlock()
	delivered := 0
	for _, sub := range r.subs[tripID] {
		for {
			select {
			case sub.ch <- loc:
				delivered++
			default:
				select {
				case <-sub.ch:
				default:
				}
				continue
			}
			break
		}
	}
	return delivered
}

// Subscribers reports the live subscriber count for a trip.
func (r *Registry) Subscribers(tripID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[tripID])
}
