package app

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/bft-labs/enginewatch/internal/domain"
)

// DefaultSubscriberBuffer is the per-subscriber queue length.
const DefaultSubscriberBuffer = 16

// Broadcaster fans snapshots out to any number of subscribers.
//
// Publish never blocks. When a subscriber's queue is full the oldest queued
// snapshot is discarded to make room, so a slow subscriber always ends up
// holding the latest value; the discard is counted in Dropped. New
// subscribers receive nothing until the next publish.
type Broadcaster struct {
	mu        sync.RWMutex
	subs      map[string]*Subscription
	buffer    int
	closed    bool
	published atomic.Uint64
}

// NewBroadcaster creates a broadcaster with the given per-subscriber buffer.
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &Broadcaster{
		subs:   make(map[string]*Subscription),
		buffer: buffer,
	}
}

// Subscription is one consumer's view of the broadcast.
type Subscription struct {
	// ID identifies the subscription in logs.
	ID string

	// C receives published snapshots. It is closed by Close or when the
	// broadcaster shuts down.
	C <-chan domain.StatusSnapshot

	ch      chan domain.StatusSnapshot
	dropped atomic.Uint64
	b       *Broadcaster
}

// Dropped returns how many snapshots this subscriber missed. A change since
// the last look means the subscriber should reconcile with a snapshot read.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.b.unsubscribe(s.ID)
}

// Subscribe registers a new subscriber.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan domain.StatusSnapshot, b.buffer)
	sub := &Subscription{
		ID: uuid.NewString(),
		C:  ch,
		ch: ch,
		b:  b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	b.subs[sub.ID] = sub
	return sub
}

// Publish delivers a copy of snapshot to every subscriber.
func (b *Broadcaster) Publish(snapshot domain.StatusSnapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	b.published.Add(1)

	for _, sub := range b.subs {
		sub.offer(snapshot.Clone())
	}
}

func (s *Subscription) offer(snapshot domain.StatusSnapshot) {
	select {
	case s.ch <- snapshot:
		return
	default:
	}
	// Full: evict the oldest entry and retry once.
	select {
	case <-s.ch:
		s.dropped.Add(1)
	default:
	}
	select {
	case s.ch <- snapshot:
	default:
		s.dropped.Add(1)
	}
}

func (b *Broadcaster) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.ch)
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}

// Published returns the number of snapshots published so far.
func (b *Broadcaster) Published() uint64 {
	return b.published.Load()
}

// Subscribers returns the number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
