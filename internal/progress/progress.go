// Package progress defines the scan progress event contract: a tagged
// event type and a bounded, best-effort channel that a scanner uses to
// report to a UI without ever blocking on a slow or absent consumer.
package progress

import (
	"sync"
	"time"

	"github.com/diskx/diskx/internal/tree"
)

// Kind distinguishes the variant of an Event.
type Kind int

const (
	Started Kind = iota
	Scanning
	NodeDiscovered
	Building
	Completed
	Error
)

func (k Kind) String() string {
	switch k {
	case Started:
		return "Started"
	case Scanning:
		return "Scanning"
	case NodeDiscovered:
		return "NodeDiscovered"
	case Building:
		return "Building"
	case Completed:
		return "Completed"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is a single tagged progress update. Only the fields relevant to
// Kind are populated; the zero value of the rest is meaningless.
type Event struct {
	Kind Kind

	// Scanning
	Path           string
	FilesFound     int64
	EstimatedTotal int64
	BytesProcessed int64

	// NodeDiscovered
	Node       tree.FileNode
	ParentPath string

	// Building
	TotalItems int64

	// Completed
	TotalFiles int64
	TotalSize  int64
	Tree       *tree.Tree

	// Error
	Err error
}

// DefaultCapacity is the recommended bounded-queue depth (spec.md §4.2).
const DefaultCapacity = 1000

// Channel is a typed, bounded, single-producer/single-consumer event
// stream. Send never blocks: on a full queue the event is dropped.
type Channel struct {
	ch chan Event
}

// NewChannel allocates a Channel with the given capacity. A capacity of
// 0 or less falls back to DefaultCapacity.
func NewChannel(capacity int) *Channel {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel{ch: make(chan Event, capacity)}
}

// Send attempts to enqueue ev, returning false if the queue was full and
// the event was dropped. The producer must never block on this call.
func (c *Channel) Send(ev Event) bool {
	select {
	case c.ch <- ev:
		return true
	default:
		return false
	}
}

// Events exposes the receive side for a consumer to range over.
func (c *Channel) Events() <-chan Event {
	return c.ch
}

// Close signals no further events will be sent. The producer, not the
// consumer, owns the channel and must be the one to call this.
func (c *Channel) Close() {
	close(c.ch)
}

// Throttler implements the "at least every N entries and at least every
// D duration, whichever is more frequent" emission policy used for
// Scanning events (spec.md §4.3) and the remote scanner's line-count
// throttle (§4.4). It is safe for concurrent use by multiple producer
// goroutines during the parallel-stat stage.
type Throttler struct {
	every    int64
	interval time.Duration

	mu       sync.Mutex
	count    int64
	lastSent time.Time
}

// NewThrottler returns a Throttler that allows an emission at least every
// `every` calls to Tick, or at least every `interval`, whichever comes
// first.
func NewThrottler(every int64, interval time.Duration) *Throttler {
	return &Throttler{every: every, interval: interval}
}

// Tick records one unit of progress and reports whether this call should
// trigger an emission. The very first call always fires.
func (t *Throttler) Tick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	now := time.Now()
	if t.lastSent.IsZero() || t.count%t.every == 0 || now.Sub(t.lastSent) >= t.interval {
		t.lastSent = now
		return true
	}
	return false
}

// Count returns the number of Tick calls observed so far.
func (t *Throttler) Count() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// NodeStride implements the NodeDiscovered throttle: the first 100 calls
// to Allow are always emitted (the local scanner counts the root as the
// first); after that, only every 50th.
type NodeStride struct {
	mu    sync.Mutex
	count int64
}

// Allow records one more discovered node and reports whether it should
// be emitted under the spec.md §4.3 stride rule.
func (s *NodeStride) Allow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.count
	s.count++
	if n < 100 {
		return true
	}
	return n%50 == 0
}
