package duplicates

// Phase labels the duplicate detector's pipeline stage (spec.md §4.5).
type Phase string

const (
	PhaseScanning      Phase = "Scanning files..."
	PhasePartialHashes Phase = "Computing partial hashes..."
	PhaseFullHashes    Phase = "Computing full hashes..."
	PhaseComplete      Phase = "Complete"
)

// Event is a phase-labeled progress update with current-file and
// processed-count fields.
type Event struct {
	Phase       Phase
	CurrentPath string
	Current     int64
	Total       int64
}

// DefaultCapacity is the bounded queue depth for a detector's own event
// stream, independent of the scan progress channel (spec.md §4.2, §4.5).
const DefaultCapacity = 1000

// Channel is the duplicate detector's bounded, best-effort, single
// producer/consumer event stream. It mirrors progress.Channel's
// semantics but carries Event instead of a scan progress event, since
// spec.md keeps the two pipelines on independent queues.
type Channel struct {
	ch chan Event
}

// NewChannel allocates a Channel with the given capacity, falling back
// to DefaultCapacity when capacity <= 0.
func NewChannel(capacity int) *Channel {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel{ch: make(chan Event, capacity)}
}

// Send enqueues ev, returning false if the queue was full and the event
// was dropped rather than blocking the producer.
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

// Close signals no further events will be sent.
func (c *Channel) Close() {
	close(c.ch)
}
