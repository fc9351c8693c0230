package checkpoint

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Notification is the payload shape carried on the notifications channel of
// the downstream bus (spec.md §6). The wire format of Payload is a
// collaborator concern; the core never parses or serializes it.
type Notification struct {
	Topic   string
	Payload []byte
}

// Bus is the downstream bus contract (spec.md §6): two fire-and-forget
// operations. Failures are not reported back to the publisher — the bus
// owns its own retry, and the core assumes at-least-once delivery.
type Bus interface {
	PublishUpdate(ctx context.Context, msg RoutedObjectChangeUpdate)
	PublishNotifications(ctx context.Context, batch []Notification)
}

type batch[T any] struct {
	seq      uint64
	messages []T
}

// Channel is a single-producer-many-enqueuers / single-consumer reordering
// queue: it accepts per-checkpoint batches, possibly out of order, and
// forwards them to a sink strictly in ascending checkpoint-sequence order,
// buffering gaps until they fill (spec.md §4.7).
//
// The pending buffer and expected-index counter are owned exclusively by
// the consumer goroutine started from Run — no locking is needed there
// (spec.md §5); only the inbound channel itself is safe for concurrent
// senders, by virtue of being a Go channel.
type Channel[T any] struct {
	name    string
	inbound chan batch[T]
	forward func(ctx context.Context, seq uint64, messages []T)
	log     *logrus.Entry

	pending     map[uint64][]T
	expected    uint64
	hasExpected bool

	done chan struct{}
}

// NewChannel constructs a channel with the given bounded mailbox capacity.
// forward is invoked, in order, once per checkpoint sequence number that
// becomes eligible for release (either immediately on arrival or while
// draining the pending buffer after a gap fills).
func NewChannel[T any](name string, capacity int, forward func(ctx context.Context, seq uint64, messages []T)) *Channel[T] {
	return &Channel[T]{
		name:    name,
		inbound: make(chan batch[T], capacity),
		forward: forward,
		log:     logrus.WithField("component", "checkpoint.publisher."+name),
		pending: make(map[uint64][]T),
		done:    make(chan struct{}),
	}
}

// Enqueue hands a batch to the channel. It blocks when the inbound mailbox
// is full (the publisher's only flow control, per spec.md §4.7) unless ctx
// is cancelled first.
func (c *Channel[T]) Enqueue(ctx context.Context, seq uint64, messages []T) error {
	select {
	case c.inbound <- batch[T]{seq: seq, messages: messages}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the inbound mailbox. After the consumer drains whatever is
// already queued, Run returns.
func (c *Channel[T]) Close() { close(c.inbound) }

// Done returns a channel closed once Run has returned.
func (c *Channel[T]) Done() <-chan struct{} { return c.done }

// Run is the single consumer loop; call it from its own goroutine. It
// returns when ctx is cancelled or the inbound mailbox is closed and fully
// drained of its in-order prefix.
func (c *Channel[T]) Run(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case b, ok := <-c.inbound:
			if !ok {
				c.reportGapOnClose()
				return
			}
			c.handle(ctx, b)
		case <-ctx.Done():
			return
		}
	}
}

func (c *Channel[T]) handle(ctx context.Context, b batch[T]) {
	if !c.hasExpected {
		c.expected = b.seq
		c.hasExpected = true
	}

	if b.seq < c.expected {
		c.log.Debugf("dropping duplicate batch for checkpoint %d (expected %d)", b.seq, c.expected)
		return
	}

	if b.seq != c.expected {
		c.pending[b.seq] = append(c.pending[b.seq], b.messages...)
		return
	}

	c.release(ctx, b.seq, b.messages)
	c.expected++
	for {
		msgs, ok := c.pending[c.expected]
		if !ok {
			break
		}
		delete(c.pending, c.expected)
		c.release(ctx, c.expected, msgs)
		c.expected++
	}
}

func (c *Channel[T]) release(ctx context.Context, seq uint64, messages []T) {
	c.forward(ctx, seq, messages)
}

func (c *Channel[T]) reportGapOnClose() {
	if len(c.pending) == 0 {
		return
	}
	discarded := 0
	for _, msgs := range c.pending {
		discarded += len(msgs)
	}
	c.log.Warnf("inbound mailbox closed with a permanent gap at checkpoint %d: discarding %d buffered messages across %d checkpoints",
		c.expected, discarded, len(c.pending))
	c.pending = make(map[uint64][]T)
}

// OrderedPublisher owns the two parallel reordering channels described in
// spec.md §4.7: one for websocket-style object-change updates, one for
// notifications. PreserveIntraCheckpointOrder documents (spec.md §9 Open
// Question) that this publisher never reorders a batch's own message
// slice — callers that need a specific intra-checkpoint order must produce
// it themselves before calling Enqueue.
type OrderedPublisher struct {
	PreserveIntraCheckpointOrder bool

	WS            *Channel[RoutedObjectChangeUpdate]
	Notifications *Channel[Notification]

	log *logrus.Entry
}

// NewOrderedPublisher constructs a publisher forwarding to bus, with both
// channels sized to mailboxCapacity.
func NewOrderedPublisher(bus Bus, mailboxCapacity int, preserveIntraCheckpointOrder bool) *OrderedPublisher {
	log := logrus.WithField("component", "checkpoint.publisher")

	ws := NewChannel[RoutedObjectChangeUpdate]("ws", mailboxCapacity, func(ctx context.Context, seq uint64, messages []RoutedObjectChangeUpdate) {
		batchID := uuid.NewString()
		log.WithFields(logrus.Fields{"checkpoint": seq, "batch_id": batchID, "count": len(messages)}).Debug("forwarding ws updates")
		for _, m := range messages {
			bus.PublishUpdate(ctx, m)
		}
	})

	notifications := NewChannel[Notification]("notifications", mailboxCapacity, func(ctx context.Context, seq uint64, messages []Notification) {
		batchID := uuid.NewString()
		log.WithFields(logrus.Fields{"checkpoint": seq, "batch_id": batchID, "count": len(messages)}).Debug("forwarding notifications")
		bus.PublishNotifications(ctx, messages)
	})

	return &OrderedPublisher{
		PreserveIntraCheckpointOrder: preserveIntraCheckpointOrder,
		WS:                           ws,
		Notifications:                notifications,
		log:                          log,
	}
}

// Start launches both channels' consumer loops in their own goroutines and
// returns immediately.
func (p *OrderedPublisher) Start(ctx context.Context) {
	go p.WS.Run(ctx)
	go p.Notifications.Run(ctx)
}

// Close closes both inbound mailboxes.
func (p *OrderedPublisher) Close() {
	p.WS.Close()
	p.Notifications.Close()
}

// Wait blocks until both channels' consumer loops have returned.
func (p *OrderedPublisher) Wait() {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); <-p.WS.Done() }()
	go func() { defer wg.Done(); <-p.Notifications.Done() }()
	wg.Wait()
}
