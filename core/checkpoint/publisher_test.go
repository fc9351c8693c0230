package checkpoint

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestChannelForwardsInOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []uint64

	ch := NewChannel[int]("test", 8, func(ctx context.Context, seq uint64, messages []int) {
		mu.Lock()
		seen = append(seen, seq)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	for _, seq := range []uint64{0, 1, 2, 3} {
		if err := ch.Enqueue(ctx, seq, []int{int(seq)}); err != nil {
			t.Fatalf("enqueue %d: %v", seq, err)
		}
	}
	ch.Close()
	<-ch.Done()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 4 {
		t.Fatalf("expected 4 forwarded batches, got %v", seen)
	}
	for i, s := range seen {
		if s != uint64(i) {
			t.Fatalf("expected strictly ascending order, got %v", seen)
		}
	}
}

func TestChannelBuffersOutOfOrderThenDrains(t *testing.T) {
	var mu sync.Mutex
	var seen []uint64

	ch := NewChannel[int]("test", 8, func(ctx context.Context, seq uint64, messages []int) {
		mu.Lock()
		seen = append(seen, seq)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	if err := ch.Enqueue(ctx, 2, []int{2}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ch.Enqueue(ctx, 0, []int{0}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ch.Enqueue(ctx, 1, []int{1}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	ch.Close()
	<-ch.Done()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 || seen[0] != 0 || seen[1] != 1 || seen[2] != 2 {
		t.Fatalf("expected [0 1 2] released in order, got %v", seen)
	}
}

func TestChannelDropsLateDuplicate(t *testing.T) {
	var mu sync.Mutex
	var seen []uint64

	ch := NewChannel[int]("test", 8, func(ctx context.Context, seq uint64, messages []int) {
		mu.Lock()
		seen = append(seen, seq)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	if err := ch.Enqueue(ctx, 0, []int{0}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := ch.Enqueue(ctx, 1, []int{1}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	// A duplicate/late batch for an already-released sequence must be dropped.
	if err := ch.Enqueue(ctx, 0, []int{99}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	ch.Close()
	<-ch.Done()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("expected the late duplicate to be dropped, got %v", seen)
	}
}

func TestChannelDiscardsPermanentGapOnClose(t *testing.T) {
	var mu sync.Mutex
	var seen []uint64

	ch := NewChannel[int]("test", 8, func(ctx context.Context, seq uint64, messages []int) {
		mu.Lock()
		seen = append(seen, seq)
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	if err := ch.Enqueue(ctx, 0, []int{0}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	// checkpoint 1 never arrives; 2 is buffered forever.
	if err := ch.Enqueue(ctx, 2, []int{2}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	ch.Close()
	<-ch.Done()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != 0 {
		t.Fatalf("expected only checkpoint 0 to be released, got %v", seen)
	}
}

func TestOrderedPublisherForwardsBothChannels(t *testing.T) {
	var mu sync.Mutex
	var updates []RoutedObjectChangeUpdate
	var notifications [][]Notification

	bus := &recordingBus{
		onUpdate: func(msg RoutedObjectChangeUpdate) {
			mu.Lock()
			updates = append(updates, msg)
			mu.Unlock()
		},
		onNotifications: func(batch []Notification) {
			mu.Lock()
			notifications = append(notifications, batch)
			mu.Unlock()
		},
	}

	pub := NewOrderedPublisher(bus, 8, false)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pub.Start(ctx)

	update := RoutedObjectChangeUpdate{Update: ObjectChangeUpdate{ObjectID: "0xabc"}}
	if err := pub.WS.Enqueue(ctx, 0, []RoutedObjectChangeUpdate{update}); err != nil {
		t.Fatalf("enqueue ws: %v", err)
	}
	if err := pub.Notifications.Enqueue(ctx, 0, []Notification{{Topic: "t", Payload: []byte("x")}}); err != nil {
		t.Fatalf("enqueue notifications: %v", err)
	}

	pub.Close()
	pub.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 1 || updates[0].Update.ObjectID != "0xabc" {
		t.Fatalf("expected 1 forwarded update, got %+v", updates)
	}
	if len(notifications) != 1 || len(notifications[0]) != 1 {
		t.Fatalf("expected 1 forwarded notification batch, got %+v", notifications)
	}
}

type recordingBus struct {
	onUpdate        func(RoutedObjectChangeUpdate)
	onNotifications func([]Notification)
}

func (b *recordingBus) PublishUpdate(ctx context.Context, msg RoutedObjectChangeUpdate) {
	b.onUpdate(msg)
}

func (b *recordingBus) PublishNotifications(ctx context.Context, batch []Notification) {
	b.onNotifications(batch)
}

func TestChannelEnqueueRespectsContextCancellation(t *testing.T) {
	ch := NewChannel[int]("test", 0, func(ctx context.Context, seq uint64, messages []int) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// capacity 0 and no consumer running: the send must block until ctx is
	// observed as done.
	err := ch.Enqueue(ctx, 0, []int{0})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestChannelRunStopsOnContextCancel(t *testing.T) {
	ch := NewChannel[int]("test", 1, func(ctx context.Context, seq uint64, messages []int) {})
	ctx, cancel := context.WithCancel(context.Background())
	go ch.Run(ctx)
	cancel()

	select {
	case <-ch.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected Run to return after context cancellation")
	}
}
