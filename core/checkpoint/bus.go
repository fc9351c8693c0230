package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/sirupsen/logrus"
)

// WSBus is a reference Bus.PublishUpdate implementation: an in-process fan-out
// hub of websocket connections, one per subscriber, grouped by route address.
// It mirrors the subscriber-registry shape of core.Node's topic/sub maps
// (core/network.go) but keyed by *Address instead of topic string, and with
// net/http + gorilla/websocket standing in for the libp2p transport since
// downstream consumers here are external websocket clients, not peers.
type WSBus struct {
	upgrader websocket.Upgrader

	mu   sync.RWMutex
	subs map[string][]*wsConn // keyed by Address.String(); "" means "broadcast to everyone"

	log *logrus.Entry
}

type wsConn struct {
	conn *websocket.Conn
	send chan []byte
}

// NewWSBus constructs an empty hub. checkOrigin, when nil, allows all
// origins — callers exposing this publicly should supply a stricter check.
func NewWSBus(checkOrigin func(r *http.Request) bool) *WSBus {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WSBus{
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		subs:     make(map[string][]*wsConn),
		log:      logrus.WithField("component", "checkpoint.bus.ws"),
	}
}

// ServeHTTP upgrades the request to a websocket connection and registers it
// as a subscriber. An optional "address" query parameter scopes the
// connection to updates routed to that address; omitted, it receives every
// update regardless of routing.
func (b *WSBus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warnf("upgrade failed: %v", err)
		return
	}
	key := r.URL.Query().Get("address")

	c := &wsConn{conn: conn, send: make(chan []byte, 64)}
	b.mu.Lock()
	b.subs[key] = append(b.subs[key], c)
	b.mu.Unlock()

	go b.writePump(key, c)
	go b.readPump(key, c)
}

func (b *WSBus) writePump(key string, c *wsConn) {
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.log.Debugf("write to subscriber of %q failed, dropping: %v", key, err)
			b.remove(key, c)
			c.conn.Close()
			return
		}
	}
}

// readPump exists only to notice client-initiated close; this bus never
// expects inbound traffic from subscribers.
func (b *WSBus) readPump(key string, c *wsConn) {
	defer func() {
		b.remove(key, c)
		close(c.send)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *WSBus) remove(key string, target *wsConn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	conns := b.subs[key]
	for i, c := range conns {
		if c == target {
			b.subs[key] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
}

// PublishUpdate implements Bus. It fans the update out to subscribers keyed
// by msg.RouteAddress (if set) and to the unscoped broadcast subscribers.
// Delivery is best-effort: a subscriber whose send buffer is full is skipped
// rather than blocking the publisher, per spec.md §6's fire-and-forget
// contract.
func (b *WSBus) PublishUpdate(ctx context.Context, msg RoutedObjectChangeUpdate) {
	payload, err := json.Marshal(msg.Update)
	if err != nil {
		b.log.Errorf("marshal object change update: %v", err)
		return
	}

	keys := []string{""}
	if msg.RouteAddress != nil {
		keys = append(keys, msg.RouteAddress.String())
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, key := range keys {
		for _, c := range b.subs[key] {
			select {
			case c.send <- payload:
			default:
				b.log.Debugf("subscriber of %q has a full send buffer, dropping update for object %s", key, msg.Update.ObjectID)
			}
		}
	}
}

// NotificationBus is a reference Bus.PublishNotifications implementation
// built directly on libp2p-pubsub, mirroring core.Node's lazy-Join-then-
// Publish Broadcast method and lazy-Subscribe Subscribe method
// (core/network.go) without pulling in the rest of Node's host/NAT/mDNS
// bootstrap machinery, which has no bearing on notification delivery.
type NotificationBus struct {
	ps  *pubsub.PubSub
	ctx context.Context

	mu     sync.Mutex
	topics map[string]*pubsub.Topic

	log *logrus.Entry
}

// NewNotificationBus wraps an already-constructed pubsub instance (the
// caller owns host/NAT/discovery setup, exactly as core.NewNode does before
// handing the pubsub to a Node).
func NewNotificationBus(ctx context.Context, ps *pubsub.PubSub) *NotificationBus {
	return &NotificationBus{
		ps:     ps,
		ctx:    ctx,
		topics: make(map[string]*pubsub.Topic),
		log:    logrus.WithField("component", "checkpoint.bus.notifications"),
	}
}

func (b *NotificationBus) topic(name string) (*pubsub.Topic, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.topics[name]; ok {
		return t, nil
	}
	t, err := b.ps.Join(name)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: join notification topic %s: %w", name, err)
	}
	b.topics[name] = t
	return t, nil
}

// PublishNotifications implements Bus: each notification in the batch is
// published to its own Notification.Topic, in slice order. A publish
// failure is logged and skipped rather than aborting the rest of the batch —
// Bus implementations own their own delivery guarantees (spec.md §6).
func (b *NotificationBus) PublishNotifications(ctx context.Context, batch []Notification) {
	for _, n := range batch {
		t, err := b.topic(n.Topic)
		if err != nil {
			b.log.Warnf("%v", err)
			continue
		}
		if err := t.Publish(ctx, n.Payload); err != nil {
			b.log.Warnf("publish notification topic %s: %v", n.Topic, err)
		}
	}
}
