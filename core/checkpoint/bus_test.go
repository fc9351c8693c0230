package checkpoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/libp2p/go-libp2p"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/peer"
)

func TestWSBusDeliversToScopedSubscriber(t *testing.T) {
	bus := NewWSBus(nil)
	srv := httptest.NewServer(bus)
	defer srv.Close()

	var route Address
	route[0] = 0x11
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?address=" + route.String()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// give ServeHTTP's goroutines a moment to register the subscriber
	time.Sleep(50 * time.Millisecond)

	bus.PublishUpdate(context.Background(), RoutedObjectChangeUpdate{
		RouteAddress: &route,
		Update:       ObjectChangeUpdate{ObjectID: "0xdead"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(payload), "0xdead") {
		t.Fatalf("expected payload to contain the object id, got %q", payload)
	}
}

func TestWSBusBroadcastReachesUnscopedSubscriber(t *testing.T) {
	bus := NewWSBus(nil)
	srv := httptest.NewServer(bus)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	time.Sleep(50 * time.Millisecond)

	var route Address
	route[0] = 0x22
	bus.PublishUpdate(context.Background(), RoutedObjectChangeUpdate{
		RouteAddress: &route,
		Update:       ObjectChangeUpdate{ObjectID: "0xbeef"},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(payload), "0xbeef") {
		t.Fatalf("expected the unscoped subscriber to receive a routed update, got %q", payload)
	}
}

func TestWSBusServeHTTPRejectsNonWebsocket(t *testing.T) {
	bus := NewWSBus(nil)
	srv := httptest.NewServer(bus)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Fatalf("expected upgrade failure for a plain GET, got %d", resp.StatusCode)
	}
}

func TestNotificationBusPublishesToSubscribedTopic(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hostA, err := libp2p.New()
	if err != nil {
		t.Fatalf("host a: %v", err)
	}
	defer hostA.Close()
	hostB, err := libp2p.New()
	if err != nil {
		t.Fatalf("host b: %v", err)
	}
	defer hostB.Close()

	if err := hostA.Connect(ctx, peer.AddrInfo{ID: hostB.ID(), Addrs: hostB.Addrs()}); err != nil {
		t.Fatalf("connect: %v", err)
	}

	psA, err := pubsub.NewGossipSub(ctx, hostA)
	if err != nil {
		t.Fatalf("pubsub a: %v", err)
	}
	psB, err := pubsub.NewGossipSub(ctx, hostB)
	if err != nil {
		t.Fatalf("pubsub b: %v", err)
	}

	const topicName = "checkpoint-indexer-test"
	topicB, err := psB.Join(topicName)
	if err != nil {
		t.Fatalf("join b: %v", err)
	}
	sub, err := topicB.Subscribe()
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// give gossipsub meshes time to form before publishing.
	time.Sleep(1 * time.Second)

	bus := NewNotificationBus(ctx, psA)
	bus.PublishNotifications(ctx, []Notification{{Topic: topicName, Payload: []byte("hello")}})

	msg, err := sub.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if string(msg.Data) != "hello" {
		t.Fatalf("expected payload %q, got %q", "hello", msg.Data)
	}
}
