package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/nawedy/automatiq/internal/audit"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()

	subscribed := make(chan struct{})
	done := make(chan struct{})
	defer close(done)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		hub.Subscribe(42, conn)
		defer hub.Unsubscribe(42, conn)
		close(subscribed)
		<-done
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+ts.URL[len("http"):], nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseNow()

	<-subscribed

	// Events for other audits must not reach this subscriber.
	hub.Broadcast(7, audit.ProgressEvent{AuditID: 7, Percent: 10})
	hub.Broadcast(42, audit.ProgressEvent{
		AuditID: 42,
		Status:  "running",
		Percent: 55,
		Module:  "security",
		Message: "Analyzing security...",
	})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev audit.ProgressEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.AuditID != 42 || ev.Percent != 55 || ev.Module != "security" {
		t.Fatalf("event = %+v", ev)
	}
}

// Broadcast must tolerate subscribers joining and leaving mid-send.
// Run with -race to exercise the map access.
func TestHubConcurrentSubscribe(t *testing.T) {
	hub := NewHub()

	ready := make(chan *websocket.Conn, 4)
	done := make(chan struct{})
	defer close(done)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		ready <- conn
		<-done
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	serverConns := make([]*websocket.Conn, 4)
	for i := range serverConns {
		conn, _, err := websocket.Dial(ctx, "ws"+ts.URL[len("http"):], nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.CloseNow()
		serverConns[i] = <-ready
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			hub.Broadcast(9, audit.ProgressEvent{AuditID: 9, Percent: i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			conn := serverConns[i%len(serverConns)]
			hub.Subscribe(9, conn)
			hub.Unsubscribe(9, conn)
		}
	}()
	wg.Wait()
}
