package realtime

import (
	"errors"
	"sync"
	"testing"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []interface{}
	failWith error
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.messages = append(c.messages, v)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func TestBroadcastToForm(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	other := &fakeConn{}

	h.SubscribeForm(1, a)
	h.SubscribeForm(1, b)
	h.SubscribeForm(2, other)

	h.BroadcastToForm(1, "hello")

	if a.received() != 1 || b.received() != 1 {
		t.Errorf("expected both form-1 subscribers to receive, got %d and %d", a.received(), b.received())
	}
	if other.received() != 0 {
		t.Errorf("form-2 subscriber received %d messages", other.received())
	}
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	h := NewHub()
	live := &fakeConn{}
	dead := &fakeConn{failWith: errors.New("broken pipe")}

	h.SubscribeForm(1, live)
	h.SubscribeForm(1, dead)

	h.BroadcastToForm(1, "first")
	if !dead.closed {
		t.Error("expected failing connection to be closed")
	}
	if got := h.SubscriberCount(1); got != 1 {
		t.Errorf("SubscriberCount = %d, want 1", got)
	}

	h.BroadcastToForm(1, "second")
	if live.received() != 2 {
		t.Errorf("live connection received %d messages, want 2", live.received())
	}
}

func TestUnsubscribeForm(t *testing.T) {
	h := NewHub()
	c := &fakeConn{}
	h.SubscribeForm(5, c)
	h.UnsubscribeForm(5, c)

	h.BroadcastToForm(5, "x")
	if c.received() != 0 {
		t.Error("unsubscribed connection still received a message")
	}
	// Unsubscribing twice is harmless.
	h.UnsubscribeForm(5, c)
}

func TestRegisterUserReplacesConnection(t *testing.T) {
	h := NewHub()
	first, second := &fakeConn{}, &fakeConn{}

	h.RegisterUser("a@example.com", first)
	h.RegisterUser("a@example.com", second)

	if !first.closed {
		t.Error("expected replaced connection to be closed")
	}

	h.SendToUser("a@example.com", "ping")
	if first.received() != 0 {
		t.Error("replaced connection received a message")
	}
	if second.received() != 1 {
		t.Errorf("current connection received %d messages, want 1", second.received())
	}
}

func TestUnregisterUserIgnoresStaleConnection(t *testing.T) {
	h := NewHub()
	stale, fresh := &fakeConn{}, &fakeConn{}

	h.RegisterUser("a@example.com", stale)
	h.RegisterUser("a@example.com", fresh)

	// The stale connection's read loop exits and unregisters after the
	// reconnect landed. The fresh binding must survive.
	h.UnregisterUser("a@example.com", stale)

	h.SendToUser("a@example.com", "ping")
	if fresh.received() != 1 {
		t.Errorf("fresh connection received %d messages, want 1", fresh.received())
	}
}

func TestSendToUserOfflineIsNoop(t *testing.T) {
	h := NewHub()
	h.SendToUser("nobody@example.com", "ping")
}

func TestSendToUserDropsDeadConnection(t *testing.T) {
	h := NewHub()
	dead := &fakeConn{failWith: errors.New("broken pipe")}
	h.RegisterUser("a@example.com", dead)

	h.SendToUser("a@example.com", "ping")
	if !dead.closed {
		t.Error("expected dead connection to be closed")
	}

	// Registry slot is free again.
	fresh := &fakeConn{}
	h.RegisterUser("a@example.com", fresh)
	h.SendToUser("a@example.com", "ping")
	if fresh.received() != 1 {
		t.Errorf("fresh connection received %d messages, want 1", fresh.received())
	}
}

func TestConcurrentSubscribeBroadcast(t *testing.T) {
	h := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.SubscribeForm(1, &fakeConn{})
		}()
		go func() {
			defer wg.Done()
			h.BroadcastToForm(1, "x")
		}()
	}
	wg.Wait()
}
