package realtime

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Conn is the minimal connection surface the hub needs. *websocket.Conn
// satisfies it; tests substitute fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub is the in-process realtime registry. It tracks per-form dashboard
// subscribers and a single Q&A connection per attendee email. All maps are
// guarded by one mutex; broadcasts snapshot the subscriber set under the
// lock and write outside it, so a slow client never blocks registration.
//
// State is process-local: horizontal scaling needs an external pub/sub
// bridge, which is out of scope here.
type Hub struct {
	mu    sync.Mutex
	forms map[int64]map[Conn]struct{}
	users map[string]Conn
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		forms: make(map[int64]map[Conn]struct{}),
		users: make(map[string]Conn),
	}
}

// SubscribeForm registers a dashboard connection for a form's live feed.
func (h *Hub) SubscribeForm(formID int64, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.forms[formID]
	if !ok {
		set = make(map[Conn]struct{})
		h.forms[formID] = set
	}
	set[c] = struct{}{}
}

// UnsubscribeForm removes a dashboard connection. Safe to call for
// connections that were already dropped by a failed broadcast.
func (h *Hub) UnsubscribeForm(formID int64, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.forms[formID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.forms, formID)
		}
	}
}

// BroadcastToForm sends v to every subscriber of a form. Connections whose
// write fails are closed and dropped; the event is not retried for them.
func (h *Hub) BroadcastToForm(formID int64, v interface{}) {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.forms[formID]))
	for c := range h.forms[formID] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	var dead []Conn
	for _, c := range conns {
		if err := c.WriteJSON(v); err != nil {
			log.Debug().Int64("form_id", formID).Err(err).Msg("dropping dead form subscriber")
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		c.Close()
		h.UnsubscribeForm(formID, c)
	}
}

// SubscriberCount reports the number of live subscribers for a form.
func (h *Hub) SubscriberCount(formID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.forms[formID])
}

// RegisterUser binds an attendee email to a Q&A connection. A reconnect
// replaces the previous connection, which is closed.
func (h *Hub) RegisterUser(email string, c Conn) {
	h.mu.Lock()
	old, existed := h.users[email]
	h.users[email] = c
	h.mu.Unlock()

	if existed && old != c {
		old.Close()
	}
}

// UnregisterUser removes the attendee's connection, but only if it is
// still the one being unregistered — a stale disconnect must not evict a
// fresh reconnect.
func (h *Hub) UnregisterUser(email string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.users[email]; ok && cur == c {
		delete(h.users, email)
	}
}

// SendToUser delivers v to the attendee's Q&A connection, if any. A failed
// write closes and removes the connection. No-op when the user is offline.
func (h *Hub) SendToUser(email string, v interface{}) {
	h.mu.Lock()
	c, ok := h.users[email]
	h.mu.Unlock()
	if !ok {
		return
	}

	if err := c.WriteJSON(v); err != nil {
		log.Debug().Str("user_email", email).Err(err).Msg("dropping dead qa connection")
		c.Close()
		h.UnregisterUser(email, c)
	}
}
