// internal/notify/hub.go
//
// Per-player event fan-out used to tell the other participant of a duel what
// just happened (duel started, secret chosen, guess made, duel over).
//
// Characteristics:
//   - A player may hold several subscriptions (several tabs/connections).
//   - Publish never blocks: a subscriber whose buffer is full is dropped and
//     its channel closed, so it can reconnect and re-sync.
//   - Events for players with no subscriber are discarded.

package notify

import (
	"sync"
	"time"
)

// Kind names an event type.
type Kind string

const (
	KindDuelStarted Kind = "duel_started"
	KindSecretSet   Kind = "secret_set"
	KindGuess       Kind = "guess"
	KindDuelWon     Kind = "duel_won"
	KindDuelLost    Kind = "duel_lost"
	KindDuelReset   Kind = "duel_reset"
)

// Event is delivered to a single player.
type Event struct {
	Kind    Kind      `json:"type"`
	DuelID  string    `json:"duelId"`
	From    string    `json:"from"`
	Text    string    `json:"text"`
	Payload any       `json:"payload,omitempty"`
	At      time.Time `json:"at"`
}

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Hub routes events to subscribed players.
type Hub struct {
	mu     sync.Mutex // guards subs and next
	subs   map[string]map[int]chan Event
	next   int
	buffer int
}

// NewHub constructs a Hub whose subscriber channels hold buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{subs: make(map[string]map[int]chan Event), buffer: buffer}
}

// Subscribe registers a new listener for player. The returned cancel func
// unregisters it and closes the channel; calling it twice is safe.
func (h *Hub) Subscribe(player string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	ch := make(chan Event, h.buffer)
	if h.subs[player] == nil {
		h.subs[player] = make(map[int]chan Event)
	}
	h.subs[player][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.dropLocked(player, id)
		})
	}
}

// Publish delivers ev to every listener of player.
func (h *Hub) Publish(player string, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs[player] {
		select {
		case ch <- ev:
		default:
			// Slow listener; drop it.
			h.dropLocked(player, id)
		}
	}
}

// Subscribers reports how many listeners player has.
func (h *Hub) Subscribers(player string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[player])
}

func (h *Hub) dropLocked(player string, id int) {
	set := h.subs[player]
	ch, ok := set[id]
	if !ok {
		return
	}
	close(ch)
	delete(set, id)
	if len(set) == 0 {
		delete(h.subs, player)
	}
}
