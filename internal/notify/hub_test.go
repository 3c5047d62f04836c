package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recv waits for one event so tests never hang.
func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return ev
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}

func TestHub_PublishToPlayer(t *testing.T) {
	h := NewHub(4)
	a, cancelA := h.Subscribe("alice")
	defer cancelA()
	b, cancelB := h.Subscribe("bob")
	defer cancelB()

	h.Publish("bob", Event{Kind: KindSecretSet, DuelID: "d1", From: "alice"})

	ev := recv(t, b)
	assert.Equal(t, KindSecretSet, ev.Kind)
	assert.Equal(t, "d1", ev.DuelID)
	assert.False(t, ev.At.IsZero())

	select {
	case ev := <-a:
		t.Fatalf("alice got an event meant for bob: %+v", ev)
	default:
	}
}

func TestHub_FanOutToAllConnections(t *testing.T) {
	h := NewHub(4)
	c1, cancel1 := h.Subscribe("bob")
	defer cancel1()
	c2, cancel2 := h.Subscribe("bob")
	defer cancel2()
	assert.Equal(t, 2, h.Subscribers("bob"))

	h.Publish("bob", Event{Kind: KindGuess})
	assert.Equal(t, KindGuess, recv(t, c1).Kind)
	assert.Equal(t, KindGuess, recv(t, c2).Kind)
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	h := NewHub(1)
	ch, cancel := h.Subscribe("bob")
	defer cancel()

	h.Publish("bob", Event{Kind: KindGuess})
	h.Publish("bob", Event{Kind: KindGuess}) // buffer full → dropped

	assert.Equal(t, 0, h.Subscribers("bob"))
	_, ok := <-ch
	assert.True(t, ok, "buffered event still delivered")
	_, ok = <-ch
	assert.False(t, ok, "channel closed after drop")
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	h := NewHub(0)
	ch, cancel := h.Subscribe("bob")
	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, h.Subscribers("bob"))

	// publishing with nobody listening is a no-op
	h.Publish("bob", Event{Kind: KindDuelReset})
}
