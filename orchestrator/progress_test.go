package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentinel-health/sentinel-core/schema"
)

func TestProgressHubDeliversInOrder(t *testing.T) {
	hub := NewProgressHub()
	ch := hub.Subscribe("case-1")

	hub.Publish("case-1", schema.StageEvent{Agent: "scribe", Status: schema.StatusRunning})
	hub.Publish("case-1", schema.StageEvent{Agent: "scribe", Status: schema.StatusComplete})

	first := <-ch
	second := <-ch

	assert.Equal(t, schema.StatusRunning, first.Status)
	assert.Equal(t, schema.StatusComplete, second.Status)
	assert.False(t, first.Timestamp.IsZero())
}

func TestProgressHubPublishWithoutSubscriberIsNoOp(t *testing.T) {
	hub := NewProgressHub()

	assert.NotPanics(t, func() {
		hub.Publish("nobody", schema.StageEvent{Agent: "scribe"})
	})
}

func TestProgressHubNoBackfill(t *testing.T) {
	hub := NewProgressHub()

	hub.Publish("case-1", schema.StageEvent{Agent: "early"})
	ch := hub.Subscribe("case-1")
	hub.Publish("case-1", schema.StageEvent{Agent: "late"})

	got := <-ch
	assert.Equal(t, "late", got.Agent)
	assert.Empty(t, ch)
}

func TestProgressHubIsolatesCases(t *testing.T) {
	hub := NewProgressHub()
	chA := hub.Subscribe("case-a")
	chB := hub.Subscribe("case-b")

	hub.Publish("case-a", schema.StageEvent{Agent: "scribe"})

	assert.Len(t, chA, 1)
	assert.Empty(t, chB)
}

func TestProgressHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewProgressHub()
	ch := hub.Subscribe("case-1")

	hub.Unsubscribe("case-1")

	_, open := <-ch
	assert.False(t, open)

	// publishing afterwards is a no-op
	assert.NotPanics(t, func() {
		hub.Publish("case-1", schema.StageEvent{Agent: "scribe"})
	})
}

func TestProgressHubUnsubscribeUnknownCase(t *testing.T) {
	hub := NewProgressHub()

	assert.NotPanics(t, func() { hub.Unsubscribe("never-subscribed") })
}

func TestProgressHubResubscribeReplacesChannel(t *testing.T) {
	hub := NewProgressHub()
	old := hub.Subscribe("case-1")
	fresh := hub.Subscribe("case-1")

	_, open := <-old
	assert.False(t, open)

	hub.Publish("case-1", schema.StageEvent{Agent: "scribe"})
	assert.Len(t, fresh, 1)
}

func TestProgressHubFullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewProgressHub()
	ch := hub.Subscribe("case-1")

	done := make(chan struct{})
	go func() {
		for i := 0; i < eventBuffer+10; i++ {
			hub.Publish("case-1", schema.StageEvent{Agent: "scribe"})
		}
		close(done)
	}()

	<-done // publisher never blocks
	assert.Len(t, ch, eventBuffer)
}
