package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/notes/internal/model"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	require.Equal(t, 0, b.SubscriberCount())

	ch := b.Subscribe()
	require.Equal(t, 1, b.SubscriberCount())

	b.Unsubscribe(ch)
	assert.Equal(t, 0, b.SubscriberCount())

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after unsubscribe")
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(model.State{Notes: []model.Note{{ID: "1", Name: "a"}}, Loading: false})

	select {
	case st := <-ch:
		require.Len(t, st.Notes, 1)
		assert.Equal(t, "1", st.Notes[0].ID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for snapshot")
	}
}

func TestPublishClonesPerSubscriber(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish(model.State{Notes: []model.Note{{ID: "1"}}})

	first := <-a
	first.Notes[0].ID = "changed"
	second := <-c
	assert.Equal(t, "1", second.Notes[0].ID)
}

func TestPublishEvictsOldestOnFullBuffer(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	const total = subscriberBuffer + 10
	for i := 1; i <= total; i++ {
		b.Publish(model.State{Notes: make([]model.Note, i), Version: uint64(i)})
	}

	var last model.State
	require.Eventually(t, func() bool {
		for {
			select {
			case st := <-ch:
				last = st
			default:
				return last.Version == total
			}
		}
	}, time.Second, 10*time.Millisecond, "subscriber should end on the newest snapshot")
	assert.Len(t, last.Notes, total)
	assert.Equal(t, 1, b.SubscriberCount())
}

func TestSlowSubscriberKeepsOrder(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	const total = subscriberBuffer * 3
	for i := 1; i <= total; i++ {
		b.Publish(model.State{Version: uint64(i)})
	}

	var prev uint64
	for prev < total {
		select {
		case st := <-ch:
			require.Greater(t, st.Version, prev)
			prev = st.Version
		case <-time.After(time.Second):
			t.Fatalf("stuck at version %d", prev)
		}
	}
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	require.Equal(t, 1, b.SubscriberCount())

	b.Close()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "expected subscriber channel to be closed")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	assert.Equal(t, 0, b.SubscriberCount())
	b.Publish(model.State{})
	b.Unsubscribe(ch)
	b.Close()

	late := b.Subscribe()
	_, ok := <-late
	assert.False(t, ok)
}
