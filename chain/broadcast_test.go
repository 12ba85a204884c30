package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cherrypick14/polkadot-hot-potato/contract"
)

func TestBroadcaster_Delivery(t *testing.T) {
	b := NewBroadcaster()
	ch1, cancel1 := b.Subscribe(4)
	ch2, cancel2 := b.Subscribe(4)
	defer cancel1()
	defer cancel2()

	ev := contract.Event{Type: "gameStarted", Attributes: map[string]string{"holder": "bob"}}
	b.Publish(ev)

	assert.Equal(t, ev, <-ch1)
	assert.Equal(t, ev, <-ch2)
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe(1)
	require.Equal(t, 1, b.SubscriberCount())

	cancel()
	assert.Equal(t, 0, b.SubscriberCount())
	_, open := <-ch
	assert.False(t, open, "cancel must close the channel")

	// cancelling twice is safe
	cancel()
}

func TestBroadcaster_SlowSubscriberDropsEvents(t *testing.T) {
	b := NewBroadcaster()
	slow, cancelSlow := b.Subscribe(1)
	fast, cancelFast := b.Subscribe(8)
	defer cancelSlow()
	defer cancelFast()

	for i := 0; i < 3; i++ {
		b.Publish(contract.Event{Type: "potatoPassed"})
	}

	// the slow subscriber keeps only what its buffer held
	assert.Len(t, slow, 1)
	// without stalling delivery to the others
	assert.Len(t, fast, 3)
}
