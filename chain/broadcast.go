package chain

import (
	"sync"

	"github.com/Cherrypick14/polkadot-hot-potato/contract"
)

// Broadcaster fans contract events out to subscribers. Sends never block:
// a subscriber that stops draining its channel loses events rather than
// stalling transaction processing.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[chan contract.Event]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan contract.Event]struct{})}
}

// Subscribe registers a new subscriber with the given channel buffer and
// returns the channel plus a cancel func that must be called when done.
func (b *Broadcaster) Subscribe(buffer int) (<-chan contract.Event, func()) {
	ch := make(chan contract.Event, buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber whose buffer has room.
func (b *Broadcaster) Publish(ev contract.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount reports the number of live subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
