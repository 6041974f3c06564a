// Package events is a small in-process broadcast bus. Cart mutations are
// published on it so independent observers (a cart badge, a log, a test)
// can react without the cart code knowing about any of them.
package events

import (
	"sync"
)

// CartUpdated is broadcast after every successful cart mutation.
type CartUpdated struct {
	OwnerKey  string
	Total     float64
	ItemCount int
}

type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan CartUpdated
	next int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan CartUpdated)}
}

// Subscribe returns a channel of cart events and a cancel func. The
// channel is buffered; a slow subscriber drops events rather than
// blocking publishers.
func (b *Bus) Subscribe() (<-chan CartUpdated, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan CartUpdated, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if ch, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Bus) Publish(ev CartUpdated) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
