// Package notify carries the progress-changed signal between views. The
// signal has no payload: subscribers recompute their state from the stores,
// so a dropped tick costs nothing as long as a later one arrives.
package notify

import "sync"

// Broadcaster fans a payload-free signal out to subscribers.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan struct{})}
}

// Subscribe registers a listener. The returned function unsubscribes; it is
// safe to call more than once.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
	return ch, unsubscribe
}

// Publish signals every subscriber without blocking. A subscriber that has
// not drained its previous tick simply keeps the one already buffered.
func (b *Broadcaster) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len reports the current subscriber count.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
