// Package watch provides a replay-latest broadcast value: subscribers
// receive the current value immediately and every value published after
// that, mirroring the subscribe-now-replay-latest semantics UI stores
// rely on.
package watch

import "sync"

// Value holds a single shared value and fans every Set out to all live
// subscribers. The stored value is treated as immutable-per-publish;
// owners must replace it wholesale rather than mutate it in place.
type Value[T any] struct {
	mu   sync.Mutex
	cur  T
	subs map[int]chan T
	next int
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		cur:  initial,
		subs: make(map[int]chan T),
	}
}

// Get returns the latest published value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set publishes a new value to every subscriber. Slow subscribers have
// their oldest pending value dropped so the latest one always lands.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.cur = val
	for _, ch := range v.subs {
		deliver(ch, val)
	}
}

// Subscribe registers a new subscriber. The returned channel carries the
// current value right away, then every subsequent publish. The cancel
// function unregisters the subscriber and closes its channel.
func (v *Value[T]) Subscribe() (<-chan T, func()) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.next
	v.next++
	ch := make(chan T, 16)
	ch <- v.cur
	v.subs[id] = ch

	cancel := func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if sub, ok := v.subs[id]; ok {
			delete(v.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func deliver[T any](ch chan T, val T) {
	select {
	case ch <- val:
		return
	default:
	}
	// Buffer full: drop the oldest pending value, keep the latest.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- val:
	default:
	}
}
