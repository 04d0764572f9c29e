package resource

import "sync"

// queue is a FIFO that any number of goroutines may push to while a single
// consumer drains it.
type queue[T any] struct {
	mu    sync.Mutex
	items []T
}

func (q *queue[T]) push(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, v)
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *queue[T]) pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true
}

// drain hands the entries present when it was called to fn, in order, and
// returns how many it handed out. Entries pushed in the meantime, fn's own
// pushes included, stay queued. The lock is not held while fn runs.
func (q *queue[T]) drain(fn func(T)) int {
	n := q.len()
	for i := 0; i < n; i++ {
		v, ok := q.pop()
		if !ok {
			return i
		}
		fn(v)
	}
	return n
}

func (q *queue[T]) clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

func (q *queue[T]) snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]T(nil), q.items...)
}
