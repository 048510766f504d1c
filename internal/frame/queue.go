package frame

import "sync"

// Handle identifies a requested frame callback. The zero Handle is never issued.
type Handle uint64

// Queue is a requestAnimationFrame-style callback queue. The host calls Flush once
// per display refresh; every callback pending at that moment runs exactly once.
// Callbacks requested while a flush is running wait for the next one.
type Queue struct {
	mu      sync.Mutex
	next    Handle
	pending []request
	running map[Handle]bool // handles of the batch currently being flushed
}

type request struct {
	handle Handle
	cb     func()
}

func NewQueue() *Queue {
	return &Queue{}
}

// Request schedules cb for the next Flush and returns a handle for Cancel.
func (q *Queue) Request(cb func()) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.next++
	q.pending = append(q.pending, request{handle: q.next, cb: cb})
	return q.next
}

// Cancel drops a callback that has not run yet. Unknown or already-run handles are ignored.
func (q *Queue) Cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.running[h]; ok {
		q.running[h] = false
		return
	}
	for i, r := range q.pending {
		if r.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Flush runs the callbacks that were pending when it was called and reports how many ran.
func (q *Queue) Flush() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.running = make(map[Handle]bool, len(batch))
	for _, r := range batch {
		q.running[r.handle] = true
	}
	q.mu.Unlock()

	ran := 0
	for _, r := range batch {
		q.mu.Lock()
		live := q.running[r.handle]
		delete(q.running, r.handle)
		q.mu.Unlock()

		// an earlier callback in this batch cancelled it
		if !live {
			continue
		}
		r.cb()
		ran++
	}

	q.mu.Lock()
	q.running = nil
	q.mu.Unlock()
	return ran
}

// Pending reports the number of callbacks waiting for the next Flush.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
