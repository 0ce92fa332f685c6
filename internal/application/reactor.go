package application

import "sync"

// reactor runs posted functions one at a time, in order, on a single
// goroutine. All session state is owned by that goroutine.
type reactor struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func newReactor() *reactor {
	return &reactor{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// post queues fn and reports whether it was accepted. Posts after close are
// dropped.
func (r *reactor) post(fn func()) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.queue = append(r.queue, fn)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return true
}

// close stops accepting work. Already queued functions still run.
func (r *reactor) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *reactor) run() {
	defer close(r.done)

	for {
		r.mu.Lock()
		for len(r.queue) == 0 && !r.closed {
			r.mu.Unlock()
			<-r.wake
			r.mu.Lock()
		}
		if len(r.queue) == 0 {
			r.mu.Unlock()
			return
		}
		pending := r.queue
		r.queue = nil
		r.mu.Unlock()

		for _, fn := range pending {
			fn()
		}
	}
}
