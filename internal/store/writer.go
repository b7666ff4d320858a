package store

import (
	"context"
	"sync"
)

// writer serves fire-and-forget saves on a fixed pool of goroutines fed by a
// bounded queue. When the queue is full, submit blocks the producer; writes
// are never dropped while the store is open and no goroutine is spawned per
// save.
type writer struct {
	jobs chan func(context.Context)
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

func newWriter(workers, queueSize int) *writer {
	ctx, cancel := context.WithCancel(context.Background())
	w := &writer{
		jobs:   make(chan func(context.Context), queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for range workers {
		w.wg.Add(1)
		go w.run()
	}
	return w
}

func (w *writer) run() {
	defer w.wg.Done()
	for job := range w.jobs {
		job(w.ctx)
	}
}

// submit enqueues a job, blocking when the queue is full. Reports false once
// the writer is closed.
func (w *writer) submit(job func(context.Context)) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	w.jobs <- job
	return true
}

// close stops accepting jobs, drains the queue, and waits for the workers.
// The worker context is cancelled only after the drain so accepted saves
// still complete.
func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	close(w.jobs)
	w.wg.Wait()
	w.cancel()
}
