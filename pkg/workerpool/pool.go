// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The pool caps concurrent goroutines so bursty event fan-out cannot grow
// without bound. When every worker is busy and the buffer is full, Submit
// returns ErrPoolFull immediately and the caller decides what to do.
//
//	pool := workerpool.New(50)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(task); errors.Is(err, workerpool.ErrPoolFull) {
//	    // run inline, enqueue elsewhere, or drop
//	}
package workerpool

import (
	"errors"
	"sync"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// buffer is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}
}

// New creates a Pool with the given number of workers (minimum 1).
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		// Buffer 2x the worker count to absorb bursts.
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task without blocking. Returns ErrPoolFull when the
// buffer is at capacity and ErrPoolClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait blocks until a slot frees up or the pool closes.
func (p *Pool) SubmitWait(task func()) error {
	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops accepting tasks and waits for in-flight work to finish.
// Safe to call multiple times.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		close(p.tasks)
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		safeRun(task)
	}
}

// safeRun keeps a panicking task from killing the worker.
func safeRun(task func()) {
	defer func() { recover() }() //nolint:errcheck
	task()
}
