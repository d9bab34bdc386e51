package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hostelease/hostelease/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		err := pool.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		})
		if err != nil {
			t.Fatalf("SubmitWait returned unexpected error: %v", err)
		}
	}

	wg.Wait()

	if got := count.Load(); got != n {
		t.Errorf("expected %d tasks to run, got %d", n, got)
	}
}

func TestPool_ErrPoolFull(t *testing.T) {
	// Size-1 pool whose only worker is blocked.
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	_ = pool.SubmitWait(func() {
		close(started)
		<-blocker
	})
	<-started

	// Fill the buffer (2x size), then one more must fail fast.
	sawFull := false
	for i := 0; i < 10; i++ {
		if err := pool.Submit(func() {}); errors.Is(err, workerpool.ErrPoolFull) {
			sawFull = true
			break
		}
	}
	close(blocker)

	if !sawFull {
		t.Error("expected Submit to return ErrPoolFull once the buffer filled")
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()

	if err := pool.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
	if err := pool.SubmitWait(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed from SubmitWait, got %v", err)
	}
}

func TestPool_PanicDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	_ = pool.SubmitWait(func() { panic("boom") })

	done := make(chan struct{})
	if err := pool.SubmitWait(func() { close(done) }); err != nil {
		t.Fatalf("SubmitWait after panic: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}
