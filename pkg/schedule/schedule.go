// Package schedule runs recurring tasks on a fluent, in-process scheduler.
//
//	schedule.Every(5).Minutes().
//	    Name("payments:reconcile").
//	    WithoutOverlapping().
//	    Run(func() { payments.Reconcile(ctx) })
//
//	go schedule.Start(ctx)
package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hostelease/hostelease/pkg/logger"
)

// Task is a scheduled unit of work.
type Task struct {
	name       string
	interval   time.Duration
	fn         func()
	noOverlap  bool
	running    atomic.Bool
	lastRun    time.Time
	totalRuns  atomic.Int64
	totalPanic atomic.Int64
}

type scheduler struct {
	mu    sync.Mutex
	tasks []*Task
}

var defaultScheduler = &scheduler{}

// builder carries the interval count between Every(n) and its unit method.
type builder struct {
	n int
}

// Every begins an interval definition: Every(5).Minutes().
func Every(n int) *builder {
	if n <= 0 {
		n = 1
	}
	return &builder{n: n}
}

func (b *builder) Seconds() *Task { return register(time.Duration(b.n) * time.Second) }

func (b *builder) Minutes() *Task { return register(time.Duration(b.n) * time.Minute) }

func (b *builder) Hours() *Task { return register(time.Duration(b.n) * time.Hour) }

// EveryMinute is shorthand for Every(1).Minutes().
func EveryMinute() *Task { return register(time.Minute) }

// Hourly is shorthand for Every(1).Hours().
func Hourly() *Task { return register(time.Hour) }

// Daily runs the task every 24 hours.
func Daily() *Task { return register(24 * time.Hour) }

func register(interval time.Duration) *Task {
	t := &Task{interval: interval}
	defaultScheduler.mu.Lock()
	defaultScheduler.tasks = append(defaultScheduler.tasks, t)
	defaultScheduler.mu.Unlock()
	return t
}

// Name labels the task in logs and List output.
func (t *Task) Name(name string) *Task { t.name = name; return t }

// WithoutOverlapping skips a tick when the previous run is still going.
func (t *Task) WithoutOverlapping() *Task { t.noOverlap = true; return t }

// Run sets the task function and finishes registration.
func (t *Task) Run(fn func()) *Task { t.fn = fn; return t }

// Start ticks every second and dispatches due tasks until ctx is cancelled.
func Start(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	logger.Info("schedule: started", "tasks", len(List()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: stopped")
			return
		case now := <-ticker.C:
			defaultScheduler.mu.Lock()
			due := make([]*Task, 0)
			for _, t := range defaultScheduler.tasks {
				if t.fn == nil {
					continue
				}
				if t.lastRun.IsZero() || now.Sub(t.lastRun) >= t.interval {
					t.lastRun = now
					due = append(due, t)
				}
			}
			defaultScheduler.mu.Unlock()

			for _, t := range due {
				go t.dispatch()
			}
		}
	}
}

func (t *Task) dispatch() {
	if t.noOverlap && !t.running.CompareAndSwap(false, true) {
		logger.Warn("schedule: skipped overlapping run", "task", t.name)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			t.totalPanic.Add(1)
			logger.Error("schedule: task panicked", "task", t.name, "panic", r)
		}
		if t.noOverlap {
			t.running.Store(false)
		}
	}()

	t.totalRuns.Add(1)
	t.fn()
}

// Entry describes a registered task for schedule:list.
type Entry struct {
	Name     string
	Interval time.Duration
	Runs     int64
}

// List returns a snapshot of registered tasks.
func List() []Entry {
	defaultScheduler.mu.Lock()
	defer defaultScheduler.mu.Unlock()

	out := make([]Entry, 0, len(defaultScheduler.tasks))
	for _, t := range defaultScheduler.tasks {
		out = append(out, Entry{Name: t.name, Interval: t.interval, Runs: t.totalRuns.Load()})
	}
	return out
}

// Reset clears all registered tasks. Tests only.
func Reset() {
	defaultScheduler.mu.Lock()
	defaultScheduler.tasks = nil
	defaultScheduler.mu.Unlock()
}
