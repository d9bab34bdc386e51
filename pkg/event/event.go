// Package event is the in-process dispatcher connecting order mutations to
// their side effects (live feed broadcast, queued notifications).
//
// Names used by the app: "order.placed", "order.status_changed",
// "order.payment_changed".
package event

import (
	"sync"

	"github.com/hostelease/hostelease/pkg/workerpool"
)

// Handler receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}

	poolMu sync.RWMutex
	pool   *workerpool.Pool
)

// UsePool routes FireAsync through a bounded worker pool instead of raw
// goroutines. Pass nil to go back to unbounded dispatch.
func UsePool(p *workerpool.Pool) {
	poolMu.Lock()
	pool = p
	poolMu.Unlock()
}

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event without waiting for handlers. When a
// worker pool is installed and full, the handler runs synchronously so the
// event is never lost.
func FireAsync(event string, payload interface{}) {
	poolMu.RLock()
	p := pool
	poolMu.RUnlock()

	for _, h := range snapshot(event) {
		h := h
		if p != nil {
			if err := p.Submit(func() { h(payload) }); err == nil {
				continue
			}
			h(payload)
			continue
		}
		go h(payload)
	}
}

// Flush removes all listeners, used in tests.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}
