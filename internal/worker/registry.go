// Package worker implements the async dispatch half of the substrate: a
// plugin-style registry of typed request handlers, grouped into workers,
// and the worker-thread loop that executes them off the host loop.
package worker

import "github.com/lattice-rt/ert/internal/core"

// Handler consumes a request value in place and writes its result fields
// back into it; the concrete type behind the any is agreed between the
// caller and the handler, discriminated by (workerID, handlerID).
type Handler func(requestData any)

// Failer is implemented by request types that can fail without Dispatch
// itself erroring - a handler that stores a recoverable error in its
// request, like fstab.go's Stat and ReadFile, rather than treating it as
// a fatal programmer error. WorkerThread.run type-asserts a dispatched
// request against Failer to report accurate dispatch outcomes; request
// types with no failure mode (EchoRequest) simply don't implement it and
// are always reported as successful.
type Failer interface {
	Failed() bool
}

// workerGroup is a registered set of handlers, addressed by a 0-based
// handler id within the group.
type workerGroup struct {
	handlers []Handler
}

// registeredWorkers and its length form the process-lifetime registry
// singleton. Registration happens at startup, before any worker thread
// runs, and is deliberately not synchronized against itself - the same
// contract the original registry had.
var registeredWorkers []*workerGroup

// RegisterWorker registers handlers as a new worker and returns its
// stable 1-based worker id. Exceeding MaxRegisteredWorkers is a fatal
// startup error.
func RegisterWorker(handlers []Handler) int {
	if len(registeredWorkers) == core.MaxRegisteredWorkers {
		core.Fatalf("worker.RegisterWorker", "cannot register more workers, %d limit exceeded", core.MaxRegisteredWorkers)
	}
	group := &workerGroup{handlers: append([]Handler(nil), handlers...)}
	registeredWorkers = append(registeredWorkers, group)
	return len(registeredWorkers)
}

// RegisteredCount returns the number of workers registered so far.
func RegisteredCount() int {
	return len(registeredWorkers)
}

// ResetRegistry clears the registry. It exists only for tests: the
// registry is a process-lifetime singleton in production and is never
// reset there.
func ResetRegistry() {
	registeredWorkers = nil
}

// Dispatch looks up and invokes the handler addressed by
// (workerID, handlerID). workerID is 1-based; handlerID is 0-based. Both
// out-of-range cases are fatal programmer errors, matching the original
// worker thread loop's validation.
func Dispatch(workerID, handlerID int, requestData any) {
	if workerID < 1 || workerID > len(registeredWorkers) {
		core.Fatalf("worker.Dispatch", "invalid async request: worker_id is out of range (registered_worker_count=%d, worker_id=%d)", len(registeredWorkers), workerID)
	}
	group := registeredWorkers[workerID-1]
	if handlerID < 0 || handlerID >= len(group.handlers) {
		core.Fatalf("worker.Dispatch", "invalid async request: handler_id is out of range (worker_id=%d, handler_id=%d, handler_count=%d)", workerID, handlerID, len(group.handlers))
	}
	group.handlers[handlerID](requestData)
}
