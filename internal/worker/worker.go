package worker

import (
	"runtime"
	"time"

	"github.com/lattice-rt/ert/internal/core"
)

// WorkerThread owns one AsyncWorkerInfo and runs the wait/validate/
// dispatch/fire loop on a single locked OS thread, the Go equivalent of
// the original's one-thread-per-worker pthread. Locking the OS thread
// matters here because a handler performing a blocking syscall (the
// echo handler's nanosleep-equivalent, a filesystem handler's blocking
// read) must not be silently rescheduled onto an OS thread shared with
// another worker's handler.
type WorkerThread struct {
	Info     *AsyncWorkerInfo
	Observer core.Observer

	done chan struct{}
}

// NewWorkerThread creates a WorkerThread around info. The caller is
// responsible for creating info's two Triggers and keeping them alive
// for the worker's lifetime.
func NewWorkerThread(info *AsyncWorkerInfo, observer core.Observer) *WorkerThread {
	if observer == nil {
		observer = core.NoOpObserver{}
	}
	return &WorkerThread{Info: info, Observer: observer, done: make(chan struct{})}
}

// Start runs the dispatch loop in a new goroutine and returns
// immediately. Done() closes once the loop exits following a shutdown
// request.
func (w *WorkerThread) Start() {
	go w.run()
}

// Done returns a channel that closes once the worker thread has
// acknowledged shutdown and exited its loop.
func (w *WorkerThread) Done() <-chan struct{} {
	return w.done
}

func (w *WorkerThread) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(w.done)

	for {
		w.Info.RequestTrigger.Wait()
		w.Observer.ObserveTriggerWait()

		workerID := w.Info.WorkerID
		if workerID == core.ShutdownWorkerID {
			w.Info.ResponseTrigger.Fire()
			w.Observer.ObserveTriggerFire()
			return
		}

		start := time.Now()
		Dispatch(workerID, w.Info.HandlerID, w.Info.RequestData)
		success := true
		if f, ok := w.Info.RequestData.(Failer); ok {
			success = !f.Failed()
		}
		w.Observer.ObserveDispatch(uint64(time.Since(start).Nanoseconds()), success)

		w.Info.ResponseTrigger.Fire()
		w.Observer.ObserveTriggerFire()
	}
}

// RequestShutdown writes the shutdown sentinel into Info and fires
// RequestTrigger, then waits up to core.WorkerShutdownTimeout for the
// worker to acknowledge on ResponseTrigger. It returns false if the
// timeout elapsed first.
func (w *WorkerThread) RequestShutdown() bool {
	w.Info.WorkerID = core.ShutdownWorkerID
	w.Info.RequestTrigger.Fire()

	ackCh := make(chan struct{})
	go func() {
		w.Info.ResponseTrigger.Wait()
		close(ackCh)
	}()

	select {
	case <-ackCh:
		return true
	case <-time.After(core.WorkerShutdownTimeout):
		return false
	}
}
