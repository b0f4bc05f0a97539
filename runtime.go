package ert

import (
	"time"

	"github.com/lattice-rt/ert/internal/logging"
	"github.com/lattice-rt/ert/internal/msgqueue"
	"github.com/lattice-rt/ert/internal/sigthread"
	"github.com/lattice-rt/ert/internal/trigger"
	"github.com/lattice-rt/ert/internal/worker"
)

// RuntimeConfig configures a Runtime. Zero values are replaced with
// sensible defaults in NewRuntime, the same way the teacher's
// DeviceParams/Options pair works.
type RuntimeConfig struct {
	// QueueSize is the MsgQueue's ring capacity in bytes.
	QueueSize int
	// WorkerPoolSize is the number of worker threads kept ready for
	// SubmitAsync. Pool management sits outside the four core
	// components' scope by design; this is the simplest policy that
	// makes the Runtime usable end to end.
	WorkerPoolSize int
	// EnableSignalThread starts the signal-handling thread bound to the
	// Runtime's MsgQueue. It requires Linux; on any other platform
	// NewRuntime logs a warning and continues without it.
	EnableSignalThread bool
}

// Runtime wires together one MsgQueue, a pool of worker threads sharing
// the process-wide worker registry, and an optional signal thread. It is
// the host loop's entry point, the direct analogue of the teacher's
// Device/CreateAndServe pairing.
type Runtime struct {
	Queue     *msgqueue.Queue
	TrigR     *trigger.Trigger
	SigThread *sigthread.Thread
	Metrics   *Metrics
	Observer  Observer

	pool       chan *worker.WorkerThread
	allThreads []*worker.WorkerThread
}

// NewRuntime brings up a Runtime per cfg. On any failure it tears down
// whatever it already started before returning the error, mirroring the
// teacher's CreateAndServe cleanup-on-error-path discipline.
func NewRuntime(cfg RuntimeConfig) (*Runtime, error) {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultMsgQueueSize
	}
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 4
	}

	metrics := NewMetrics()
	observer := Observer(NewMetricsObserver(metrics))

	// Block every signal on this goroutine's OS thread before spawning any
	// worker or the signal thread, so OS threads the Go runtime clones
	// afterward are likely to inherit the mask. See
	// sigthread.BlockAllSignals for why this is best-effort rather than a
	// guarantee, and why it must run before the loops below start
	// goroutines that call runtime.LockOSThread.
	if cfg.EnableSignalThread {
		if err := sigthread.BlockAllSignals(); err != nil {
			logging.Default().Warn("failed to block signals on startup thread", "error", err)
		}
	}

	trigR, err := trigger.New()
	if err != nil {
		return nil, WrapError("NewRuntime", err)
	}

	rt := &Runtime{
		Queue:    msgqueue.New(cfg.QueueSize, trigR, observer),
		TrigR:    trigR,
		Metrics:  metrics,
		Observer: observer,
	}

	for i := 0; i < cfg.WorkerPoolSize; i++ {
		reqTrig, err := trigger.New()
		if err != nil {
			rt.Close()
			return nil, WrapError("NewRuntime", err)
		}
		respTrig, err := trigger.New()
		if err != nil {
			reqTrig.Close()
			rt.Close()
			return nil, WrapError("NewRuntime", err)
		}
		info := &worker.AsyncWorkerInfo{RequestTrigger: reqTrig, ResponseTrigger: respTrig}
		wt := worker.NewWorkerThread(info, observer)
		wt.Start()
		rt.allThreads = append(rt.allThreads, wt)
	}
	rt.pool = make(chan *worker.WorkerThread, len(rt.allThreads))
	for _, wt := range rt.allThreads {
		rt.pool <- wt
	}

	if cfg.EnableSignalThread {
		st, err := sigthread.New(rt.Queue, observer)
		if err != nil {
			logging.Default().Warn("signal thread unavailable", "error", err)
		} else {
			rt.SigThread = st
		}
	}

	return rt, nil
}

// SubmitAsync borrows a pooled worker thread, submits the request
// addressed by (workerID, handlerID), blocks until the worker's response
// trigger fires, then returns the thread to the pool. If every worker is
// busy, SubmitAsync blocks until one frees up.
func (rt *Runtime) SubmitAsync(workerID, handlerID int, requestData any) {
	wt := <-rt.pool
	defer func() { rt.pool <- wt }()

	wt.Info.WorkerID = workerID
	wt.Info.HandlerID = handlerID
	wt.Info.RequestData = requestData
	wt.Info.RequestTrigger.Fire()
	wt.Info.ResponseTrigger.Wait()
}

// Close retires every worker thread and the signal thread (if running),
// then releases their file descriptors. It is safe to call on a
// partially constructed Runtime.
func (rt *Runtime) Close() error {
	for _, wt := range rt.allThreads {
		wt.RequestShutdown()
	}

	if rt.SigThread != nil {
		rt.SigThread.Stop()
		select {
		case <-rt.SigThread.Done():
		case <-time.After(WorkerShutdownTimeout):
			logging.Default().Warn("signal thread did not exit within the shutdown timeout")
		}
	}

	for _, wt := range rt.allThreads {
		wt.Info.RequestTrigger.Close()
		wt.Info.ResponseTrigger.Close()
	}
	if rt.TrigR != nil {
		rt.TrigR.Close()
	}
	if rt.Metrics != nil {
		rt.Metrics.Stop()
	}
	return nil
}
