package worker

import "github.com/lattice-rt/ert/internal/trigger"

// AsyncWorkerInfo is the per-worker-thread shared state the host and a
// single worker thread synchronize through. The host fills WorkerID,
// HandlerID and RequestData, then fires RequestTrigger; the worker reads
// them after its Wait returns, dispatches, writes results into whatever
// RequestData points at, then fires ResponseTrigger. The two Triggers
// provide the release/acquire ordering over the struct - nothing else
// protects it, matching the original's synchronization model.
type AsyncWorkerInfo struct {
	RequestTrigger  *trigger.Trigger
	WorkerID        int
	HandlerID       int
	RequestData     any
	ResponseTrigger *trigger.Trigger
}
