package core

import "time"

// Registration and sizing limits carried over from the original substrate.
const (
	// MaxRegisteredWorkers bounds the worker registry; registering past
	// this limit is a fatal startup error, not a recoverable one, because
	// it can only happen due to a build-time mistake.
	MaxRegisteredWorkers = 256

	// DefaultMsgQueueSize is used when a caller doesn't size its MsgQueue
	// explicitly. It comfortably holds several signal-event envelopes
	// (32 bytes each) without forcing prepare_write to block in the
	// common case.
	DefaultMsgQueueSize = 4096

	// SignalEventEnvelopeSize is the number of bytes reserved by
	// prepare_write for a single ["signal", [signum, pid]] event.
	SignalEventEnvelopeSize = 32
)

// ShutdownWorkerID is the worker shutdown sentinel: writing this into
// AsyncWorkerInfo.WorkerID and firing RequestTrigger tells the worker
// thread to acknowledge and exit instead of dispatching.
const ShutdownWorkerID = -1

// Timing constants below exist because the components they govern straddle
// real OS scheduling and signal delivery, not because of any algorithmic
// need; they are tuned empirically rather than derived.
const (
	// SignalThreadStartupDelay gives the signal-masking thread time to
	// block every signal before the caller starts raising any - otherwise
	// a signal sent immediately after spawning the thread can still land
	// on the default disposition of a thread whose mask hasn't taken
	// effect yet.
	SignalThreadStartupDelay = 20 * time.Millisecond

	// WorkerShutdownTimeout bounds how long NewRuntime/Close waits for a
	// worker's response trigger to fire after requesting shutdown before
	// giving up and logging instead of hanging forever on a wedged
	// handler.
	WorkerShutdownTimeout = 2 * time.Second
)
