package ert

import (
	"time"

	"github.com/lattice-rt/ert/internal/core"
)

// These all live in internal/core alongside Error so that internal/trigger,
// internal/msgqueue, internal/worker and internal/sigthread can reference
// them without importing this root package; aliased here under their
// original names for every caller of this module.
const (
	MaxRegisteredWorkers    = core.MaxRegisteredWorkers
	DefaultMsgQueueSize     = core.DefaultMsgQueueSize
	SignalEventEnvelopeSize = core.SignalEventEnvelopeSize
	ShutdownWorkerID        = core.ShutdownWorkerID
)

const (
	SignalThreadStartupDelay time.Duration = core.SignalThreadStartupDelay
	WorkerShutdownTimeout    time.Duration = core.WorkerShutdownTimeout
)
