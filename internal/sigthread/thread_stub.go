//go:build !linux

package sigthread

import (
	"github.com/lattice-rt/ert/internal/core"
	"github.com/lattice-rt/ert/internal/msgqueue"
)

// Thread is a non-Linux stub. Blocking every process signal and pumping
// it through a pollable fd needs PthreadSigmask + Signalfd, both
// Linux-only in golang.org/x/sys/unix; there is no portable equivalent.
type Thread struct{}

// New always fails on non-Linux platforms.
func New(queue *msgqueue.Queue, observer core.Observer) (*Thread, error) {
	return nil, core.NewError("sigthread.New", core.ErrCodeIOError, "signal thread requires Linux (signalfd)")
}

// Stop is a no-op on the stub.
func (t *Thread) Stop() {}

// Done returns a nil channel on the stub, which blocks forever on
// receive - callers only reach it after a successful New, which never
// happens on this platform.
func (t *Thread) Done() <-chan struct{} { return nil }
