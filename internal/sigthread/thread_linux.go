//go:build linux

package sigthread

import (
	"os"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"github.com/lattice-rt/ert/internal/core"
	"github.com/lattice-rt/ert/internal/msgqueue"
	"golang.org/x/sys/unix"
)

// Thread runs the signal pump on its own locked OS thread.
type Thread struct {
	queue    *msgqueue.Queue
	observer core.Observer

	tid     int
	ready   chan error
	stopped chan struct{}
}

// New blocks every signal on a dedicated locked OS thread, opens a
// signalfd over the same mask, and starts pumping events into queue. It
// blocks until the thread has finished masking signals and is ready to
// receive them, or returns an error if that setup failed.
func New(queue *msgqueue.Queue, observer core.Observer) (*Thread, error) {
	if observer == nil {
		observer = core.NoOpObserver{}
	}
	t := &Thread{
		queue:    queue,
		observer: observer,
		ready:    make(chan error, 1),
		stopped:  make(chan struct{}),
	}
	go t.run()

	select {
	case err := <-t.ready:
		if err != nil {
			return nil, err
		}
	case <-time.After(2 * time.Second):
		return nil, core.NewError("sigthread.New", core.ErrCodeTimeout, "signal thread did not become ready")
	}
	// Give other goroutines/threads a moment before the caller starts
	// raising signals, since PthreadSigmask only affects this thread's
	// mask and a signal racing the mask install can still hit the old
	// disposition.
	time.Sleep(core.SignalThreadStartupDelay)
	return t, nil
}

func fillSigset(set *unix.Sigset_t) {
	for i := range set.Val {
		set.Val[i] = ^uint64(0)
	}
}

func (t *Thread) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.stopped)

	t.tid = unix.Gettid()

	var mask unix.Sigset_t
	fillSigset(&mask)
	if err := unix.PthreadSigmask(unix.SIG_BLOCK, &mask, nil); err != nil {
		t.ready <- core.WrapError("sigthread.PthreadSigmask", err)
		return
	}

	sfd, err := unix.Signalfd(-1, &mask, 0)
	if err != nil {
		t.ready <- core.WrapError("sigthread.Signalfd", err)
		return
	}
	defer unix.Close(sfd)

	t.ready <- nil

	buf := make([]byte, unix.SizeofSignalfdSiginfo)
	for {
		n, err := unix.Read(sfd, buf)
		if err == syscall.EINTR {
			continue
		}
		if err != nil || n != len(buf) {
			return
		}
		info := (*unix.SignalfdSiginfo)(unsafe.Pointer(&buf[0]))
		if info.Signo == uint32(unix.SIGALRM) {
			return
		}
		t.publish(int32(info.Signo), int32(info.Pid))
	}
}

func (t *Thread) publish(signum, pid int32) {
	t.queue.WriteSignalEvent(signum, pid)
	t.observer.ObserveSignalEvent()
}

// Stop delivers SIGALRM directly to the signal thread's OS thread,
// the agreed shutdown signal.
func (t *Thread) Stop() {
	if t.tid != 0 {
		syscall.Tgkill(os.Getpid(), t.tid, syscall.SIGALRM)
	}
}

// Done returns a channel that closes once the thread has exited its loop
// after receiving SIGALRM.
func (t *Thread) Done() <-chan struct{} {
	return t.stopped
}
