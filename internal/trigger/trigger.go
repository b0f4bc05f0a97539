// Package trigger implements the fd-backed wake counter that lets one
// goroutine's Fire happen-before another goroutine's blocking Wait, the
// way an event loop polls for readiness without owning the producer.
package trigger

import (
	"encoding/binary"
	"fmt"

	"github.com/lattice-rt/ert/internal/core"
	"golang.org/x/sys/unix"
)

// Trigger wraps a kernel file descriptor that behaves as an 8-byte
// counter. On Linux it is backed by a real eventfd in its default
// (counting, not semaphore) mode: N fires accumulate in the kernel and a
// single Wait drains all of them, returning N. See newPlatformTrigger for
// the platform-specific half of construction.
type Trigger struct {
	fd  int
	wfd int // write end; equal to fd except on the non-Linux self-pipe fallback
}

// New creates and owns a fresh Trigger. Callers must Close it when done.
func New() (*Trigger, error) {
	fd, wfd, err := newPlatformTrigger()
	if err != nil {
		return nil, core.WrapError("Trigger.New", err)
	}
	return &Trigger{fd: fd, wfd: wfd}, nil
}

// FD returns the readable file descriptor, suitable for handing to an
// external poll/epoll loop (the host loop's suspension point).
func (t *Trigger) FD() int { return t.fd }

func (t *Trigger) assertAttached(op string) {
	if t == nil || t.fd == 0 {
		core.Fatal(op, "fd=0")
	}
}

// Write writes an arbitrary u64 to the trigger's counter.
func (t *Trigger) Write(v uint64) {
	t.assertAttached("Trigger.Write")
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	n, err := unix.Write(t.wfd, buf[:])
	if err != nil || n != 8 {
		core.Fatal("Trigger.Write", fmt.Sprintf("cannot write to event fd: n=%d err=%v", n, err))
	}
}

// Fire increments the trigger's counter by one. Multiple concurrent
// fires accumulate; none are lost.
func (t *Trigger) Fire() {
	t.Write(1)
}

// Poll blocks with POSIX poll until the fd is readable. A status other
// than exactly one ready fd is a fatal error - it can only mean the fd
// was closed out from under a waiter or the kernel returned something
// this protocol never expects.
func (t *Trigger) Poll() {
	t.assertAttached("Trigger.Poll")
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, -1)
	if err != nil || n != 1 {
		core.Fatal("Trigger.Poll", fmt.Sprintf("status=%d, expected 1 (err=%v)", n, err))
	}
}

// Read consumes exactly 8 bytes from the fd and returns the counter
// value observed. A short read is fatal.
func (t *Trigger) Read() uint64 {
	t.assertAttached("Trigger.Read")
	var buf [8]byte
	n, err := unix.Read(t.fd, buf[:])
	if err != nil || n != 8 {
		core.Fatal("Trigger.Read", fmt.Sprintf("nbytes=%d, expected 8 (err=%v)", n, err))
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// Wait is Poll followed by Read: it blocks until at least one fire is
// pending, then returns the accumulated counter value.
func (t *Trigger) Wait() uint64 {
	t.Poll()
	return t.Read()
}

// Close releases the underlying file descriptor(s).
func (t *Trigger) Close() error {
	if t.wfd != t.fd {
		if err := unix.Close(t.wfd); err != nil {
			return err
		}
	}
	return unix.Close(t.fd)
}
