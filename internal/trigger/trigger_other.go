//go:build !linux

package trigger

import "golang.org/x/sys/unix"

// newPlatformTrigger falls back to a self-pipe on platforms without
// eventfd. Unlike the Linux backend this does not accumulate: each Fire
// produces one independent 8-byte message on the pipe, so N fires
// without an intervening Wait require N reads to drain, i.e. semaphore
// semantics rather than counting. It exists so the property tests in
// this package can run in CI on non-Linux hosts; production use targets
// Linux.
func newPlatformTrigger() (fd int, wfd int, err error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}
