//go:build linux

package trigger

import "golang.org/x/sys/unix"

// newPlatformTrigger creates a real Linux eventfd in its default counting
// mode (no EFD_SEMAPHORE): writes add to the kernel's internal u64
// counter, and a read returns the whole accumulated value and resets it
// to zero. This is the counting-mode interpretation this package commits
// to for the Trigger's open question.
func newPlatformTrigger() (fd int, wfd int, err error) {
	fd, err = unix.Eventfd(0, 0)
	if err != nil {
		return 0, 0, err
	}
	return fd, fd, nil
}
