//go:build linux

package sigthread

import "golang.org/x/sys/unix"

// BlockAllSignals blocks every signal on the calling OS thread via
// pthread_sigmask. Go's runtime.clone() inherits the creating thread's
// signal mask, so calling this once, early, on the goroutine that builds
// a Runtime - before any worker or the signal thread itself locks its own
// OS thread - makes new OS threads spawned afterward likely to start with
// every signal already blocked. That is the precondition New's signalfd
// relies on: a process-directed signal lands on some unmasked thread's
// default disposition, and a signalfd only observes signals blocked (and
// therefore queued, not delivered) on the thread that opened it.
//
// This is best-effort, not a guarantee. The Go scheduler can still run a
// goroutine on an OS thread that existed, and had its own mask, before
// this function ran - for example a thread parked in the scheduler's
// idle pool. Callers that need a hard guarantee must block signals in
// every OS thread themselves, which the Go runtime does not expose a way
// to enumerate or iterate.
func BlockAllSignals() error {
	var mask unix.Sigset_t
	fillSigset(&mask)
	return unix.PthreadSigmask(unix.SIG_BLOCK, &mask, nil)
}
