// Package sigthread implements the dedicated thread that collects POSIX
// signals via a blocked signal mask and publishes them as structured
// events into a MsgQueue. On Linux it blocks every signal on a locked OS
// thread with PthreadSigmask, then pumps unix.Signalfd - the poll-
// compatible, idiomatic Go equivalent of a per-thread sigwaitinfo loop,
// since a literal blocking sigwaitinfo doesn't compose with the Go
// scheduler's M:N thread model the way a pollable fd does. SIGALRM is
// reserved as the thread's shutdown signal.
package sigthread
