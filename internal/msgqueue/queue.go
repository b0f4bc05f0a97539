// Package msgqueue implements the bounded, thread-safe ring buffer that
// carries length-delimited and piecewise-MessagePack messages between
// producer threads (the signal thread, worker threads) and a single
// consumer (the host loop), with a reader-notify Trigger integrated into
// the two-phase lock/prepare/finish protocol.
package msgqueue

import (
	"sync"

	"github.com/lattice-rt/ert/internal/core"
	"github.com/lattice-rt/ert/internal/trigger"
)

// Queue is a bounded ring buffer. Zero value is not usable; construct
// with New. WriteBlob, ReadBlob, WriteSignalEvent and ReadSignalEvent
// run the whole protocol, taking and releasing the lock themselves; the
// other exported methods except Lock/Unlock/Size assume the caller
// already holds the lock, matching the original's explicit
// lock/prepare/.../unlock discipline - callers are expected to follow
// the sequence: Lock, PrepareWrite, zero or more writes/packs,
// FinishWrite, Unlock (symmetrically for reads).
type Queue struct {
	mu    sync.Mutex
	condR *sync.Cond
	condW *sync.Cond

	buf  []byte
	size int

	rpos, wpos       int
	freeSpace        int
	bytesTransferred int

	trigR *trigger.Trigger
	obs   core.Observer
}

// New creates a Queue of the given size backed by trigR as its
// reader-notify Trigger. trigR may be nil in tests that only exercise
// the ring arithmetic. obs receives ObserveQueueWrite/ObserveQueueRead
// calls as writes and reads commit; a nil obs falls back to
// core.NoOpObserver{}.
func New(size int, trigR *trigger.Trigger, obs core.Observer) *Queue {
	if obs == nil {
		obs = core.NoOpObserver{}
	}
	q := &Queue{
		buf:       make([]byte, size),
		size:      size,
		freeSpace: size,
		trigR:     trigR,
		obs:       obs,
	}
	q.condR = sync.NewCond(&q.mu)
	q.condW = sync.NewCond(&q.mu)
	return q
}

// Lock acquires the queue's mutex, the first step of both the write and
// read two-phase protocols.
func (q *Queue) Lock() { q.mu.Lock() }

// Unlock releases the queue's mutex, the last step of both protocols.
func (q *Queue) Unlock() { q.mu.Unlock() }

// PrepareWrite waits on the write condition variable until at least
// length bytes of free space are available, then resets the
// bytes-transferred scratch counter. A length exceeding the queue's
// total size can never be satisfied and is a fatal programmer error.
func (q *Queue) PrepareWrite(length int) {
	if length > q.size {
		core.Fatalf("MsgQueue.PrepareWrite", "length (%d) exceeds queue size (%d)", length, q.size)
	}
	for q.freeSpace < length {
		q.condW.Wait()
	}
	q.bytesTransferred = 0
}

// FinishWrite commits the bytes written since PrepareWrite: it subtracts
// them from free_space, fires the reader Trigger (the host loop's
// primary wakeup), and signals cond_r as a defensive fallback.
func (q *Queue) FinishWrite() {
	q.freeSpace -= q.bytesTransferred
	q.obs.ObserveQueueWrite(uint64(q.bytesTransferred), uint64(q.freeSpace))
	if q.trigR != nil {
		q.trigR.Fire()
	}
	q.condR.Signal()
}

// PrepareRead waits on the read condition variable until the queue is
// non-empty, then resets the bytes-transferred scratch counter. The
// host's normal path detects availability by polling the reader Trigger
// and should not usually block here; this is the safety net described
// for cond_r.
func (q *Queue) PrepareRead() {
	for q.freeSpace == q.size {
		q.condR.Wait()
	}
	q.bytesTransferred = 0
}

// FinishRead commits the bytes consumed since PrepareRead: it adds them
// back to free_space and broadcasts cond_w to unblock any producers
// waiting for room.
func (q *Queue) FinishRead() {
	q.freeSpace += q.bytesTransferred
	q.obs.ObserveQueueRead(uint64(q.bytesTransferred))
	q.condW.Broadcast()
}

// FreeSpace returns the current free_space under the caller's lock.
func (q *Queue) FreeSpace() int { return q.freeSpace }

// Size returns the ring's total capacity.
func (q *Queue) Size() int { return q.size }

// readBytes copies len(p) bytes starting at rpos into p, splitting the
// copy across the ring boundary when necessary, advancing rpos modulo
// size and accumulating bytes_transferred.
func (q *Queue) readBytes(p []byte) int {
	read := 0
	chunk := len(p)
	if room := q.size - q.rpos; chunk > room {
		chunk = room
	}
	if chunk > 0 {
		copy(p[:chunk], q.buf[q.rpos:q.rpos+chunk])
		q.rpos = (q.rpos + chunk) % q.size
		read += chunk
	}
	if read < len(p) {
		chunk = len(p) - read
		copy(p[read:read+chunk], q.buf[:chunk])
		q.rpos += chunk
		read += chunk
	}
	q.bytesTransferred += read
	return read
}

// writeBytes copies p into the ring starting at wpos, splitting across
// the ring boundary when necessary, advancing wpos modulo size and
// accumulating bytes_transferred.
func (q *Queue) writeBytes(p []byte) int {
	written := 0
	chunk := len(p)
	if room := q.size - q.wpos; chunk > room {
		chunk = room
	}
	if chunk > 0 {
		copy(q.buf[q.wpos:q.wpos+chunk], p[:chunk])
		q.wpos = (q.wpos + chunk) % q.size
		written += chunk
	}
	if written < len(p) {
		chunk = len(p) - written
		copy(q.buf[:chunk], p[written:written+chunk])
		q.wpos += chunk
		written += chunk
	}
	q.bytesTransferred += written
	return written
}

// WriteBlob performs the full two-phase write protocol for a single blob
// of opaque data: lock, prepare_write(len(data)), write, finish_write,
// unlock.
func (q *Queue) WriteBlob(data []byte) {
	q.Lock()
	defer q.Unlock()
	q.PrepareWrite(len(data))
	q.writeBytes(data)
	q.FinishWrite()
}

// ReadBlob performs the full two-phase read protocol, filling buf
// exactly: lock, prepare_read, read, finish_read, unlock. It returns the
// number of bytes actually read, which is always len(buf) once
// prepare_read has unblocked, since the writer that woke it committed at
// least that many bytes.
func (q *Queue) ReadBlob(buf []byte) int {
	q.Lock()
	defer q.Unlock()
	q.PrepareRead()
	n := q.readBytes(buf)
	q.FinishRead()
	return n
}

// codecWrite is the writer callback bespoke MessagePack encoders in
// codec.go drive directly: it writes all of p and returns the number
// written on full success, or 0 on partial/oversized failure. Must be
// called with the lock held and within a PrepareWrite/FinishWrite
// window.
func (q *Queue) codecWrite(p []byte) int {
	if len(p) > q.size {
		return 0
	}
	n := q.writeBytes(p)
	if n != len(p) {
		return 0
	}
	return n
}
