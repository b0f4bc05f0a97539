package msgqueue

import "github.com/lattice-rt/ert/internal/core"

// SignalEventWireSize is the exact number of bytes WriteSignalEvent
// commits: fixarray(2) + fixstr("signal") + fixarray(2) + two forced
// int64-width integers. It is constant because WriteSignalEvent always
// uses the fixed-width int encoding, which lets the host read back
// exactly this many bytes without first decoding a length from the
// stream - something the ring's prepare/finish protocol has no generic
// way to express, since it reserves a window by byte count, not by
// logical message count.
const SignalEventWireSize = 1 + (1 + 6) + 1 + 9 + 9

// WriteSignalEvent packs the ["signal", [signum, sender_pid]] envelope
// described for the signal thread and commits it to the ring. It
// performs the full two-phase write protocol itself.
func (q *Queue) WriteSignalEvent(signum, senderPID int32) {
	q.Lock()
	defer q.Unlock()
	q.PrepareWrite(core.SignalEventEnvelopeSize)
	q.PackArray(2)
	q.PackStr("signal")
	q.PackArray(2)
	q.packFixedInt64(int64(signum))
	q.packFixedInt64(int64(senderPID))
	q.FinishWrite()
}

// ReadSignalEvent performs the full two-phase read protocol for exactly
// one signal envelope and decodes it. The wire-size envelope is a scratch
// buffer pulled from the shared pool rather than allocated fresh, since
// the host loop calls this once per delivered signal.
func (q *Queue) ReadSignalEvent() (SignalEvent, error) {
	buf := GetBuffer(SignalEventWireSize)
	defer PutBuffer(buf)
	q.ReadBlob(buf)
	return DecodeSignalEvent(buf)
}
