package msgqueue

import (
	"encoding/binary"
	"math"

	"github.com/lattice-rt/ert/internal/core"
)

// This file is the ring-direct half of the MessagePack codec split: each
// Pack* call emits the exact type tag and payload for one value with a
// single call into the queue's codecWrite, mirroring the original's
// cmp_write_integer/cmp_write_str/... glue. It exists because a
// general-purpose MessagePack encoder/decoder is free to buffer ahead of
// the logical value it's working on; against a ring whose accounting
// depends on bytes_transferred being exact per prepare/finish window,
// that read-ahead would desynchronize rpos from the boundary the writer
// reserved. The buffer-backed decode path in codec_buffer.go drives a
// real MessagePack library instead, since buffering ahead inside an
// already-complete in-memory slice is harmless.
//
// All Pack* calls must happen inside a PrepareWrite(n)/FinishWrite
// window sized to fit every byte they emit; a codec failure here means
// the reserved window was sized wrong, which is a fatal programmer
// error, not a user-facing one.

func packFail(op string) {
	core.Fatal(op, "codec write failed inside reserved write window")
}

// PackInteger emits d as the smallest MessagePack signed-integer
// representation that fits.
func (q *Queue) PackInteger(d int64) {
	var buf []byte
	switch {
	case d >= 0 && d <= 0x7f:
		buf = []byte{byte(d)}
	case d < 0 && d >= -32:
		buf = []byte{byte(int8(d))}
	case d >= math.MinInt8 && d <= math.MaxInt8:
		buf = []byte{0xd0, byte(int8(d))}
	case d >= math.MinInt16 && d <= math.MaxInt16:
		buf = make([]byte, 3)
		buf[0] = 0xd1
		binary.BigEndian.PutUint16(buf[1:], uint16(int16(d)))
	case d >= math.MinInt32 && d <= math.MaxInt32:
		buf = make([]byte, 5)
		buf[0] = 0xd2
		binary.BigEndian.PutUint32(buf[1:], uint32(int32(d)))
	default:
		buf = make([]byte, 9)
		buf[0] = 0xd3
		binary.BigEndian.PutUint64(buf[1:], uint64(d))
	}
	if q.codecWrite(buf) != len(buf) {
		packFail("MsgQueue.PackInteger")
	}
}

// packFixedInt64 always emits the 9-byte int64 MessagePack form (tag
// 0xd3), even for small values that PackInteger would shrink. Callers
// that need a message's total wire length to be known in advance without
// decoding it first (the signal envelope) use this instead of
// PackInteger.
func (q *Queue) packFixedInt64(d int64) {
	buf := make([]byte, 9)
	buf[0] = 0xd3
	binary.BigEndian.PutUint64(buf[1:], uint64(d))
	if q.codecWrite(buf) != len(buf) {
		packFail("MsgQueue.packFixedInt64")
	}
}

// PackUInteger emits u as the smallest MessagePack unsigned-integer
// representation that fits.
func (q *Queue) PackUInteger(u uint64) {
	var buf []byte
	switch {
	case u <= 0x7f:
		buf = []byte{byte(u)}
	case u <= math.MaxUint8:
		buf = []byte{0xcc, byte(u)}
	case u <= math.MaxUint16:
		buf = make([]byte, 3)
		buf[0] = 0xcd
		binary.BigEndian.PutUint16(buf[1:], uint16(u))
	case u <= math.MaxUint32:
		buf = make([]byte, 5)
		buf[0] = 0xce
		binary.BigEndian.PutUint32(buf[1:], uint32(u))
	default:
		buf = make([]byte, 9)
		buf[0] = 0xcf
		binary.BigEndian.PutUint64(buf[1:], u)
	}
	if q.codecWrite(buf) != len(buf) {
		packFail("MsgQueue.PackUInteger")
	}
}

// PackDecimal emits d as a MessagePack float64.
func (q *Queue) PackDecimal(d float64) {
	buf := make([]byte, 9)
	buf[0] = 0xcb
	binary.BigEndian.PutUint64(buf[1:], math.Float64bits(d))
	if q.codecWrite(buf) != len(buf) {
		packFail("MsgQueue.PackDecimal")
	}
}

// PackNil emits MessagePack nil.
func (q *Queue) PackNil() {
	if q.codecWrite([]byte{0xc0}) != 1 {
		packFail("MsgQueue.PackNil")
	}
}

// PackTrue emits MessagePack true.
func (q *Queue) PackTrue() {
	if q.codecWrite([]byte{0xc3}) != 1 {
		packFail("MsgQueue.PackTrue")
	}
}

// PackFalse emits MessagePack false.
func (q *Queue) PackFalse() {
	if q.codecWrite([]byte{0xc2}) != 1 {
		packFail("MsgQueue.PackFalse")
	}
}

// PackBool emits MessagePack true or false depending on b.
func (q *Queue) PackBool(b bool) {
	if b {
		q.PackTrue()
	} else {
		q.PackFalse()
	}
}

// PackStr emits a MessagePack string header followed by data.
func (q *Queue) PackStr(data string) {
	size := uint32(len(data))
	var header []byte
	switch {
	case size <= 31:
		header = []byte{0xa0 | byte(size)}
	case size <= math.MaxUint8:
		header = []byte{0xd9, byte(size)}
	case size <= math.MaxUint16:
		header = make([]byte, 3)
		header[0] = 0xda
		binary.BigEndian.PutUint16(header[1:], uint16(size))
	default:
		header = make([]byte, 5)
		header[0] = 0xdb
		binary.BigEndian.PutUint32(header[1:], size)
	}
	if q.codecWrite(header) != len(header) {
		packFail("MsgQueue.PackStr")
	}
	if size > 0 && q.codecWrite([]byte(data)) != int(size) {
		packFail("MsgQueue.PackStr")
	}
}

// PackBin emits a MessagePack bin header followed by data.
func (q *Queue) PackBin(data []byte) {
	size := uint32(len(data))
	var header []byte
	switch {
	case size <= math.MaxUint8:
		header = []byte{0xc4, byte(size)}
	case size <= math.MaxUint16:
		header = make([]byte, 3)
		header[0] = 0xc5
		binary.BigEndian.PutUint16(header[1:], uint16(size))
	default:
		header = make([]byte, 5)
		header[0] = 0xc6
		binary.BigEndian.PutUint32(header[1:], size)
	}
	if q.codecWrite(header) != len(header) {
		packFail("MsgQueue.PackBin")
	}
	if size > 0 && q.codecWrite(data) != int(size) {
		packFail("MsgQueue.PackBin")
	}
}

// PackArray emits a MessagePack array header for size elements; the
// elements themselves are emitted by subsequent Pack* calls.
func (q *Queue) PackArray(size uint32) {
	var header []byte
	switch {
	case size <= 15:
		header = []byte{0x90 | byte(size)}
	case size <= math.MaxUint16:
		header = make([]byte, 3)
		header[0] = 0xdc
		binary.BigEndian.PutUint16(header[1:], uint16(size))
	default:
		header = make([]byte, 5)
		header[0] = 0xdd
		binary.BigEndian.PutUint32(header[1:], size)
	}
	if q.codecWrite(header) != len(header) {
		packFail("MsgQueue.PackArray")
	}
}

// PackMap emits a MessagePack map header for size key/value pairs.
func (q *Queue) PackMap(size uint32) {
	var header []byte
	switch {
	case size <= 15:
		header = []byte{0x80 | byte(size)}
	case size <= math.MaxUint16:
		header = make([]byte, 3)
		header[0] = 0xde
		binary.BigEndian.PutUint16(header[1:], uint16(size))
	default:
		header = make([]byte, 5)
		header[0] = 0xdf
		binary.BigEndian.PutUint32(header[1:], size)
	}
	if q.codecWrite(header) != len(header) {
		packFail("MsgQueue.PackMap")
	}
}
