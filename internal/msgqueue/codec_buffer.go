package msgqueue

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// SignalEvent is the decoded form of the ["signal", [signum, sender_pid]]
// envelope the signal thread packs into the ring.
type SignalEvent struct {
	Signum    int32
	SenderPID int32
}

// EncodeSignalEvent returns the MessagePack encoding of ev using the
// buffer-backed codec path (see codec.go's doc comment for why this
// differs from the ring-direct Pack* methods). It exists mainly to give
// tests a reference encoding to compare the bespoke ring writer against.
func EncodeSignalEvent(ev SignalEvent) ([]byte, error) {
	return msgpack.Marshal([]any{"signal", []any{ev.Signum, ev.SenderPID}})
}

// DecodeSignalEvent decodes a complete, already-dequeued MessagePack blob
// into a SignalEvent. Unlike the ring-direct packers, this drives a real
// MessagePack decoder: buffering ahead inside an in-memory slice that
// already holds the whole message is harmless, since there is no ring
// position left to desynchronize.
func DecodeSignalEvent(data []byte) (SignalEvent, error) {
	var envelope []any
	if err := msgpack.Unmarshal(data, &envelope); err != nil {
		return SignalEvent{}, fmt.Errorf("msgqueue: decode signal envelope: %w", err)
	}
	if len(envelope) != 2 {
		return SignalEvent{}, fmt.Errorf("msgqueue: signal envelope has %d elements, want 2", len(envelope))
	}
	tag, ok := envelope[0].(string)
	if !ok || tag != "signal" {
		return SignalEvent{}, fmt.Errorf("msgqueue: signal envelope tag = %v, want \"signal\"", envelope[0])
	}
	pair, ok := envelope[1].([]any)
	if !ok || len(pair) != 2 {
		return SignalEvent{}, fmt.Errorf("msgqueue: signal envelope payload malformed: %v", envelope[1])
	}
	signum, err := toInt32(pair[0])
	if err != nil {
		return SignalEvent{}, fmt.Errorf("msgqueue: signal envelope signum: %w", err)
	}
	pid, err := toInt32(pair[1])
	if err != nil {
		return SignalEvent{}, fmt.Errorf("msgqueue: signal envelope sender_pid: %w", err)
	}
	return SignalEvent{Signum: signum, SenderPID: pid}, nil
}

func toInt32(v any) (int32, error) {
	switch n := v.(type) {
	case int8:
		return int32(n), nil
	case int16:
		return int32(n), nil
	case int32:
		return n, nil
	case int64:
		return int32(n), nil
	case int:
		return int32(n), nil
	case uint8:
		return int32(n), nil
	case uint16:
		return int32(n), nil
	case uint32:
		return int32(n), nil
	case uint64:
		return int32(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
