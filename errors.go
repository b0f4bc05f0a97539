package ert

import (
	"syscall"

	"github.com/lattice-rt/ert/internal/core"
)

// Error, ErrCode and the Fatal helpers live in internal/core so that
// internal/trigger, internal/msgqueue, internal/worker and
// internal/sigthread can use them without importing this root package
// (which itself imports all of them) and creating a cycle. These are
// thin aliases re-exporting that leaf package's API under its original
// name for every caller of this module.
type Error = core.Error
type ErrCode = core.ErrCode

const (
	ErrCodeAllocationFailure  = core.ErrCodeAllocationFailure
	ErrCodeOversizedMessage   = core.ErrCodeOversizedMessage
	ErrCodeShortTransfer      = core.ErrCodeShortTransfer
	ErrCodeUnregisteredWorker = core.ErrCodeUnregisteredWorker
	ErrCodeHandlerOutOfRange  = core.ErrCodeHandlerOutOfRange
	ErrCodeBorrowedMutation   = core.ErrCodeBorrowedMutation
	ErrCodeCodecFailure       = core.ErrCodeCodecFailure
	ErrCodeTriggerFDUnset     = core.ErrCodeTriggerFDUnset
	ErrCodeIOError            = core.ErrCodeIOError
	ErrCodeTimeout            = core.ErrCodeTimeout
)

// NewError creates a new structured error.
func NewError(op string, code ErrCode, msg string) *Error {
	return core.NewError(op, code, msg)
}

// NewErrorWithErrno creates a new structured error carrying an errno.
func NewErrorWithErrno(op string, code ErrCode, errno syscall.Errno) *Error {
	return core.NewErrorWithErrno(op, code, errno)
}

// WrapError wraps an existing error with ert context, mapping syscall.Errno
// to an ErrCode where possible.
func WrapError(op string, inner error) *Error {
	return core.WrapError(op, inner)
}

// IsCode reports whether err is an *Error carrying the given code.
func IsCode(err error, code ErrCode) bool {
	return core.IsCode(err, code)
}

// Fatal logs a diagnostic to stderr and aborts the process. It is the Go
// analogue of the original C code's fprintf(stderr, ...); exit(1) pattern,
// used for the taxonomy's "programmer error" row: mutating a borrowed
// buffer, an oversized MsgQueue message, an out-of-range worker/handler id,
// a short trigger read/write, or a codec failure inside a reserved write
// window. None of these are recoverable by the caller.
func Fatal(op, msg string) {
	core.Fatal(op, msg)
}

// Fatalf is Fatal with printf-style formatting for msg.
func Fatalf(op, format string, args ...any) {
	core.Fatalf(op, format, args...)
}
