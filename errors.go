package heliogo

import (
	"errors"
	"fmt"
)

// Code is a high-level error category (spec §7 "Error handling design").
type Code string

const (
	// CodeInvalidArgument covers a null pointer, zero size, or an
	// out-of-range limit passed to a public operation.
	CodeInvalidArgument Code = "invalid argument"
	// CodeNotFound covers a handle not present in the task registry, or an
	// address not resolving to a live entry in a heap region.
	CodeNotFound Code = "not found"
	// CodeSchedulerRunning covers create_task/delete_task invoked while
	// the scheduler owns the single flow of execution.
	CodeSchedulerRunning Code = "scheduler running"
	// CodeSlotFull covers notify_give into an already-full slot.
	CodeSlotFull Code = "notification slot full"
	// CodeQueueFull covers send into a queue at its limit.
	CodeQueueFull Code = "queue full"
	// CodeOutOfMemory covers an allocate call that found no fitting free
	// run.
	CodeOutOfMemory Code = "out of memory"
	// CodeCorruptHeap covers a latched integrity-check failure; the
	// region refuses further allocations for the process lifetime.
	CodeCorruptHeap Code = "corrupt heap"
	// CodeWatchdogExpired covers a dispatch the per-task watchdog forced
	// into Suspended; observed only by querying state, never returned
	// synchronously, but present in the taxonomy for completeness.
	CodeWatchdogExpired Code = "watchdog expired"
)

// Error is heliogo's structured error type, returned by the handful of
// public operations that surface a reason rather than a bare bool (spec §7
// notes most operations just return nil/false/zero; Error exists for
// callers — notably cmd/heliosim and the test suite — that want the
// category without re-deriving it from a bool).
type Error struct {
	Op     string // operation that failed, e.g. "CreateTask", "Allocate"
	TaskID uint32 // task id, 0 if not applicable
	Code   Code
	Msg    string
	Inner  error
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.TaskID != 0 {
		parts = append(parts, fmt.Sprintf("task=%d", e.TaskID))
	}

	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if len(parts) > 0 {
		return fmt.Sprintf("heliogo: %s (%s)", msg, parts[0])
	}
	return fmt.Sprintf("heliogo: %s", msg)
}

func (e *Error) Unwrap() error {
	return e.Inner
}

func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewError constructs a structured Error.
func NewError(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg}
}

// NewTaskError constructs a structured Error scoped to a task id.
func NewTaskError(op string, taskID uint32, code Code, msg string) *Error {
	return &Error{Op: op, TaskID: taskID, Code: code, Msg: msg}
}

// WrapError wraps inner with operation context, preserving its Code if it
// is already a *Error.
func WrapError(op string, inner error) *Error {
	if inner == nil {
		return nil
	}
	if e, ok := inner.(*Error); ok {
		return &Error{Op: op, TaskID: e.TaskID, Code: e.Code, Msg: e.Msg, Inner: e.Inner}
	}
	return &Error{Op: op, Code: CodeInvalidArgument, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is a *Error (directly or via Unwrap) carrying
// code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
