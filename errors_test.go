package heliogo

import (
	"errors"
	"testing"
)

func TestStructuredError(t *testing.T) {
	err := NewError("Allocate", CodeOutOfMemory, "no fitting free run")

	if err.Op != "Allocate" {
		t.Errorf("Expected Op=Allocate, got %s", err.Op)
	}
	if err.Code != CodeOutOfMemory {
		t.Errorf("Expected Code=CodeOutOfMemory, got %s", err.Code)
	}

	expected := "heliogo: no fitting free run (op=Allocate)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestTaskError(t *testing.T) {
	err := NewTaskError("DeleteTask", 7, CodeSchedulerRunning, "scheduler running")
	if err.TaskID != 7 {
		t.Errorf("Expected TaskID=7, got %d", err.TaskID)
	}
	expected := "heliogo: scheduler running (op=DeleteTask)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}
}

func TestWrapErrorPreservesCode(t *testing.T) {
	inner := NewError("Allocate", CodeCorruptHeap, "integrity check failed")
	wrapped := WrapError("CreateTask", inner)

	if wrapped.Code != CodeCorruptHeap {
		t.Errorf("Expected Code=CodeCorruptHeap, got %s", wrapped.Code)
	}
	if wrapped.Op != "CreateTask" {
		t.Errorf("Expected Op=CreateTask, got %s", wrapped.Op)
	}
}

func TestWrapErrorOnPlainError(t *testing.T) {
	wrapped := WrapError("Send", errors.New("boom"))
	if wrapped.Code != CodeInvalidArgument {
		t.Errorf("Expected Code=CodeInvalidArgument for an unrecognized error, got %s", wrapped.Code)
	}
}

func TestWrapErrorNilIsNil(t *testing.T) {
	if WrapError("Noop", nil) != nil {
		t.Error("WrapError(_, nil) must return nil")
	}
}

func TestErrorIsComparesByCode(t *testing.T) {
	a := &Error{Code: CodeNotFound}
	b := &Error{Op: "different", Code: CodeNotFound}
	if !errors.Is(a, b) {
		t.Error("two *Error values with the same Code must satisfy errors.Is")
	}
}

func TestIsCode(t *testing.T) {
	err := NewError("Receive", CodeQueueFull, "queue at its limit")

	if !IsCode(err, CodeQueueFull) {
		t.Error("IsCode should return true for matching code")
	}
	if IsCode(err, CodeNotFound) {
		t.Error("IsCode should return false for non-matching code")
	}
	if IsCode(nil, CodeQueueFull) {
		t.Error("IsCode should return false for nil error")
	}
}
