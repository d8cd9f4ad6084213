package tcl

import "fmt"

// InterpError reports a failure to create or initialize an interpreter, or a
// failed command registration.
type InterpError struct {
	Op      string // "create", "init", "register", ...
	Message string
}

func (e *InterpError) Error() string {
	if e.Message == "" {
		return "tcl: interpreter " + e.Op + " failed"
	}
	return "tcl: interpreter " + e.Op + " failed: " + e.Message
}

// EvalError reports an evaluation that completed with status Error. Message
// is the interpreter's string result at the time of the failure.
type EvalError struct {
	Message string
}

func (e *EvalError) Error() string { return e.Message }

// UnexpectedStatusError reports a completion code other than OK or Error seen
// by a top-level caller. Return, Break and Continue are only meaningful
// inside loop or procedure control flow.
type UnexpectedStatusError struct {
	Status Status
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("tcl: unexpected completion code %q (%d)", e.Status, int(e.Status))
}

// ConversionError reports a host value that could not be represented as a
// Tcl object, or a Tcl object that could not be converted to the requested
// host type.
type ConversionError struct {
	Type   string // the offending host or Tcl type
	Reason string
}

func (e *ConversionError) Error() string {
	if e.Reason == "" {
		return "tcl: cannot convert " + e.Type
	}
	return "tcl: cannot convert " + e.Type + ": " + e.Reason
}

// NullError reports a nil interpreter or object pointer where a valid one is
// required.
type NullError struct {
	Kind string // "interpreter" or "object"
}

func (e *NullError) Error() string { return "tcl: nil " + e.Kind + " pointer" }

// ThreadError reports use of an interpreter from a thread other than the one
// that created it. This is a programming error, not a recoverable condition.
type ThreadError struct {
	Created uintptr
	Caller  uintptr
}

func (e *ThreadError) Error() string {
	return fmt.Sprintf("tcl: interpreter created on thread %#x used from thread %#x", e.Created, e.Caller)
}
