// Package tcl is the low-level binding to the Tcl C library.
//
// Everything in this package is thread-affine: an [Interp] may only be used
// from the OS thread that created it, because the C library is not
// thread-safe for a single interpreter. The gotcl root package provides a
// goroutine-safe front end on top of this one.
package tcl

/*
#cgo CFLAGS: -I/usr/include/tcl8.6
#cgo LDFLAGS: -ltcl8.6

#include <stdlib.h>
#include "glue.h"
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// Status is a Tcl completion code.
//
// Every evaluation operation produces one. Only OK and Error are meaningful
// at the top level; Return, Break and Continue belong inside loop and
// procedure control flow, and seeing one there is itself an error condition.
type Status int

// Completion codes matching the TCL_* result constants.
const (
	StatusOK       Status = C.TCL_OK
	StatusError    Status = C.TCL_ERROR
	StatusReturn   Status = C.TCL_RETURN
	StatusBreak    Status = C.TCL_BREAK
	StatusContinue Status = C.TCL_CONTINUE
)

// String returns the name of the status code.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusReturn:
		return "return"
	case StatusBreak:
		return "break"
	case StatusContinue:
		return "continue"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Evaluation flags.
const (
	evalGlobal = C.TCL_EVAL_GLOBAL
	evalDirect = C.TCL_EVAL_DIRECT
)

// Variable access flags.
const (
	varGlobalOnly  = C.TCL_GLOBAL_ONLY
	varLeaveErrMsg = C.TCL_LEAVE_ERR_MSG
)

// Event loop flags.
const (
	eventDontWait  = C.TCL_DONT_WAIT
	eventAllEvents = C.TCL_ALL_EVENTS
)

func init() {
	// The refcount accessors peek at the first field of the object struct;
	// validate the declared ABI layout once instead of trusting it.
	if off := C.gotclRefCountOffset(); off != 0 {
		panic(fmt.Sprintf("tcl: Tcl_Obj refCount at offset %d, want 0", off))
	}
}

// cFree releases a C string allocated with C.CString.
func cFree(p *C.char) {
	C.free(unsafe.Pointer(p))
}

// CommandComplete reports whether script is a syntactically complete Tcl
// command, i.e. has no unclosed braces, brackets or quotes. Useful for REPLs
// that accumulate multi-line input.
func CommandComplete(script string) bool {
	cs := C.CString(script)
	defer cFree(cs)
	return C.Tcl_CommandComplete(cs) != 0
}
