package tcl

/*
#include "glue.h"
*/
import "C"

import (
	"unsafe"
)

// Interp wraps a foreign interpreter pointer together with the identity of
// the thread that created it.
//
// All methods fail fast with *ThreadError when called from any other thread,
// and with *NullError after Close. Interp is created by [New] or obtained
// from the per-thread cache via [Shared].
type Interp struct {
	c      *C.Tcl_Interp
	thread C.Tcl_ThreadId

	// initErr records a failed Tcl_Init. Initialization failure is a
	// warning: the interpreter stays usable for plain evaluation even when
	// the init scripts (library path discovery) did not run.
	initErr error
}

// New creates a fresh interpreter and runs the library initialization
// scripts in it.
//
// A nil pointer from the C library is fatal and reported as *InterpError.
// A failing Tcl_Init is not: the error is retained and available from
// [Interp.InitError], and the interpreter is returned anyway.
func New() (*Interp, error) {
	p := C.Tcl_CreateInterp()
	if p == nil {
		return nil, &InterpError{Op: "create", Message: "Tcl_CreateInterp returned a null pointer"}
	}
	C.Tcl_Preserve(C.ClientData(unsafe.Pointer(p)))
	in := &Interp{c: p, thread: C.Tcl_GetCurrentThread()}
	if C.Tcl_Init(p) != C.TCL_OK {
		in.initErr = &InterpError{Op: "init", Message: in.resultText()}
	}
	return in, nil
}

// InitError returns the warning recorded when Tcl_Init failed during [New],
// or nil.
func (in *Interp) InitError() error {
	if in == nil {
		return nil
	}
	return in.initErr
}

// check validates the calling thread and the pointer before any operation
// that dereferences the interpreter. The thread comparison comes first: the
// thread field is immutable, while c is written by Close on the owning
// thread, so a wrong-thread caller must bounce off before touching c.
func (in *Interp) check() error {
	if in == nil {
		return &NullError{Kind: "interpreter"}
	}
	if tid := C.Tcl_GetCurrentThread(); tid != in.thread {
		return &ThreadError{
			Created: uintptr(unsafe.Pointer(in.thread)),
			Caller:  uintptr(unsafe.Pointer(tid)),
		}
	}
	if in.c == nil {
		return &NullError{Kind: "interpreter"}
	}
	return nil
}

// OnThread reports whether the caller is running on the interpreter's
// creating thread. It reads only the immutable thread identity, so it is
// safe from any goroutine at any time, including concurrently with Close;
// it keeps answering true after Close, where the per-operation pointer
// check takes over.
func (in *Interp) OnThread() bool {
	return in != nil && C.Tcl_GetCurrentThread() == in.thread
}

// Close destroys the interpreter. It is idempotent; the pointer is nulled
// before the delete/release sequence so a double free is impossible.
// Closing from the wrong thread is reported, not ignored.
func (in *Interp) Close() error {
	if in == nil {
		return nil
	}
	if tid := C.Tcl_GetCurrentThread(); tid != in.thread {
		return &ThreadError{
			Created: uintptr(unsafe.Pointer(in.thread)),
			Caller:  uintptr(unsafe.Pointer(tid)),
		}
	}
	if in.c == nil {
		return nil
	}
	p := in.c
	in.c = nil
	C.Tcl_DeleteInterp(p)
	C.Tcl_Release(C.ClientData(unsafe.Pointer(p)))
	return nil
}

// resultText reads the interpreter's current string result without any
// affinity checking; callers have already validated the handle.
func (in *Interp) resultText() string {
	var n C.int
	p := C.Tcl_GetStringFromObj(C.Tcl_GetObjResult(in.c), &n)
	return C.GoStringN(p, n)
}

// Result returns the interpreter's current result object.
func (in *Interp) Result() (*Obj, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	return &Obj{ptr: C.Tcl_GetObjResult(in.c)}, nil
}

// SetResult installs obj as the interpreter's result. The C library takes
// its own reference to the passed object; callers must not pair an extra
// Preserve/Release around a temporary passed here.
func (in *Interp) SetResult(obj *Obj) error {
	if err := in.check(); err != nil {
		return err
	}
	if obj.IsNil() {
		return &NullError{Kind: "object"}
	}
	C.Tcl_SetObjResult(in.c, obj.ptr)
	return nil
}

// SetResultString installs s as the interpreter's result.
func (in *Interp) SetResultString(s string) error {
	if err := in.check(); err != nil {
		return err
	}
	C.Tcl_SetObjResult(in.c, newStringObj(s))
	return nil
}

// -----------------------------------------------------------------------------
// Evaluation
// -----------------------------------------------------------------------------

// EvalScript evaluates a script string.
//
// The script goes through the length-explicit entry point with global-scope
// and direct (uncompiled) execution requested, which suits one-shot scripts;
// embedded NUL bytes in the script are preserved.
func (in *Interp) EvalScript(script string) (Status, error) {
	if err := in.check(); err != nil {
		return StatusError, err
	}
	p, n := strData(script)
	return Status(C.Tcl_EvalEx(in.c, p, n, evalGlobal|evalDirect)), nil
}

// EvalObj evaluates an already-built command object.
//
// A list object is taken apart and evaluated as a word vector, which skips a
// pointless list-to-string-to-list round trip; anything else is evaluated
// whole. Objects nobody owns yet (reference count below one) are evaluated
// directly since compiling a throwaway script is wasted effort.
func (in *Interp) EvalObj(obj *Obj) (Status, error) {
	if err := in.check(); err != nil {
		return StatusError, err
	}
	if obj.IsNil() {
		return StatusError, &NullError{Kind: "object"}
	}
	flags := C.int(evalGlobal)
	if obj.RefCount() < 1 {
		flags |= evalDirect
	}
	if obj.TypeName() == "list" {
		// Tcl_EvalObjv takes no reference of its own, unlike Tcl_EvalObjEx
		// below, so hold one here: it keeps the element vector alive through
		// the call and frees an unowned temporary afterwards.
		ref := NewRef(obj)
		defer ref.Close()
		var objc C.int
		var objv **C.Tcl_Obj
		if C.Tcl_ListObjGetElements(in.c, obj.ptr, &objc, &objv) != C.TCL_OK {
			return StatusError, nil
		}
		// Tcl_EvalObjv only understands the global flag.
		return Status(C.Tcl_EvalObjv(in.c, objc, objv, evalGlobal)), nil
	}
	return Status(C.Tcl_EvalObjEx(in.c, obj.ptr, flags)), nil
}

// Opt is a -key value option pair appended to a command built by EvalArgs.
type Opt struct {
	Key   string
	Value any
}

// BuildCommand concatenates positional arguments and option pairs into a
// single list object: the arguments in order, then "-key value" for each
// option. The returned object has a reference count of zero.
func (in *Interp) BuildCommand(args []any, opts []Opt) (*Obj, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	items := make([]any, 0, len(args)+2*len(opts))
	items = append(items, args...)
	for _, opt := range opts {
		items = append(items, "-"+opt.Key, opt.Value)
	}
	return NewListObj(items...)
}

// EvalArgs builds one command from the arguments and option pairs and
// evaluates it. The temporary list is held through a reference guard for
// the duration of the call, released on every path.
func (in *Interp) EvalArgs(args []any, opts ...Opt) (Status, error) {
	cmd, err := in.BuildCommand(args, opts)
	if err != nil {
		return StatusError, err
	}
	ref := NewRef(cmd)
	defer ref.Close()
	return in.EvalObj(cmd)
}

// -----------------------------------------------------------------------------
// Variables
// -----------------------------------------------------------------------------

// varParts builds the one- or two-part variable name objects. index may be
// empty for a scalar variable.
func varParts(name, index string) (*Obj, *Obj) {
	part1 := &Obj{ptr: newStringObj(name)}
	var part2 *Obj
	if index != "" {
		part2 = &Obj{ptr: newStringObj(index)}
	}
	return part1, part2
}

// SetVar sets a global variable, or an array element when index is
// non-empty. The object-based accessor is used throughout so names and
// values containing NUL bytes are stored intact.
func (in *Interp) SetVar(name, index string, value any) error {
	if err := in.check(); err != nil {
		return err
	}
	val, err := NewObj(value)
	if err != nil {
		return err
	}
	part1, part2 := varParts(name, index)
	r1 := NewRef(part1)
	defer r1.Close()
	rv := NewRef(val)
	defer rv.Close()
	var p2 *C.Tcl_Obj
	if part2 != nil {
		r2 := NewRef(part2)
		defer r2.Close()
		p2 = part2.ptr
	}
	if C.Tcl_ObjSetVar2(in.c, part1.ptr, p2, val.ptr, varGlobalOnly|varLeaveErrMsg) == nil {
		return &EvalError{Message: in.resultText()}
	}
	return nil
}

// GetVar reads a global variable, or an array element when index is
// non-empty.
func (in *Interp) GetVar(name, index string) (*Obj, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	part1, part2 := varParts(name, index)
	r1 := NewRef(part1)
	defer r1.Close()
	var p2 *C.Tcl_Obj
	if part2 != nil {
		r2 := NewRef(part2)
		defer r2.Close()
		p2 = part2.ptr
	}
	p := C.Tcl_ObjGetVar2(in.c, part1.ptr, p2, varGlobalOnly|varLeaveErrMsg)
	if p == nil {
		return nil, &EvalError{Message: in.resultText()}
	}
	return &Obj{ptr: p}, nil
}

// VarExists reports whether a global variable (or array element) exists.
func (in *Interp) VarExists(name, index string) (bool, error) {
	if err := in.check(); err != nil {
		return false, err
	}
	part1, part2 := varParts(name, index)
	r1 := NewRef(part1)
	defer r1.Close()
	var p2 *C.Tcl_Obj
	if part2 != nil {
		r2 := NewRef(part2)
		defer r2.Close()
		p2 = part2.ptr
	}
	return C.Tcl_ObjGetVar2(in.c, part1.ptr, p2, varGlobalOnly) != nil, nil
}

// UnsetVar removes a global variable, or an array element when index is
// non-empty.
func (in *Interp) UnsetVar(name, index string) error {
	if err := in.check(); err != nil {
		return err
	}
	cname := C.CString(name)
	defer cFree(cname)
	var cindex *C.char
	if index != "" {
		cindex = C.CString(index)
		defer cFree(cindex)
	}
	if C.Tcl_UnsetVar2(in.c, cname, cindex, varGlobalOnly|varLeaveErrMsg) != C.TCL_OK {
		return &EvalError{Message: in.resultText()}
	}
	return nil
}
