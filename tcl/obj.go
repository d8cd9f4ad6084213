package tcl

/*
#include "glue.h"
*/
import "C"

// Obj wraps a reference-counted Tcl object pointer.
//
// The wrapper itself holds no reference; use [Obj.Preserve] and [Obj.Release]
// directly, or a [Ref] guard for scoped keep-alive. A nil pointer is
// permitted and represents an absent object; it is never reference-counted.
//
// Ownership conventions are centralized here and in the conversion layer:
// entry points that take ownership of the passed reference (setting the
// interpreter result, the eval family) must not be bracketed with
// Preserve/Release by their callers, while objects kept alive across several
// C calls must be. [NewRef] is the structural way to get the latter right.
type Obj struct {
	ptr *C.Tcl_Obj
}

// IsNil reports whether the wrapper holds no object.
func (o *Obj) IsNil() bool { return o == nil || o.ptr == nil }

// Preserve increments the object's reference count and returns o.
func (o *Obj) Preserve() *Obj {
	if o.IsNil() {
		return o
	}
	C.gotclIncrRef(o.ptr)
	return o
}

// Release decrements the reference count and returns the count after the
// decrement. Once the count reaches zero the C library frees the object;
// the pointer must not be used afterwards.
func (o *Obj) Release() int {
	if o.IsNil() {
		return 0
	}
	return int(C.gotclDecrRef(o.ptr))
}

// RefCount returns the object's current reference count.
func (o *Obj) RefCount() int {
	if o.IsNil() {
		return 0
	}
	return int(C.gotclRefCount(o.ptr))
}

// Shared reports whether the object is referenced from more than one place.
// Shared objects must not be mutated in place.
func (o *Obj) Shared() bool { return o.RefCount() > 1 }

// TypeName returns the tag of the object's current internal representation
// ("int", "double", "list", ...), or the empty string for a pure string
// object.
func (o *Obj) TypeName() string {
	if o.IsNil() {
		return ""
	}
	name := C.gotclTypeName(o.ptr)
	if name == nil {
		return ""
	}
	return C.GoString(name)
}

// Text returns the object's string representation. The conversion goes
// through the length-explicit accessor, so embedded NUL bytes survive.
func (o *Obj) Text() string {
	if o.IsNil() {
		return ""
	}
	var n C.int
	p := C.Tcl_GetStringFromObj(o.ptr, &n)
	return C.GoStringN(p, n)
}

// Ref holds one reference to an object for a lexical scope.
//
// It increments on construction and releases exactly once, making
//
//	ref := tcl.NewRef(obj)
//	defer ref.Close()
//
// safe on every path including errors. Close is idempotent.
type Ref struct {
	obj  *Obj
	done bool
}

// NewRef takes a reference to obj and returns the guard holding it.
func NewRef(obj *Obj) *Ref {
	obj.Preserve()
	return &Ref{obj: obj}
}

// Obj returns the guarded object.
func (r *Ref) Obj() *Obj { return r.obj }

// Close releases the guard's reference. Subsequent calls do nothing.
func (r *Ref) Close() {
	if r == nil || r.done {
		return
	}
	r.done = true
	r.obj.Release()
}
