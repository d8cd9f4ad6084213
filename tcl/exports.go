package tcl

/*
#include "glue.h"
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"unsafe"
)

// callbackErrorMarker prefixes the interpreter-visible message whenever a
// registered Go function panics, so script-side error handlers can tell a
// bridge failure from an ordinary script error.
const callbackErrorMarker = "(callback error) "

//export goCommandInvoke
func goCommandInvoke(handle C.uintptr_t, interp *C.Tcl_Interp, objc C.int, objv **C.Tcl_Obj) (code C.int) {
	fn := cgo.Handle(handle).Value().(CommandFunc)

	// The invocation always arrives on the interpreter's own thread, so a
	// stack-local view of it is enough; no lookup table needed.
	in := &Interp{c: interp, thread: C.Tcl_GetCurrentThread()}

	words := unsafe.Slice(objv, int(objc))
	cmd := &Obj{ptr: words[0]}
	args := make([]*Obj, 0, int(objc)-1)
	for _, w := range words[1:] {
		args = append(args, &Obj{ptr: w})
	}

	defer func() {
		if r := recover(); r != nil {
			in.SetResultString(callbackErrorMarker + fmt.Sprint(r))
			code = C.int(StatusError)
		}
	}()

	status, value := fn(in, cmd, args)
	switch v := value.(type) {
	case nil:
	case error:
		in.SetResultString(v.Error())
		if status == StatusOK {
			status = StatusError
		}
	default:
		obj, err := NewObj(v)
		if err != nil {
			in.SetResultString(callbackErrorMarker + err.Error())
			return C.int(StatusError)
		}
		in.SetResult(obj)
	}
	return C.int(status)
}

//export goCommandDelete
func goCommandDelete(handle C.uintptr_t) {
	cgo.Handle(handle).Delete()
}
