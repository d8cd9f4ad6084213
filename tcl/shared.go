package tcl

/*
#include "glue.h"
*/
import "C"

import "sync"

// Interpreters are thread-affine, but distinct threads can each keep one
// around. sharedInterps maps a thread identity to the interpreter lazily
// created for it by Shared.
var sharedInterps struct {
	sync.Mutex
	byThread map[C.Tcl_ThreadId]*Interp
}

// Shared returns the calling thread's shared interpreter, creating and
// caching it on first use. The caller must be locked to its OS thread for
// the returned value to stay valid across calls.
func Shared() (*Interp, error) {
	tid := C.Tcl_GetCurrentThread()
	sharedInterps.Lock()
	defer sharedInterps.Unlock()
	if in, ok := sharedInterps.byThread[tid]; ok && in.c != nil {
		return in, nil
	}
	in, err := New()
	if err != nil {
		return nil, err
	}
	if sharedInterps.byThread == nil {
		sharedInterps.byThread = make(map[C.Tcl_ThreadId]*Interp)
	}
	sharedInterps.byThread[tid] = in
	return in, nil
}

// CloseShared destroys the calling thread's shared interpreter, if any. A
// later Shared call on the same thread creates a fresh one.
func CloseShared() error {
	tid := C.Tcl_GetCurrentThread()
	sharedInterps.Lock()
	in, ok := sharedInterps.byThread[tid]
	if ok {
		delete(sharedInterps.byThread, tid)
	}
	sharedInterps.Unlock()
	if !ok {
		return nil
	}
	return in.Close()
}
