package tcl

/*
#include "glue.h"
*/
import "C"

// DoEvents drains the calling thread's event queue without blocking and
// returns the number of events processed. Event queues are per-thread, so
// this is only meaningful on the interpreter's own thread; the usual
// affinity check applies.
func (in *Interp) DoEvents() (int, error) {
	if err := in.check(); err != nil {
		return 0, err
	}
	n := 0
	for C.Tcl_DoOneEvent(eventAllEvents|eventDontWait) != 0 {
		n++
	}
	return n, nil
}
