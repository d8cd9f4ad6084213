// Package gotcl embeds a Tcl interpreter in a Go program.
//
// The interpreter itself is thread-affine: the C library ties every
// interpreter to the OS thread that created it. Package gotcl hides that
// constraint behind an [Interpreter] that owns a locked OS thread and a work
// queue; any goroutine may call its methods, and each call runs to
// completion on the interpreter's thread before returning. Calls made from
// inside a registered command run directly, so commands may evaluate
// scripts reentrantly.
//
// The low-level, thread-affine surface lives in the tcl subpackage. Use it
// directly when you already manage thread placement yourself; use this
// package otherwise.
//
//	ir, err := gotcl.New(nil)
//	if err != nil { ... }
//	defer ir.Close()
//	out, err := ir.Eval("expr {6 * 7}")
package gotcl
