package tcl

/*
#include "glue.h"
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"sync"
)

// CommandFunc is a Go function exposed as an interpreter command. It
// receives the command name object and the argument objects, and returns a
// completion status together with a result value convertible by [NewObj].
// On StatusError the result value may be an error or a message string.
type CommandFunc func(in *Interp, cmd *Obj, args []*Obj) (Status, any)

// DefaultCommandPrefix names auto-generated commands. Each prefix carries
// its own process-wide counter, so generated names never repeat even across
// interpreters.
const DefaultCommandPrefix = "jl_callback"

var commandNames struct {
	sync.Mutex
	counters map[string]uint64
}

// nextCommandName returns prefix followed by a strictly increasing serial
// number, starting at 1 for each distinct prefix.
func nextCommandName(prefix string) string {
	commandNames.Lock()
	defer commandNames.Unlock()
	if commandNames.counters == nil {
		commandNames.counters = make(map[string]uint64)
	}
	commandNames.counters[prefix]++
	return fmt.Sprintf("%s%d", prefix, commandNames.counters[prefix])
}

// RegisterCommand exposes fn under name. An empty name picks a fresh
// auto-generated one; either way the effective name is returned. The
// closure is pinned through a cgo.Handle for the lifetime of the command
// and unpinned by the delete hook when the interpreter drops it, including
// on redefinition.
func (in *Interp) RegisterCommand(name string, fn CommandFunc) (string, error) {
	if err := in.check(); err != nil {
		return "", err
	}
	if fn == nil {
		return "", &NullError{Kind: "command function"}
	}
	if name == "" {
		name = nextCommandName(DefaultCommandPrefix)
	}
	h := cgo.NewHandle(fn)
	cname := C.CString(name)
	defer cFree(cname)
	if C.gotclCreateCommand(in.c, cname, C.uintptr_t(h)) == nil {
		h.Delete()
		return "", &InterpError{Op: "register", Message: in.resultText()}
	}
	return name, nil
}

// DeleteCommand removes a previously registered command. The registered
// delete hook fires during removal and unpins the binding.
func (in *Interp) DeleteCommand(name string) error {
	if err := in.check(); err != nil {
		return err
	}
	cname := C.CString(name)
	defer cFree(cname)
	if C.Tcl_DeleteCommand(in.c, cname) != 0 {
		return &InterpError{Op: "delete", Message: "no command named " + name}
	}
	return nil
}
