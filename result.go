package gotcl

import (
	"github.com/dropbox/godropbox/errors"

	"github.com/gotcl/gotcl/tcl"
)

// Result is what a registered command hands back to the interpreter: a
// completion status plus a value the interpreter can represent. On
// StatusError the value is usually an error or a message string.
type Result struct {
	Status tcl.Status
	Value  any
}

// OK builds a successful result around v. v may be nil to leave the
// interpreter's result empty.
func OK(v any) Result {
	return Result{Status: tcl.StatusOK, Value: v}
}

// Error builds a failed result around err.
func Error(err error) Result {
	return Result{Status: tcl.StatusError, Value: err}
}

// Errorf builds a failed result from a format string.
func Errorf(format string, args ...any) Result {
	return Result{Status: tcl.StatusError, Value: errors.Newf(format, args...)}
}

// CommandFunc is a Go function exposed as an interpreter command through
// [Interpreter.RegisterCommand]. The arguments arrive already decoded by
// their current representation; cmd is the name the script invoked.
type CommandFunc func(ir *Interpreter, cmd string, args []any) Result

// RegisterCommand exposes fn under name. An empty name picks a fresh
// auto-generated one; the effective name is returned either way. fn runs on
// the interpreter thread and may call back into ir freely.
func (ir *Interpreter) RegisterCommand(name string, fn CommandFunc) (string, error) {
	if fn == nil {
		return "", errors.New("gotcl: nil command function")
	}
	err := ir.do(func() error {
		var err error
		name, err = ir.in.RegisterCommand(name, func(in *tcl.Interp, cmd *tcl.Obj, objs []*tcl.Obj) (tcl.Status, any) {
			args := make([]any, 0, len(objs))
			for _, o := range objs {
				v, err := in.Value(o)
				if err != nil {
					return tcl.StatusError, err
				}
				args = append(args, v)
			}
			r := fn(ir, cmd.Text(), args)
			return r.Status, r.Value
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// Register exposes a plain Go function under name. Arguments are converted
// to the function's parameter types; a trailing error result turns into a
// script error, and remaining results become the command's result (several
// of them form a list). See [Interpreter.RegisterCommand] for naming.
func (ir *Interpreter) Register(name string, fn any) (string, error) {
	wrapped, err := wrapFunc(fn)
	if err != nil {
		return "", err
	}
	return ir.RegisterCommand(name, wrapped)
}

// DeleteCommand removes a previously registered command.
func (ir *Interpreter) DeleteCommand(name string) error {
	return ir.do(func() error {
		return ir.in.DeleteCommand(name)
	})
}
