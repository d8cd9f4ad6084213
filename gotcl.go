package gotcl

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dropbox/godropbox/errors"

	"github.com/gotcl/gotcl/tcl"
)

// Interpreter is a goroutine-safe front end over one thread-affine
// interpreter. The interpreter lives on its own locked OS thread; method
// calls from any goroutine are marshalled to that thread and run in order.
type Interpreter struct {
	in   *tcl.Interp
	work chan func()
	quit chan struct{}
	done chan struct{}
	stop sync.Once

	// ticker drives the event pump between queued calls. Touched only on
	// the interpreter thread.
	ticker *time.Ticker
}

// defaultEventPeriod spaces out event-queue drains while the pump runs.
const defaultEventPeriod = 10 * time.Millisecond

// New starts an interpreter on a fresh locked thread.
//
// init seeds it before New returns: a string is evaluated as a script, a
// func(*Interpreter) is called on the interpreter thread, and nil skips
// seeding. A failing init tears the interpreter down and is returned as the
// error.
func New(init any) (*Interpreter, error) {
	ir := &Interpreter{
		work: make(chan func()),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	ready := make(chan error)
	go ir.loop(ready, init)
	if err := <-ready; err != nil {
		return nil, err
	}
	return ir, nil
}

func (ir *Interpreter) loop(ready chan<- error, init any) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	in, err := tcl.New()
	if err != nil {
		ready <- err
		return
	}
	ir.in = in

	if err := ir.seed(init); err != nil {
		in.Close()
		ready <- err
		return
	}
	ready <- nil

	for {
		var tick <-chan time.Time
		if ir.ticker != nil {
			tick = ir.ticker.C
		}
		select {
		case <-ir.quit:
			if ir.ticker != nil {
				ir.ticker.Stop()
			}
			in.Close()
			close(ir.done)
			return
		case fn := <-ir.work:
			fn()
		case <-tick:
			in.DoEvents()
		}
	}
}

func (ir *Interpreter) seed(init any) error {
	switch v := init.(type) {
	case nil:
		return nil
	case string:
		_, err := ir.Eval(v)
		return err
	case func(*Interpreter):
		v(ir)
		return nil
	default:
		return errors.Newf("gotcl: unsupported init type %T", init)
	}
}

// do runs fn on the interpreter thread and waits for it. When the caller is
// already on that thread, fn runs in place, which keeps command callbacks
// free to call back into the interpreter.
func (ir *Interpreter) do(fn func() error) error {
	if ir.in.OnThread() {
		return fn()
	}
	errc := make(chan error, 1)
	select {
	case ir.work <- func() { errc <- fn() }:
	case <-ir.done:
		return errors.New("gotcl: interpreter is closed")
	}
	select {
	case err := <-errc:
		return err
	case <-ir.done:
		return errors.New("gotcl: interpreter is closed")
	}
}

// Close shuts the interpreter down. It is idempotent; queued calls that
// have not started yet fail with a closed-interpreter error.
func (ir *Interpreter) Close() {
	ir.stop.Do(func() { close(ir.quit) })
	<-ir.done
}

// Done is closed once the interpreter thread has shut down.
func (ir *Interpreter) Done() <-chan struct{} {
	return ir.done
}

// InitError returns the warning recorded when the library initialization
// scripts failed to run, or nil.
func (ir *Interpreter) InitError() error {
	var err error
	ir.do(func() error {
		err = ir.in.InitError()
		return nil
	})
	return err
}

// -----------------------------------------------------------------------------
// Evaluation
// -----------------------------------------------------------------------------

// evalOn evaluates script and leaves the result object extraction to get.
func (ir *Interpreter) evalOn(script string, get func() error) error {
	return ir.do(func() error {
		st, err := ir.in.EvalScript(script)
		if err != nil {
			return err
		}
		if st != tcl.StatusOK {
			res, rerr := ir.in.Result()
			if rerr != nil {
				return rerr
			}
			if st == tcl.StatusError {
				return &tcl.EvalError{Message: res.Text()}
			}
			return &tcl.UnexpectedStatusError{Status: st}
		}
		return get()
	})
}

// Eval evaluates a script and returns its result as a string. A script
// error comes back as *tcl.EvalError carrying the interpreter's message.
func (ir *Interpreter) Eval(script string) (string, error) {
	var out string
	err := ir.evalOn(script, func() error {
		res, err := ir.in.Result()
		if err != nil {
			return err
		}
		out = res.Text()
		return nil
	})
	return out, err
}

// EvalAsync queues a script for evaluation and returns without waiting for
// it. The script's status and result are discarded; use Eval or Catch when
// either matters.
func (ir *Interpreter) EvalAsync(script string) {
	fn := func() { ir.in.EvalScript(script) }
	if ir.in.OnThread() {
		fn()
		return
	}
	select {
	case ir.work <- fn:
	case <-ir.done:
	}
}

// EvalAsInt evaluates a script and converts the result to an integer.
func (ir *Interpreter) EvalAsInt(script string) (int64, error) {
	var out int64
	err := ir.evalOn(script, func() error {
		res, err := ir.in.Result()
		if err != nil {
			return err
		}
		out, err = ir.in.Int64(res)
		return err
	})
	return out, err
}

// EvalAsFloat evaluates a script and converts the result to a float.
func (ir *Interpreter) EvalAsFloat(script string) (float64, error) {
	var out float64
	err := ir.evalOn(script, func() error {
		res, err := ir.in.Result()
		if err != nil {
			return err
		}
		out, err = ir.in.Float64(res)
		return err
	})
	return out, err
}

// EvalAsBool evaluates a script and converts the result to a boolean.
func (ir *Interpreter) EvalAsBool(script string) (bool, error) {
	var out bool
	err := ir.evalOn(script, func() error {
		res, err := ir.in.Result()
		if err != nil {
			return err
		}
		out, err = ir.in.Bool(res)
		return err
	})
	return out, err
}

// EvalValue evaluates a script and decodes the result by its current
// representation: integer, float, boolean, byte array, list (recursively)
// or string.
func (ir *Interpreter) EvalValue(script string) (any, error) {
	var out any
	err := ir.evalOn(script, func() error {
		res, err := ir.in.Result()
		if err != nil {
			return err
		}
		out, err = ir.in.Value(res)
		return err
	})
	return out, err
}

// Catch evaluates a script and reports its completion status and result
// text without turning a script error into a Go error. Only bridge-level
// failures (closed interpreter, wrong thread) produce a non-nil error.
func (ir *Interpreter) Catch(script string) (tcl.Status, string, error) {
	var st tcl.Status
	var out string
	err := ir.do(func() error {
		var err error
		st, err = ir.in.EvalScript(script)
		if err != nil {
			return err
		}
		res, err := ir.in.Result()
		if err != nil {
			return err
		}
		out = res.Text()
		return nil
	})
	return st, out, err
}

// Opts is a set of -key value options for Call. Keys are emitted in sorted
// order so built commands are deterministic.
type Opts map[string]any

func (o Opts) pairs() []tcl.Opt {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	opts := make([]tcl.Opt, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, tcl.Opt{Key: k, Value: o[k]})
	}
	return opts
}

// Call builds a command from cmd and args and evaluates it as a single word
// vector, with no substitution pass over the arguments. A trailing Opts
// argument is expanded to sorted "-key value" pairs.
func (ir *Interpreter) Call(cmd string, args ...any) (string, error) {
	var opts []tcl.Opt
	if n := len(args); n > 0 {
		if o, ok := args[n-1].(Opts); ok {
			opts = o.pairs()
			args = args[:n-1]
		}
	}
	words := make([]any, 0, len(args)+1)
	words = append(words, cmd)
	words = append(words, args...)

	var out string
	err := ir.do(func() error {
		st, err := ir.in.EvalArgs(words, opts...)
		if err != nil {
			return err
		}
		res, rerr := ir.in.Result()
		if rerr != nil {
			return rerr
		}
		if st != tcl.StatusOK {
			if st == tcl.StatusError {
				return &tcl.EvalError{Message: res.Text()}
			}
			return &tcl.UnexpectedStatusError{Status: st}
		}
		out = res.Text()
		return nil
	})
	return out, err
}

// -----------------------------------------------------------------------------
// Variables
// -----------------------------------------------------------------------------

// Var reads a global variable and decodes it by its current representation.
// Array elements are addressed as "name(index)".
func (ir *Interpreter) Var(name string) (any, error) {
	var out any
	err := ir.do(func() error {
		obj, err := ir.in.GetVar(name, "")
		if err != nil {
			return err
		}
		out, err = ir.in.Value(obj)
		return err
	})
	return out, err
}

// SetVar sets a global variable. Array elements are addressed as
// "name(index)".
func (ir *Interpreter) SetVar(name string, value any) error {
	return ir.do(func() error {
		return ir.in.SetVar(name, "", value)
	})
}

// UnsetVar removes a global variable.
func (ir *Interpreter) UnsetVar(name string) error {
	return ir.do(func() error {
		return ir.in.UnsetVar(name, "")
	})
}

// VarExists reports whether a global variable exists.
func (ir *Interpreter) VarExists(name string) (bool, error) {
	var out bool
	err := ir.do(func() error {
		var err error
		out, err = ir.in.VarExists(name, "")
		return err
	})
	return out, err
}

// -----------------------------------------------------------------------------
// Event pump
// -----------------------------------------------------------------------------

// ResumeEvents starts draining the interpreter's event queue periodically,
// so "after" handlers and other queued events fire while no call is in
// flight. period <= 0 selects a default. Calling it while the pump already
// runs restarts it with the new period.
func (ir *Interpreter) ResumeEvents(period time.Duration) error {
	if period <= 0 {
		period = defaultEventPeriod
	}
	return ir.do(func() error {
		if ir.ticker != nil {
			ir.ticker.Stop()
		}
		ir.ticker = time.NewTicker(period)
		return nil
	})
}

// SuspendEvents stops the periodic event pump. It is idempotent.
func (ir *Interpreter) SuspendEvents() error {
	return ir.do(func() error {
		if ir.ticker != nil {
			ir.ticker.Stop()
			ir.ticker = nil
		}
		return nil
	})
}

// DoEvents drains the event queue once, without blocking, and returns the
// number of events processed.
func (ir *Interpreter) DoEvents() (int, error) {
	var n int
	err := ir.do(func() error {
		var err error
		n, err = ir.in.DoEvents()
		return err
	})
	return n, err
}
