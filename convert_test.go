package gotcl

import (
	"errors"
	"strings"
	"testing"
)

func TestRegisterPlainFunc(t *testing.T) {
	ir := newTestInterpreter(t, nil)

	if _, err := ir.Register("double", func(x int) int { return x * 2 }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	n, err := ir.EvalAsInt("double 21")
	if err != nil {
		t.Fatalf("EvalAsInt: %v", err)
	}
	if n != 42 {
		t.Errorf("double 21 = %d", n)
	}
}

func TestRegisterArity(t *testing.T) {
	ir := newTestInterpreter(t, nil)

	if _, err := ir.Register("pair", func(a, b string) string { return a + b }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := ir.Eval("pair x"); err == nil {
		t.Error("call with too few arguments succeeded")
	} else if !strings.Contains(err.Error(), "wrong # args") {
		t.Errorf("error = %v", err)
	}
	if _, err := ir.Eval("pair x y z"); err == nil {
		t.Error("call with too many arguments succeeded")
	}
}

func TestRegisterVariadic(t *testing.T) {
	ir := newTestInterpreter(t, nil)

	if _, err := ir.Register("sum", func(base int, rest ...int) int {
		for _, n := range rest {
			base += n
		}
		return base
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	n, err := ir.EvalAsInt("sum 1 2 3 4")
	if err != nil {
		t.Fatalf("EvalAsInt: %v", err)
	}
	if n != 10 {
		t.Errorf("sum = %d, want 10", n)
	}
	n, err = ir.EvalAsInt("sum 5")
	if err != nil || n != 5 {
		t.Errorf("sum 5 = %d, %v", n, err)
	}
}

func TestRegisterErrorResult(t *testing.T) {
	ir := newTestInterpreter(t, nil)

	if _, err := ir.Register("must", func(ok bool) (string, error) {
		if !ok {
			return "", errors.New("rejected")
		}
		return "fine", nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	out, err := ir.Eval("must true")
	if err != nil || out != "fine" {
		t.Errorf("must true = %q, %v", out, err)
	}
	if _, err := ir.Eval("must false"); err == nil {
		t.Error("error result did not fail the script")
	} else if !strings.Contains(err.Error(), "rejected") {
		t.Errorf("error = %v", err)
	}
}

func TestRegisterMultipleResults(t *testing.T) {
	ir := newTestInterpreter(t, nil)

	if _, err := ir.Register("divmod", func(a, b int) (int, int) {
		return a / b, a % b
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	out, err := ir.Eval("divmod 17 5")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "3 2" {
		t.Errorf("divmod = %q, want %q", out, "3 2")
	}
}

func TestRegisterStringCoercion(t *testing.T) {
	ir := newTestInterpreter(t, nil)

	if _, err := ir.Register("describe", func(v string) string { return "got " + v }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// The script word shimmers to an integer before the callback sees it;
	// a string parameter still receives its text.
	out, err := ir.Eval("describe [expr {40 + 2}]")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "got 42" {
		t.Errorf("describe = %q", out)
	}
}

func TestRegisterNonFunc(t *testing.T) {
	ir := newTestInterpreter(t, nil)

	if _, err := ir.Register("bad", 42); err == nil {
		t.Error("Register accepted a non-function")
	}
}

func TestConvertArgSliceParam(t *testing.T) {
	ir := newTestInterpreter(t, nil)

	if _, err := ir.Register("count", func(items []string) int { return len(items) }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	n, err := ir.EvalAsInt("count [list a b c]")
	if err != nil {
		t.Fatalf("EvalAsInt: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}
