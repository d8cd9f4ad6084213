package gotcl

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/dropbox/godropbox/errors"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// wrapFunc turns a plain Go function into a CommandFunc. Script arguments
// are converted to the function's parameter types; a final error result is
// split off and turned into a script error.
func wrapFunc(fn any) (CommandFunc, error) {
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, errors.Newf("gotcl: Register wants a function, got %T", fn)
	}

	numIn := t.NumIn()
	fixed := numIn
	if t.IsVariadic() {
		fixed = numIn - 1
	}

	return func(ir *Interpreter, cmd string, args []any) Result {
		if len(args) < fixed || (!t.IsVariadic() && len(args) > fixed) {
			return Errorf("wrong # args for %q: want %d, got %d", cmd, fixed, len(args))
		}

		in := make([]reflect.Value, 0, len(args))
		for i, a := range args {
			var want reflect.Type
			if i < fixed {
				want = t.In(i)
			} else {
				want = t.In(numIn - 1).Elem()
			}
			cv, err := convertArg(a, want)
			if err != nil {
				return Errorf("argument %d of %q: %s", i+1, cmd, err)
			}
			in = append(in, cv)
		}

		return processResults(v.Call(in))
	}, nil
}

// convertArg coerces a decoded script value to the parameter type want.
// Script values arrive as int64, float64, bool, string, []byte or []any;
// strings are parsed when a numeric or boolean parameter asks for one.
func convertArg(a any, want reflect.Type) (reflect.Value, error) {
	av := reflect.ValueOf(a)
	if a != nil && av.Type() == want {
		return av, nil
	}
	switch want.Kind() {
	case reflect.Interface:
		if want.NumMethod() == 0 {
			return reflect.ValueOf(&a).Elem(), nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(a)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(want).Elem()
		if out.OverflowInt(n) {
			return reflect.Value{}, errors.Newf("%d overflows %s", n, want)
		}
		out.SetInt(n)
		return out, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt64(a)
		if err != nil {
			return reflect.Value{}, err
		}
		if n < 0 {
			return reflect.Value{}, errors.Newf("%d is negative, want %s", n, want)
		}
		out := reflect.New(want).Elem()
		if out.OverflowUint(uint64(n)) {
			return reflect.Value{}, errors.Newf("%d overflows %s", n, want)
		}
		out.SetUint(uint64(n))
		return out, nil
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(a)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(want).Elem()
		out.SetFloat(f)
		return out, nil
	case reflect.Bool:
		switch v := a.(type) {
		case bool:
			return reflect.ValueOf(v), nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return reflect.Value{}, errors.Newf("%q is not a boolean", v)
			}
			return reflect.ValueOf(b), nil
		}
	case reflect.String:
		return reflect.ValueOf(asString(a)), nil
	case reflect.Slice:
		if items, ok := a.([]any); ok {
			out := reflect.MakeSlice(want, len(items), len(items))
			for i, item := range items {
				cv, err := convertArg(item, want.Elem())
				if err != nil {
					return reflect.Value{}, errors.Wrapf(err, "element %d", i)
				}
				out.Index(i).Set(cv)
			}
			return out, nil
		}
		if b, ok := a.([]byte); ok && want.Elem().Kind() == reflect.Uint8 {
			return reflect.ValueOf(b), nil
		}
	}
	return reflect.Value{}, errors.Newf("cannot use %T as %s", a, want)
}

func toInt64(a any) (int64, error) {
	switch v := a.(type) {
	case int64:
		return v, nil
	case float64:
		n := int64(v)
		if float64(n) != v {
			return 0, errors.Newf("%g is not an integer", v)
		}
		return n, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, errors.Newf("%q is not an integer", v)
		}
		return n, nil
	}
	return 0, errors.Newf("%T is not an integer", a)
}

func toFloat64(a any) (float64, error) {
	switch v := a.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, errors.Newf("%q is not a number", v)
		}
		return f, nil
	}
	return 0, errors.Newf("%T is not a number", a)
}

func asString(a any) string {
	switch v := a.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(a)
}

// processResults maps a function's return values to a command result. A
// trailing non-nil error wins; otherwise zero values yield an empty result,
// one value is the result, and several form a list.
func processResults(outs []reflect.Value) Result {
	if n := len(outs); n > 0 && outs[n-1].Type().Implements(errType) {
		if e := outs[n-1].Interface(); e != nil {
			return Error(e.(error))
		}
		outs = outs[:n-1]
	}
	switch len(outs) {
	case 0:
		return OK(nil)
	case 1:
		return OK(outs[0].Interface())
	default:
		vals := make([]any, len(outs))
		for i, o := range outs {
			vals[i] = o.Interface()
		}
		return OK(vals)
	}
}
