package tcl

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestIntWidth(t *testing.T) {
	cases := []struct {
		v    int64
		want int
	}{
		{0, widthInt},
		{127, widthInt},
		{-128, widthInt},
		{math.MaxInt32, widthInt},
		{math.MinInt32, widthInt},
		{int64(math.MaxInt32) + 1, widthWide},
		{math.MaxInt64, widthWide},
		{math.MinInt64, widthWide},
	}
	for _, c := range cases {
		got := intWidth(c.v)
		if c.want == widthInt && got > widthLong {
			t.Errorf("intWidth(%d) = %d, want at most %d", c.v, got, widthLong)
		}
		if c.want == widthWide && got != widthWide && widthLong < widthWide {
			t.Errorf("intWidth(%d) = %d, want %d", c.v, got, widthWide)
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	in := newTestInterp(t)

	for _, v := range []int64{0, 1, -1, math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64} {
		obj, err := NewObj(v)
		if err != nil {
			t.Fatalf("NewObj(%d): %v", v, err)
		}
		ref := NewRef(obj)
		got, err := in.Int64(obj)
		ref.Close()
		if err != nil {
			t.Fatalf("Int64(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestUint64Overflow(t *testing.T) {
	if _, err := NewObj(uint64(math.MaxInt64) + 1); err == nil {
		t.Fatal("NewObj accepted a uint64 above the signed range")
	} else {
		var convErr *ConversionError
		if !errors.As(err, &convErr) {
			t.Errorf("error is %T, want *ConversionError", err)
		}
	}
	if _, err := NewObj(uint64(math.MaxInt64)); err != nil {
		t.Errorf("NewObj rejected a representable uint64: %v", err)
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	in := newTestInterp(t)

	for _, v := range []float64{0, -1.5, math.Pi, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		obj, err := NewObj(v)
		if err != nil {
			t.Fatalf("NewObj(%g): %v", v, err)
		}
		ref := NewRef(obj)
		got, err := in.Float64(obj)
		ref.Close()
		if err != nil {
			t.Fatalf("Float64(%g): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %g -> %g", v, got)
		}
	}
}

func TestBoolRoundTrip(t *testing.T) {
	in := newTestInterp(t)

	for _, v := range []bool{true, false} {
		obj, err := NewObj(v)
		if err != nil {
			t.Fatalf("NewObj(%v): %v", v, err)
		}
		ref := NewRef(obj)
		got, err := in.Bool(obj)
		ref.Close()
		if err != nil || got != v {
			t.Errorf("round trip %v -> %v, %v", v, got, err)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", "with space", "nul\x00inside", "nul at end\x00", "ünïcodé"} {
		obj, err := NewObj(s)
		if err != nil {
			t.Fatalf("NewObj(%q): %v", s, err)
		}
		ref := NewRef(obj)
		got := obj.Text()
		ref.Close()
		if got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestBytesRoundTrip(t *testing.T) {
	in := newTestInterp(t)

	data := []byte{0, 1, 2, 0xff, 0, 0x80}
	obj, err := NewObj(data)
	if err != nil {
		t.Fatalf("NewObj: %v", err)
	}
	ref := NewRef(obj)
	defer ref.Close()
	got, err := in.Bytes(obj)
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("round trip %v -> %v", data, got)
	}
}

func TestListRoundTrip(t *testing.T) {
	in := newTestInterp(t)

	obj, err := NewListObj(1, "two", 3.5)
	if err != nil {
		t.Fatalf("NewListObj: %v", err)
	}
	ref := NewRef(obj)
	defer ref.Close()

	elems, err := in.Elements(obj)
	if err != nil {
		t.Fatalf("Elements: %v", err)
	}
	if len(elems) != 3 {
		t.Fatalf("len = %d, want 3", len(elems))
	}
	if got := elems[1].Text(); got != "two" {
		t.Errorf("element 1 = %q", got)
	}
}

func TestValueDispatch(t *testing.T) {
	in := newTestInterp(t)

	// Conversion follows the object's current internal representation, so
	// drive each one through an eval that shimmers it to a known type.
	if st, err := in.EvalScript("expr {2 + 3}"); err != nil || st != StatusOK {
		t.Fatalf("eval: %v, %v", st, err)
	}
	res, _ := in.Result()
	v, err := in.Value(res)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if n, ok := v.(int64); !ok || n != 5 {
		t.Errorf("Value = %#v, want int64(5)", v)
	}

	if st, err := in.EvalScript("expr {1.0 / 4}"); err != nil || st != StatusOK {
		t.Fatalf("eval: %v, %v", st, err)
	}
	res, _ = in.Result()
	v, err = in.Value(res)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if f, ok := v.(float64); !ok || f != 0.25 {
		t.Errorf("Value = %#v, want float64(0.25)", v)
	}

	if st, err := in.EvalScript("list a b c"); err != nil || st != StatusOK {
		t.Fatalf("eval: %v, %v", st, err)
	}
	res, _ = in.Result()
	v, err = in.Value(res)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if got, ok := v.([]any); !ok || !reflect.DeepEqual(got, []any{"a", "b", "c"}) {
		t.Errorf("Value = %#v, want [a b c]", v)
	}
}

func TestNewObjUnsupported(t *testing.T) {
	type opaque struct{ n int }
	if _, err := NewObj(opaque{1}); err == nil {
		t.Fatal("NewObj accepted an unsupported type")
	}
	if _, err := NewObj(nil); err == nil {
		t.Fatal("NewObj accepted nil")
	}
}
