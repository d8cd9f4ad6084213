package tcl

/*
#include "glue.h"
*/
import "C"

import (
	"fmt"
	"math"
	"unsafe"
)

// Integer width classes. The conversion layer picks the smallest foreign
// integer width that can represent a value, comparing the C widths at build
// time rather than assuming a platform.
const (
	widthInt  = C.sizeof_int
	widthLong = C.sizeof_long
	widthWide = 8
)

// intWidth returns the byte width of the smallest foreign integer type that
// can hold v without overflow.
func intWidth(v int64) int {
	if fitsWidth(v, widthInt) {
		return widthInt
	}
	if fitsWidth(v, widthLong) {
		return widthLong
	}
	return widthWide
}

func fitsWidth(v int64, bytes int) bool {
	if bytes >= 8 {
		return true
	}
	bits := uint(bytes * 8)
	lo := int64(-1) << (bits - 1)
	hi := int64(1)<<(bits-1) - 1
	return v >= lo && v <= hi
}

var emptyByte byte

// strData returns a C pointer and byte length for s, valid for the duration
// of a single C call. Works for empty strings and strings with embedded NULs.
func strData(s string) (*C.char, C.int) {
	if len(s) == 0 {
		return (*C.char)(unsafe.Pointer(&emptyByte)), 0
	}
	return (*C.char)(unsafe.Pointer(unsafe.StringData(s))), C.int(len(s))
}

func newIntObj(v int64) *C.Tcl_Obj {
	switch intWidth(v) {
	case widthInt:
		return C.Tcl_NewIntObj(C.int(v))
	case widthLong:
		return C.Tcl_NewLongObj(C.long(v))
	}
	return C.Tcl_NewWideIntObj(C.Tcl_WideInt(v))
}

func newStringObj(s string) *C.Tcl_Obj {
	p, n := strData(s)
	return C.Tcl_NewStringObj(p, n)
}

func newByteArrayObj(b []byte) *C.Tcl_Obj {
	if len(b) == 0 {
		return C.Tcl_NewByteArrayObj((*C.uchar)(unsafe.Pointer(&emptyByte)), 0)
	}
	return C.Tcl_NewByteArrayObj((*C.uchar)(unsafe.Pointer(&b[0])), C.int(len(b)))
}

// NewObj converts a host value into a new Tcl object.
//
// Each supported type maps to exactly one foreign constructor: bool to a
// boolean object, integers to the smallest sufficient integer width, floats
// to a double, strings to a length-explicit string object, []byte
// to a byte array, and slices to a list built element by element. Unsupported
// types return a *ConversionError naming the type; there is no silent
// fallback. The returned object has a reference count of zero.
func NewObj(v any) (*Obj, error) {
	switch val := v.(type) {
	case nil:
		return nil, &ConversionError{Type: "nil", Reason: "no Tcl representation"}
	case *Obj:
		if val.IsNil() {
			return nil, &NullError{Kind: "object"}
		}
		return val, nil
	case bool:
		b := C.int(0)
		if val {
			b = 1
		}
		return &Obj{ptr: C.Tcl_NewBooleanObj(b)}, nil
	case int:
		return &Obj{ptr: newIntObj(int64(val))}, nil
	case int8:
		return &Obj{ptr: newIntObj(int64(val))}, nil
	case int16:
		return &Obj{ptr: newIntObj(int64(val))}, nil
	case int32:
		return &Obj{ptr: newIntObj(int64(val))}, nil
	case int64:
		return &Obj{ptr: newIntObj(val)}, nil
	case uint:
		return NewObj(uint64(val))
	case uint8:
		return &Obj{ptr: newIntObj(int64(val))}, nil
	case uint16:
		return &Obj{ptr: newIntObj(int64(val))}, nil
	case uint32:
		return &Obj{ptr: newIntObj(int64(val))}, nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, &ConversionError{Type: "uint64", Reason: fmt.Sprintf("%d overflows the widest foreign integer", val)}
		}
		return &Obj{ptr: newIntObj(int64(val))}, nil
	case float32:
		return &Obj{ptr: C.Tcl_NewDoubleObj(C.double(val))}, nil
	case float64:
		return &Obj{ptr: C.Tcl_NewDoubleObj(C.double(val))}, nil
	case string:
		return &Obj{ptr: newStringObj(val)}, nil
	case []rune:
		return &Obj{ptr: newStringObj(string(val))}, nil
	case []byte:
		return &Obj{ptr: newByteArrayObj(val)}, nil
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return NewListObj(items...)
	case []int:
		items := make([]any, len(val))
		for i, n := range val {
			items[i] = n
		}
		return NewListObj(items...)
	case []int64:
		items := make([]any, len(val))
		for i, n := range val {
			items[i] = n
		}
		return NewListObj(items...)
	case []float64:
		items := make([]any, len(val))
		for i, f := range val {
			items[i] = f
		}
		return NewListObj(items...)
	case []any:
		return NewListObj(val...)
	}
	return nil, &ConversionError{Type: fmt.Sprintf("%T", v)}
}

// NewListObj builds a list object by converting each item and appending it
// in order.
func NewListObj(items ...any) (*Obj, error) {
	list := &Obj{ptr: C.Tcl_NewListObj(0, nil)}
	for _, item := range items {
		el, err := NewObj(item)
		if err != nil {
			// The partially built list has refcount zero and no owner.
			list.Preserve()
			list.Release()
			return nil, err
		}
		C.Tcl_ListObjAppendElement(nil, list.ptr, el.ptr)
	}
	return list, nil
}

// Int64 converts obj to an integer.
func (in *Interp) Int64(obj *Obj) (int64, error) {
	if err := in.check(); err != nil {
		return 0, err
	}
	if obj.IsNil() {
		return 0, &NullError{Kind: "object"}
	}
	var w C.Tcl_WideInt
	if C.Tcl_GetWideIntFromObj(in.c, obj.ptr, &w) != C.TCL_OK {
		return 0, &ConversionError{Type: "integer", Reason: in.resultText()}
	}
	return int64(w), nil
}

// Float64 converts obj to a floating-point number.
func (in *Interp) Float64(obj *Obj) (float64, error) {
	if err := in.check(); err != nil {
		return 0, err
	}
	if obj.IsNil() {
		return 0, &NullError{Kind: "object"}
	}
	var d C.double
	if C.Tcl_GetDoubleFromObj(in.c, obj.ptr, &d) != C.TCL_OK {
		return 0, &ConversionError{Type: "double", Reason: in.resultText()}
	}
	return float64(d), nil
}

// Bool converts obj using Tcl boolean rules (0/1, true/false, yes/no, on/off).
func (in *Interp) Bool(obj *Obj) (bool, error) {
	if err := in.check(); err != nil {
		return false, err
	}
	if obj.IsNil() {
		return false, &NullError{Kind: "object"}
	}
	var b C.int
	if C.Tcl_GetBooleanFromObj(in.c, obj.ptr, &b) != C.TCL_OK {
		return false, &ConversionError{Type: "boolean", Reason: in.resultText()}
	}
	return b != 0, nil
}

// Bytes converts obj to a byte array and returns a copy of its contents.
func (in *Interp) Bytes(obj *Obj) ([]byte, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if obj.IsNil() {
		return nil, &NullError{Kind: "object"}
	}
	var n C.int
	p := C.Tcl_GetByteArrayFromObj(obj.ptr, &n)
	if p == nil {
		return nil, &ConversionError{Type: "bytearray"}
	}
	return C.GoBytes(unsafe.Pointer(p), n), nil
}

// Elements returns the elements of a list object. Non-list objects are
// converted by the C library if possible.
func (in *Interp) Elements(obj *Obj) ([]*Obj, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if obj.IsNil() {
		return nil, &NullError{Kind: "object"}
	}
	var objc C.int
	var objv **C.Tcl_Obj
	if C.Tcl_ListObjGetElements(in.c, obj.ptr, &objc, &objv) != C.TCL_OK {
		return nil, &ConversionError{Type: "list", Reason: in.resultText()}
	}
	ptrs := unsafe.Slice(objv, int(objc))
	out := make([]*Obj, len(ptrs))
	for i, p := range ptrs {
		out[i] = &Obj{ptr: p}
	}
	return out, nil
}

// Value converts obj to a host value by dispatching on its foreign type tag:
// integers become int64, doubles float64, booleans bool, byte arrays []byte
// and lists []any (converted recursively). Anything else, including an
// object with no internal representation, becomes its string value.
func (in *Interp) Value(obj *Obj) (any, error) {
	if err := in.check(); err != nil {
		return nil, err
	}
	if obj.IsNil() {
		return nil, &NullError{Kind: "object"}
	}
	switch obj.TypeName() {
	case "int", "wideInt":
		return in.Int64(obj)
	case "double":
		return in.Float64(obj)
	case "boolean", "booleanString":
		return in.Bool(obj)
	case "bytearray":
		return in.Bytes(obj)
	case "list":
		elems, err := in.Elements(obj)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(elems))
		for i, el := range elems {
			v, err := in.Value(el)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return obj.Text(), nil
}
