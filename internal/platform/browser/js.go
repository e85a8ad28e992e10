//go:build js && wasm

// Package browser binds the relay's ports to the DOM through syscall/js.
package browser

import (
	"errors"
	"fmt"
	"strconv"
	"syscall/js"
)

// ErrNotBytes is returned when a JS value cannot be read as a byte sequence.
var ErrNotBytes = errors.New("browser: value is not a byte array")

// catch runs fn and turns a thrown JS exception into an error.
func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			err = fmt.Errorf("browser: %v", r)
		}
	}()
	fn()
	return nil
}

func absent(v js.Value) bool {
	return v.IsUndefined() || v.IsNull()
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// bytesFromJS reads a Uint8Array, an ArrayBuffer, a plain number array or a
// principal object exposing its bytes.
func bytesFromJS(v js.Value) ([]byte, error) {
	if absent(v) {
		return nil, ErrNotBytes
	}
	uint8Array := js.Global().Get("Uint8Array")
	switch {
	case v.InstanceOf(uint8Array):
	case v.InstanceOf(js.Global().Get("ArrayBuffer")):
		v = uint8Array.New(v)
	case js.Global().Get("Array").Call("isArray", v).Bool():
		v = uint8Array.Call("from", v)
	case v.Type() == js.TypeObject && v.Get("_arr").Truthy():
		return bytesFromJS(v.Get("_arr"))
	case v.Type() == js.TypeObject && v.Get("toUint8Array").Type() == js.TypeFunction:
		return bytesFromJS(v.Call("toUint8Array"))
	default:
		return nil, ErrNotBytes
	}
	out := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(out, v)
	return out, nil
}

func bigIntToJS(n uint64) js.Value {
	return js.Global().Get("BigInt").Invoke(strconv.FormatUint(n, 10))
}

// uintFromJS reads a BigInt or a number. BigInts report as objects through
// syscall/js, so the value is stringified first.
func uintFromJS(v js.Value) (uint64, error) {
	if absent(v) {
		return 0, errors.New("browser: missing integer")
	}
	s := js.Global().Get("String").Invoke(v).String()
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("browser: parse integer %q: %w", s, err)
	}
	return n, nil
}
