package codec

import (
	"fmt"
	"reflect"
)

// Default method names for types that serialize themselves.
const (
	DefaultEncodeMethod = "Encode"
	DefaultDecodeMethod = "Decode"
)

// MissingMethodError reports that a type offered for registration lacks a
// required method, or has one with an incompatible signature.
type MissingMethodError struct {
	Type   string
	Method string
}

func (e *MissingMethodError) Error() string {
	return fmt.Sprintf("codec: type %s does not implement the required %s method", e.Type, e.Method)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// EncodeFromMethod derives an EncodeFunc from an instance method of the
// prototype's type. The method must have the signature func() (string, error)
// or func() string. The signature is verified once here, not per call.
func EncodeFromMethod(prototype any, name string) (EncodeFunc, error) {
	m := reflect.ValueOf(prototype).MethodByName(name)
	if !m.IsValid() {
		return nil, &MissingMethodError{Type: typeName(prototype), Method: name}
	}
	t := m.Type()
	ok := t.NumIn() == 0 &&
		(t.NumOut() == 1 || t.NumOut() == 2) &&
		t.Out(0).Kind() == reflect.String &&
		(t.NumOut() == 1 || t.Out(1) == errType)
	if !ok {
		return nil, &MissingMethodError{Type: typeName(prototype), Method: name}
	}

	return func(v any) (string, error) {
		mv := reflect.ValueOf(v).MethodByName(name)
		if !mv.IsValid() {
			return "", &MissingMethodError{Type: typeName(v), Method: name}
		}
		out := mv.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return "", out[1].Interface().(error)
		}
		return out[0].String(), nil
	}, nil
}

// DecodeFromMethod derives a DecodeFunc from a method of the prototype's type.
// The method acts as a constructor: it must take a single string and return
// the decoded value, optionally followed by an error. It is invoked on the
// prototype, which therefore serves the role of a class-level receiver.
func DecodeFromMethod(prototype any, name string) (DecodeFunc, error) {
	m := reflect.ValueOf(prototype).MethodByName(name)
	if !m.IsValid() {
		return nil, &MissingMethodError{Type: typeName(prototype), Method: name}
	}
	t := m.Type()
	ok := t.NumIn() == 1 &&
		t.In(0).Kind() == reflect.String &&
		(t.NumOut() == 1 || t.NumOut() == 2) &&
		(t.NumOut() == 1 || t.Out(1) == errType)
	if !ok {
		return nil, &MissingMethodError{Type: typeName(prototype), Method: name}
	}

	return func(payload string) (any, error) {
		out := m.Call([]reflect.Value{reflect.ValueOf(payload)})
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}, nil
}
