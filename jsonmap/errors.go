package jsonmap

import (
	"fmt"
	"reflect"
)

// UnsupportedTypeError is returned when no writer can be resolved for a type.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "jsonmap: unsupported type: " + e.Type.String()
}

// UnsupportedValueError is returned for a value of a supported type that has
// no JSON representation, such as NaN.
type UnsupportedValueError struct {
	Value reflect.Value
	Str   string
}

func (e *UnsupportedValueError) Error() string {
	return "jsonmap: unsupported value: " + e.Str
}

// StructureError reports a token sequence from a value writer that would not
// form well-nested JSON. The offending token never reaches the sink.
type StructureError struct {
	Msg string
}

func (e *StructureError) Error() string {
	return "jsonmap: invalid token sequence: " + e.Msg
}

// PanicError carries a non-error value that a value writer panicked with.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("jsonmap: value writer panicked: %v", e.Value)
}

func panicCause(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &PanicError{Value: r}
}
