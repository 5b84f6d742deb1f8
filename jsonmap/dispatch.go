package jsonmap

import (
	"encoding/json"
	"reflect"
)

// encoderFunc writes one value of a resolved type.
type encoderFunc func(e *Encoder, rv reflect.Value) error

var (
	numberType = reflect.TypeOf((*json.Number)(nil)).Elem()
	bytesType  = reflect.TypeOf((*[]byte)(nil)).Elem()
)

// lookup resolves the writer for t. Registered writers win over
// Serializable, which wins over the built-in writers.
func (m *Mapper) lookup(t reflect.Type) (encoderFunc, error) {
	if w, ok := m.writers[t]; ok {
		return customEncoder(w), nil
	}
	if t.Kind() != reflect.Interface && t.Implements(serializableType) {
		return serializableEncoder, nil
	}
	if t == numberType {
		return numberEncoder, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolEncoder, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intEncoder, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintEncoder, nil
	case reflect.Float32:
		return float32Encoder, nil
	case reflect.Float64:
		return float64Encoder, nil
	case reflect.String:
		return stringEncoder, nil
	case reflect.Interface, reflect.Pointer:
		return pointerEncoder, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && t.ConvertibleTo(bytesType) {
			if _, custom := m.writers[t.Elem()]; !custom {
				return bytesEncoder, nil
			}
		}
		return sequenceEncoder, nil
	case reflect.Array:
		return sequenceEncoder, nil
	case reflect.Map:
		switch t.Key().Kind() {
		case reflect.String,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return mapEncoder, nil
		}
		return nil, &UnsupportedTypeError{Type: t}
	case reflect.Struct:
		return structEncoder, nil
	default:
		// chan, func, complex, unsafe.Pointer
		return nil, &UnsupportedTypeError{Type: t}
	}
}

func customEncoder(w ValueWriter) encoderFunc {
	return func(e *Encoder, rv reflect.Value) error {
		v := rv.Interface()
		return e.call(func() error { return w.WriteJSON(v, e.sink, e) })
	}
}

func serializableEncoder(e *Encoder, rv reflect.Value) error {
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return e.emit(e.sink.WriteNull())
	}
	s := rv.Interface().(Serializable)
	return e.call(func() error { return s.WriteJSON(e.sink, e) })
}
