package jsonmap

import (
	"encoding/base64"
	"reflect"
	"slices"
	"strconv"

	"github.com/lattice-substrate/json-mapper/jsonerr"
)

// Encoder is the state of one write call: the sink being written, the
// position in the value graph and the failure, if any, that has already been
// classified. Value writers receive it so they can write nested values with
// the same failure handling. An Encoder must not be retained after the
// writer returns.
type Encoder struct {
	m     *Mapper
	sink  *tracker
	path  jsonerr.Path
	fault error
	class jsonerr.Class
}

// WriteValue writes v at the current position.
func (e *Encoder) WriteValue(v any) error {
	return e.encode(reflect.ValueOf(v))
}

// WriteElement writes v as element i of the sequence being written.
func (e *Encoder) WriteElement(i int, v any) error {
	e.push(jsonerr.IndexStep(i))
	defer e.pop()
	return e.WriteValue(v)
}

// WriteField writes a member name followed by v.
func (e *Encoder) WriteField(name string, v any) error {
	if err := e.emit(e.sink.WriteFieldName(name)); err != nil {
		return err
	}
	e.push(jsonerr.MemberStep(name))
	defer e.pop()
	return e.WriteValue(v)
}

// Path returns the location of the value being written.
func (e *Encoder) Path() jsonerr.Path {
	return slices.Clone(e.path)
}

// Fault returns the failure this write call has classified so far and its
// class: jsonerr.Transport or jsonerr.Mapping.
func (e *Encoder) Fault() (jsonerr.Class, error) {
	return e.class, e.fault
}

func (e *Encoder) push(s jsonerr.Step) { e.path = append(e.path, s) }
func (e *Encoder) pop()                { e.path = e.path[:len(e.path)-1] }

func (e *Encoder) encode(rv reflect.Value) error {
	if !rv.IsValid() {
		return e.emit(e.sink.WriteNull())
	}
	enc, err := e.m.lookup(rv.Type())
	if err != nil {
		return e.classify(err)
	}
	return enc(e, rv)
}

func boolEncoder(e *Encoder, rv reflect.Value) error {
	return e.emit(e.sink.WriteBool(rv.Bool()))
}

func intEncoder(e *Encoder, rv reflect.Value) error {
	if e.m.canonical {
		return e.writeFloat(rv, float64(rv.Int()), 64)
	}
	return e.emit(e.sink.WriteNumber(strconv.FormatInt(rv.Int(), 10)))
}

func uintEncoder(e *Encoder, rv reflect.Value) error {
	if e.m.canonical {
		return e.writeFloat(rv, float64(rv.Uint()), 64)
	}
	return e.emit(e.sink.WriteNumber(strconv.FormatUint(rv.Uint(), 10)))
}

func float32Encoder(e *Encoder, rv reflect.Value) error {
	if e.m.canonical {
		return e.writeFloat(rv, rv.Float(), 64)
	}
	return e.writeFloat(rv, rv.Float(), 32)
}

func float64Encoder(e *Encoder, rv reflect.Value) error {
	return e.writeFloat(rv, rv.Float(), 64)
}

func (e *Encoder) writeFloat(rv reflect.Value, f float64, bits int) error {
	lit, err := formatFloat(f, bits)
	if err != nil {
		return e.classify(&UnsupportedValueError{Value: rv, Str: strconv.FormatFloat(f, 'g', -1, bits)})
	}
	return e.emit(e.sink.WriteNumber(lit))
}

func numberEncoder(e *Encoder, rv reflect.Value) error {
	lit := rv.String()
	if lit == "" {
		lit = "0"
	}
	if !isValidNumber(lit) {
		return e.classify(&UnsupportedValueError{Value: rv, Str: "json.Number " + strconv.Quote(lit)})
	}
	if e.m.canonical {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return e.classify(&UnsupportedValueError{Value: rv, Str: "json.Number " + lit})
		}
		return e.writeFloat(rv, f, 64)
	}
	return e.emit(e.sink.WriteNumber(lit))
}

func stringEncoder(e *Encoder, rv reflect.Value) error {
	return e.emit(e.sink.WriteString(rv.String()))
}

func bytesEncoder(e *Encoder, rv reflect.Value) error {
	if rv.IsNil() {
		return e.emit(e.sink.WriteNull())
	}
	return e.emit(e.sink.WriteString(base64.StdEncoding.EncodeToString(rv.Bytes())))
}

// pointerEncoder also serves interfaces.
func pointerEncoder(e *Encoder, rv reflect.Value) error {
	if rv.IsNil() {
		return e.emit(e.sink.WriteNull())
	}
	return e.encode(rv.Elem())
}

func sequenceEncoder(e *Encoder, rv reflect.Value) error {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return e.emit(e.sink.WriteNull())
	}
	if err := e.emit(e.sink.WriteStartArray()); err != nil {
		return err
	}
	n := rv.Len()
	for i := 0; i < n; i++ {
		e.push(jsonerr.IndexStep(i))
		err := e.encode(rv.Index(i))
		e.pop()
		if err != nil {
			return err
		}
	}
	return e.emit(e.sink.WriteEndArray())
}

type mapEntry struct {
	name string
	val  reflect.Value
}

func mapEncoder(e *Encoder, rv reflect.Value) error {
	if rv.IsNil() {
		return e.emit(e.sink.WriteNull())
	}
	entries := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, mapEntry{name: mapKeyName(iter.Key()), val: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		return e.m.compareNames(a.name, b.name)
	})

	if err := e.emit(e.sink.WriteStartObject()); err != nil {
		return err
	}
	for _, ent := range entries {
		if err := e.member(ent.name, ent.val); err != nil {
			return err
		}
	}
	return e.emit(e.sink.WriteEndObject())
}

func mapKeyName(k reflect.Value) string {
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	default:
		return strconv.FormatUint(k.Uint(), 10)
	}
}

func structEncoder(e *Encoder, rv reflect.Value) error {
	if err := e.emit(e.sink.WriteStartObject()); err != nil {
		return err
	}
	for _, f := range e.m.fieldsOf(rv.Type()) {
		fv := rv.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := e.member(f.name, fv); err != nil {
			return err
		}
	}
	return e.emit(e.sink.WriteEndObject())
}

func (e *Encoder) member(name string, v reflect.Value) error {
	if err := e.emit(e.sink.WriteFieldName(name)); err != nil {
		return err
	}
	e.push(jsonerr.MemberStep(name))
	err := e.encode(v)
	e.pop()
	return err
}
