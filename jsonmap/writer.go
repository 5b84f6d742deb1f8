package jsonmap

import (
	"reflect"

	"github.com/lattice-substrate/json-mapper/jsongen"
)

// ValueWriter converts values of one type into Sink calls. It may return any
// error; the write call classifies it (see Mapper.WriteTo). Nested values
// should be written through e so their failures are classified where they
// happen. A writer that returns nil must have written exactly one value.
type ValueWriter interface {
	WriteJSON(v any, s jsongen.Sink, e *Encoder) error
}

// WriterFunc adapts a function to ValueWriter.
type WriterFunc func(v any, s jsongen.Sink, e *Encoder) error

func (f WriterFunc) WriteJSON(v any, s jsongen.Sink, e *Encoder) error {
	return f(v, s, e)
}

// Serializable is implemented by types that write themselves. A writer
// registered for the exact type takes precedence.
type Serializable interface {
	WriteJSON(s jsongen.Sink, e *Encoder) error
}

var serializableType = reflect.TypeOf((*Serializable)(nil)).Elem()

// Option configures a Mapper.
type Option func(*Mapper)

// WithWriter registers w for values whose dynamic type is exactly t.
// It panics if t or w is nil.
func WithWriter(t reflect.Type, w ValueWriter) Option {
	if t == nil || w == nil {
		panic("jsonmap: WithWriter called with a nil type or writer")
	}
	return func(m *Mapper) { m.writers[t] = w }
}

// WithWriterFunc is WithWriter for a plain function.
func WithWriterFunc(t reflect.Type, f func(v any, s jsongen.Sink, e *Encoder) error) Option {
	if f == nil {
		panic("jsonmap: WithWriterFunc called with a nil function")
	}
	return WithWriter(t, WriterFunc(f))
}

// WriterFor registers w for values of type T.
func WriterFor[T any](w ValueWriter) Option {
	return WithWriter(reflect.TypeOf((*T)(nil)).Elem(), w)
}

// WithCanonical selects RFC 8785 output from the built-in writers: object
// members sorted by UTF-16 code units and every number written as an IEEE
// 754 double in ECMAScript form.
func WithCanonical() Option {
	return func(m *Mapper) { m.canonical = true }
}

// WithSortedFields writes struct fields in name order instead of
// declaration order. Map entries are always sorted.
func WithSortedFields() Option {
	return func(m *Mapper) { m.sortFields = true }
}

// WithIndent indents output of Write, Marshal and NewGenerator.
func WithIndent(indent string) Option {
	return func(m *Mapper) { m.indent = indent }
}
