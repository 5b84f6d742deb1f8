// Package jsonmap writes Go values as JSON by walking them recursively and
// emitting tokens to a jsongen.Sink.
//
// Writers for individual types are resolved by a dispatcher: writers the
// application registered first, then types implementing Serializable, then
// the built-in writers chosen by kind. Every failure of a write call is
// classified exactly once, where it first happens:
//
//   - failures of the sink are returned unchanged, never wrapped;
//   - anything else, including errors and panics from application writers
//     and types that cannot be written, becomes a *jsonerr.MappingError that
//     keeps the original error as its Cause and records where in the value
//     it happened.
//
// A *jsonerr.MappingError coming back from a nested write is passed through,
// so mapping errors never nest.
package jsonmap

import (
	"bytes"
	"io"
	"reflect"

	"github.com/lattice-substrate/json-mapper/jsongen"
)

// Mapper holds the writer registry and output options. It is immutable once
// built and safe for concurrent use by any number of write calls.
type Mapper struct {
	writers    map[reflect.Type]ValueWriter
	canonical  bool
	sortFields bool
	indent     string
}

// Default is a Mapper with no registered writers.
var Default = New()

// New builds a Mapper.
func New(opts ...Option) *Mapper {
	m := &Mapper{writers: make(map[reflect.Type]ValueWriter)}
	for _, o := range opts {
		o(m)
	}
	return m
}

// WriteTo writes v to s. On failure s may have received a partial, unclosed
// token stream. The error is either exactly what s returned or a
// *jsonerr.MappingError.
func (m *Mapper) WriteTo(s jsongen.Sink, v any) error {
	e := &Encoder{m: m, sink: &tracker{sink: s}}
	if err := e.WriteValue(v); err != nil {
		return err
	}
	return e.sink.failed
}

// Write writes v as JSON text to w. Errors returned by w come back
// unchanged.
func (m *Mapper) Write(w io.Writer, v any) error {
	return m.WriteTo(m.NewGenerator(w), v)
}

// Marshal returns the JSON text of v.
func (m *Mapper) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewGenerator returns a Generator writing to w whose WriteValue is served
// by m.
func (m *Mapper) NewGenerator(w io.Writer, opts ...jsongen.Option) *jsongen.Generator {
	base := []jsongen.Option{jsongen.WithCodec(m)}
	if m.indent != "" {
		base = append(base, jsongen.WithIndent(m.indent))
	}
	return jsongen.NewGenerator(w, append(base, opts...)...)
}

// Marshal returns the JSON text of v using Default.
func Marshal(v any) ([]byte, error) {
	return Default.Marshal(v)
}

// Write writes v to w using Default.
func Write(w io.Writer, v any) error {
	return Default.Write(w, v)
}
