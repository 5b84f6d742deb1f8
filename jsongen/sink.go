// Package jsongen writes JSON text one token at a time.
//
// A Sink accepts structural markers and scalar tokens. The Generator is the
// Sink that renders those tokens as JSON text onto an io.Writer. A Sink does
// no formatting of numbers and no validation of structure, so the only
// failures it returns are failures of its output; callers treat every error
// returned by a Sink method as a transport failure and pass it on unchanged.
package jsongen

// Sink is the token-level output of a write call.
type Sink interface {
	WriteStartArray() error
	WriteEndArray() error
	WriteStartObject() error
	WriteEndObject() error
	// WriteFieldName writes the name of the next object member.
	WriteFieldName(name string) error
	WriteString(s string) error
	// WriteNumber writes a number literal that is already valid JSON.
	WriteNumber(literal string) error
	WriteBool(b bool) error
	WriteNull() error
}

// Codec writes an arbitrary value to a Sink. Generator.WriteValue delegates
// to it.
type Codec interface {
	WriteTo(s Sink, v any) error
}
