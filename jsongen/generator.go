package jsongen

import (
	"errors"
	"io"
	"strconv"
	"strings"
)

// ErrNoCodec is returned by Generator.WriteValue for a value that needs a
// Codec when the Generator was built without one.
var ErrNoCodec = errors.New("jsongen: no codec configured for value")

// Generator renders tokens as JSON text. Each token is handed to the
// underlying writer as soon as it is complete. The first write failure is
// kept: every later call returns that same error and the writer is not
// touched again.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	w      io.Writer
	buf    []byte
	stack  []frame
	roots  int
	indent string
	codec  Codec
	err    error
}

type frame struct {
	object bool
	count  int
}

// Option configures a Generator.
type Option func(*Generator)

// WithIndent makes the Generator put every element and member on its own
// line, indented by one copy of indent per nesting level.
func WithIndent(indent string) Option {
	return func(g *Generator) { g.indent = indent }
}

// WithCodec sets the Codec used by WriteValue.
func WithCodec(c Codec) Option {
	return func(g *Generator) { g.codec = c }
}

// NewGenerator returns a Generator writing to w.
func NewGenerator(w io.Writer, opts ...Option) *Generator {
	g := &Generator{w: w, buf: make([]byte, 0, 64)}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Err returns the write failure the Generator has seen, if any.
func (g *Generator) Err() error {
	return g.err
}

// WriteValue writes v through the configured Codec. Without a Codec only
// nil, booleans, strings and integers can be written.
func (g *Generator) WriteValue(v any) error {
	if g.codec != nil {
		return g.codec.WriteTo(g, v)
	}
	switch x := v.(type) {
	case nil:
		return g.WriteNull()
	case bool:
		return g.WriteBool(x)
	case string:
		return g.WriteString(x)
	case int:
		return g.WriteNumber(strconv.Itoa(x))
	case int32:
		return g.WriteNumber(strconv.FormatInt(int64(x), 10))
	case int64:
		return g.WriteNumber(strconv.FormatInt(x, 10))
	case uint32:
		return g.WriteNumber(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return g.WriteNumber(strconv.FormatUint(x, 10))
	default:
		return ErrNoCodec
	}
}

func (g *Generator) WriteStartArray() error {
	g.beginValue()
	g.buf = append(g.buf, '[')
	g.stack = append(g.stack, frame{})
	return g.flush()
}

func (g *Generator) WriteEndArray() error {
	g.end(']')
	return g.flush()
}

func (g *Generator) WriteStartObject() error {
	g.beginValue()
	g.buf = append(g.buf, '{')
	g.stack = append(g.stack, frame{object: true})
	return g.flush()
}

func (g *Generator) WriteEndObject() error {
	g.end('}')
	return g.flush()
}

func (g *Generator) WriteFieldName(name string) error {
	g.buf = g.buf[:0]
	if n := len(g.stack); n > 0 {
		top := &g.stack[n-1]
		if top.count > 0 {
			g.buf = append(g.buf, ',')
		}
		top.count++
	}
	g.newline(len(g.stack))
	g.buf = appendString(g.buf, name)
	g.buf = append(g.buf, ':')
	if g.indent != "" {
		g.buf = append(g.buf, ' ')
	}
	return g.flush()
}

func (g *Generator) WriteString(s string) error {
	g.beginValue()
	g.buf = appendString(g.buf, s)
	return g.flush()
}

func (g *Generator) WriteNumber(literal string) error {
	g.beginValue()
	g.buf = append(g.buf, literal...)
	return g.flush()
}

func (g *Generator) WriteBool(b bool) error {
	g.beginValue()
	g.buf = strconv.AppendBool(g.buf, b)
	return g.flush()
}

func (g *Generator) WriteNull() error {
	g.beginValue()
	g.buf = append(g.buf, "null"...)
	return g.flush()
}

// beginValue resets the token buffer and emits whatever separator the
// current position needs before a value.
func (g *Generator) beginValue() {
	g.buf = g.buf[:0]
	n := len(g.stack)
	if n == 0 {
		// Consecutive root values are separated by a line feed.
		if g.roots > 0 {
			g.buf = append(g.buf, '\n')
		}
		g.roots++
		return
	}
	top := &g.stack[n-1]
	if top.object {
		// The member name already emitted the separator.
		return
	}
	if top.count > 0 {
		g.buf = append(g.buf, ',')
	}
	top.count++
	g.newline(n)
}

func (g *Generator) end(c byte) {
	g.buf = g.buf[:0]
	n := len(g.stack)
	if n == 0 {
		g.buf = append(g.buf, c)
		return
	}
	top := g.stack[n-1]
	g.stack = g.stack[:n-1]
	if top.count > 0 {
		g.newline(n - 1)
	}
	g.buf = append(g.buf, c)
}

func (g *Generator) newline(depth int) {
	if g.indent == "" {
		return
	}
	g.buf = append(g.buf, '\n')
	g.buf = append(g.buf, strings.Repeat(g.indent, depth)...)
}

func (g *Generator) flush() error {
	if g.err != nil {
		return g.err
	}
	if _, err := g.w.Write(g.buf); err != nil {
		g.err = err
		return err
	}
	return nil
}
