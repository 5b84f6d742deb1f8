package jsonmap

import "github.com/lattice-substrate/json-mapper/jsongen"

// tracker is the Sink every writer of a write call talks to. It forwards
// tokens to the real sink, remembers the first failure the sink returned so
// that failure can be recognised by identity wherever it surfaces, and
// rejects out-of-place tokens before they reach the sink.
type tracker struct {
	sink   jsongen.Sink
	frames []trackFrame
	roots  int
	failed error
}

type trackFrame struct {
	object bool
	named  bool
	count  int
}

func (t *tracker) depth() int { return len(t.frames) }

// values counts the values started directly inside the innermost open
// structure, or at the root.
func (t *tracker) values() int {
	if n := len(t.frames); n > 0 {
		return t.frames[n-1].count
	}
	return t.roots
}

func (t *tracker) forward(err error) error {
	if err != nil && t.failed == nil {
		t.failed = err
	}
	return err
}

func (t *tracker) beginValue() error {
	n := len(t.frames)
	if n == 0 {
		t.roots++
		return nil
	}
	top := &t.frames[n-1]
	if top.object {
		if !top.named {
			return &StructureError{Msg: "object member value without a field name"}
		}
		top.named = false
	}
	top.count++
	return nil
}

func (t *tracker) WriteStartArray() error {
	if t.failed != nil {
		return t.failed
	}
	if err := t.beginValue(); err != nil {
		return err
	}
	t.frames = append(t.frames, trackFrame{})
	return t.forward(t.sink.WriteStartArray())
}

func (t *tracker) WriteEndArray() error {
	if t.failed != nil {
		return t.failed
	}
	n := len(t.frames)
	if n == 0 || t.frames[n-1].object {
		return &StructureError{Msg: "end of array outside an array"}
	}
	t.frames = t.frames[:n-1]
	return t.forward(t.sink.WriteEndArray())
}

func (t *tracker) WriteStartObject() error {
	if t.failed != nil {
		return t.failed
	}
	if err := t.beginValue(); err != nil {
		return err
	}
	t.frames = append(t.frames, trackFrame{object: true})
	return t.forward(t.sink.WriteStartObject())
}

func (t *tracker) WriteEndObject() error {
	if t.failed != nil {
		return t.failed
	}
	n := len(t.frames)
	if n == 0 || !t.frames[n-1].object {
		return &StructureError{Msg: "end of object outside an object"}
	}
	if t.frames[n-1].named {
		return &StructureError{Msg: "end of object after a field name"}
	}
	t.frames = t.frames[:n-1]
	return t.forward(t.sink.WriteEndObject())
}

func (t *tracker) WriteFieldName(name string) error {
	if t.failed != nil {
		return t.failed
	}
	n := len(t.frames)
	if n == 0 || !t.frames[n-1].object {
		return &StructureError{Msg: "field name outside an object"}
	}
	if t.frames[n-1].named {
		return &StructureError{Msg: "field name " + name + " follows another field name"}
	}
	t.frames[n-1].named = true
	return t.forward(t.sink.WriteFieldName(name))
}

func (t *tracker) WriteString(s string) error {
	return t.scalar(func() error { return t.sink.WriteString(s) })
}

func (t *tracker) WriteNumber(literal string) error {
	return t.scalar(func() error { return t.sink.WriteNumber(literal) })
}

func (t *tracker) WriteBool(b bool) error {
	return t.scalar(func() error { return t.sink.WriteBool(b) })
}

func (t *tracker) WriteNull() error {
	return t.scalar(t.sink.WriteNull)
}

func (t *tracker) scalar(write func() error) error {
	if t.failed != nil {
		return t.failed
	}
	if err := t.beginValue(); err != nil {
		return err
	}
	return t.forward(write())
}
