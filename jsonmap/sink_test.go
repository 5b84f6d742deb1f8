package jsonmap_test

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// recorder is a Sink that records tokens and, when failAt > 0, fails the
// failAt-th append (1-based) and every append after it with err.
type recorder struct {
	tokens []string
	calls  int
	failAt int
	err    error
}

func (r *recorder) add(tok string) error {
	r.calls++
	if r.failAt > 0 && r.calls >= r.failAt {
		return r.err
	}
	r.tokens = append(r.tokens, tok)
	return nil
}

func (r *recorder) WriteStartArray() error { return r.add("[") }
func (r *recorder) WriteEndArray() error { return r.add("]") }
func (r *recorder) WriteStartObject() error { return r.add("{") }
func (r *recorder) WriteEndObject() error { return r.add("}") }
func (r *recorder) WriteFieldName(n string) error { return r.add("name:" + n) }
func (r *recorder) WriteString(s string) error { return r.add(strconv.Quote(s)) }
func (r *recorder) WriteNumber(lit string) error { return r.add(lit) }
func (r *recorder) WriteBool(b bool) error { return r.add(strconv.FormatBool(b)) }
func (r *recorder) WriteNull() error { return r.add("null") }

// requireBalanced fails unless every start token has a matching end token.
func requireBalanced(t *testing.T, tokens []string) {
	t.Helper()
	var stack []string
	for _, tok := range tokens {
		switch tok {
		case "[", "{":
			stack = append(stack, tok)
		case "]", "}":
			want := map[string]string{"]": "[", "}": "{"}[tok]
			if len(stack) == 0 || stack[len(stack)-1] != want {
				t.Fatalf("unbalanced token stream:\n%s", spew.Sdump(tokens))
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		t.Fatalf("unclosed structures %v in token stream:\n%s", stack, spew.Sdump(tokens))
	}
}

// brokenWriter is an io.Writer that accepts ok writes and then fails with err.
type brokenWriter struct {
	ok    int
	calls int
	err   error
	buf   bytes.Buffer
}

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.calls++
	if w.calls > w.ok {
		return 0, w.err
	}
	return w.buf.Write(p)
}
