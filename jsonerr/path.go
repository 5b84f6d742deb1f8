package jsonerr

import (
	"strconv"
	"strings"
)

// Step is one hop of a reference chain: either an element of a sequence or a
// member of an object.
type Step struct {
	Index  int
	Name   string
	Member bool
}

// IndexStep returns the step for sequence element i.
func IndexStep(i int) Step { return Step{Index: i} }

// MemberStep returns the step for the object member called name.
func MemberStep(name string) Step { return Step{Name: name, Member: true} }

// Path locates a value inside the graph being written, root first.
type Path []Step

// String renders the path as $, $[0], $.name or $["odd key"].
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		switch {
		case !s.Member:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
		case isIdent(s.Name):
			b.WriteByte('.')
			b.WriteString(s.Name)
		default:
			b.WriteByte('[')
			b.WriteString(strconv.Quote(s.Name))
			b.WriteByte(']')
		}
	}
	return b.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
