package jsonmap

import (
	"reflect"
	"slices"
	"strings"
	"unicode/utf16"
)

type field struct {
	name      string
	index     int
	omitEmpty bool
	tagged    bool
}

// fieldsOf lists the exported fields of struct type t in output order.
// The json tag renames a field, "-" drops it and the omitempty option skips
// empty values. When several fields share a name, the single tagged one
// wins; otherwise all of them are dropped.
func (m *Mapper) fieldsOf(t reflect.Type) []field {
	fields := make([]field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		tagged := name != ""
		if !tagged {
			name = sf.Name
		}
		fields = append(fields, field{name: name, index: i, omitEmpty: hasOption(opts, "omitempty"), tagged: tagged})
	}
	fields = dropConflicts(fields)
	if m.sortFields || m.canonical {
		slices.SortStableFunc(fields, func(a, b field) int {
			return m.compareNames(a.name, b.name)
		})
	}
	return fields
}

func dropConflicts(fields []field) []field {
	byName := make(map[string][]int, len(fields))
	for i, f := range fields {
		byName[f.name] = append(byName[f.name], i)
	}
	keep := make([]field, 0, len(fields))
	for i, f := range fields {
		same := byName[f.name]
		if len(same) == 1 {
			keep = append(keep, f)
			continue
		}
		winner := -1
		for _, j := range same {
			if fields[j].tagged {
				if winner >= 0 {
					winner = -1
					break
				}
				winner = j
			}
		}
		if winner == i {
			keep = append(keep, f)
		}
	}
	return keep
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == want {
			return true
		}
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}

// compareNames orders object member names: by UTF-16 code units in
// canonical mode, by bytes otherwise.
func (m *Mapper) compareNames(a, b string) int {
	if m.canonical {
		return compareUTF16(a, b)
	}
	return strings.Compare(a, b)
}

// compareUTF16 compares two Go strings by their UTF-16 code-unit arrays,
// as required by RFC 8785 §3.2.3.
//
// For BMP-only strings, this produces the same order as a simple byte
// comparison. It diverges for supplementary-plane characters (U+10000+),
// where UTF-16 surrogate pair code units sort differently than the
// corresponding UTF-8 byte sequences.
func compareUTF16(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	return slices.Compare(ua, ub)
}
