package jsonmap_test

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/json-mapper/jsongen"
	"github.com/lattice-substrate/json-mapper/jsonmap"
)

func marshal(t *testing.T, m *jsonmap.Mapper, v any) string {
	t.Helper()
	out, err := m.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

type point struct {
	X, Y int
}

type tagged struct {
	ID      string   `json:"id"`
	Note    string   `json:"note,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Skipped string   `json:"-"`
	Dash    string   `json:"-,"`
	hidden  int
	Ptr     *point `json:"ptr"`
}

type celsius float64

func (c celsius) WriteJSON(s jsongen.Sink, e *jsonmap.Encoder) error {
	if err := s.WriteStartObject(); err != nil {
		return err
	}
	if err := e.WriteField("celsius", float64(c)); err != nil {
		return err
	}
	return s.WriteEndObject()
}

func TestMarshalScalars(t *testing.T) {
	m := jsonmap.New()
	cases := []struct {
		in   any
		want string
	}{
		{nil, `null`},
		{true, `true`},
		{"hi", `"hi"`},
		{42, `42`},
		{int8(-8), `-8`},
		{uint64(math.MaxUint64), `18446744073709551615`},
		{1.5, `1.5`},
		{1e21, `1e+21`},
		{1e-7, `1e-7`},
		{math.Copysign(0, -1), `0`},
		{float32(0.1), `0.1`},
		{float32(1e-7), `1e-7`},
		{json.Number("12.50"), `12.50`},
		{json.Number(""), `0`},
		{[]byte("hi"), `"aGk="`},
		{(*point)(nil), `null`},
		{[]int(nil), `null`},
		{map[string]int(nil), `null`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, marshal(t, m, tc.in), "input %#v", tc.in)
	}
}

func TestMarshalComposites(t *testing.T) {
	m := jsonmap.New()

	assert.Equal(t, `[1,[2,3],[]]`, marshal(t, m, []any{1, [2]int{2, 3}, []string{}}))
	assert.Equal(t, `{"X":1,"Y":2}`, marshal(t, m, point{1, 2}))
	assert.Equal(t, `{"1":"a","10":"c","2":"b"}`, marshal(t, m, map[int]string{2: "b", 10: "c", 1: "a"}))
	assert.Equal(t, `{"a":{"b":[true]}}`, marshal(t, m, map[string]any{"a": map[string][]bool{"b": {true}}}))
}

func TestMarshalStructTags(t *testing.T) {
	m := jsonmap.New()

	got := marshal(t, m, tagged{ID: "x", Skipped: "s", Dash: "d", hidden: 1})
	assert.Equal(t, `{"id":"x","-":"d","ptr":null}`, got)

	got = marshal(t, m, tagged{ID: "x", Note: "n", Tags: []string{"a"}, Ptr: &point{3, 4}})
	assert.Equal(t, `{"id":"x","note":"n","tags":["a"],"-":"","ptr":{"X":3,"Y":4}}`, got)
}

func TestMarshalSortedFields(t *testing.T) {
	m := jsonmap.New(jsonmap.WithSortedFields())
	assert.Equal(t, `{"-":"","id":"x","ptr":null}`, marshal(t, m, tagged{ID: "x"}))
}

func TestMarshalConflictingFieldNames(t *testing.T) {
	type bothTagged struct {
		A int `json:"x"`
		B int `json:"x"`
		C int `json:"c"`
	}
	type oneTagged struct {
		X int
		Y int `json:"X"`
	}
	canonical := jsonmap.New(jsonmap.WithCanonical())

	assert.Equal(t, `{"c":3}`, marshal(t, canonical, bothTagged{1, 2, 3}))
	assert.Equal(t, `{"c":3}`, marshal(t, jsonmap.Default, bothTagged{1, 2, 3}))
	assert.Equal(t, `{"X":2}`, marshal(t, canonical, oneTagged{1, 2}))
}

func TestMarshalSerializable(t *testing.T) {
	assert.Equal(t, `[{"celsius":21.5}]`, marshal(t, jsonmap.Default, []celsius{21.5}))
}

func TestRegisteredWriterOverridesSerializable(t *testing.T) {
	m := jsonmap.New(jsonmap.WriterFor[celsius](jsonmap.WriterFunc(
		func(v any, s jsongen.Sink, _ *jsonmap.Encoder) error {
			return s.WriteString("warm")
		})))
	assert.Equal(t, `"warm"`, marshal(t, m, celsius(30)))
}

func TestRegisteredWriterOverridesBuiltin(t *testing.T) {
	type upper string
	m := jsonmap.New(jsonmap.WriterFor[upper](jsonmap.WriterFunc(
		func(v any, s jsongen.Sink, _ *jsonmap.Encoder) error {
			return s.WriteString(strings.ToUpper(string(v.(upper))))
		})))
	assert.Equal(t, `["ABC","def"]`, marshal(t, m, []any{upper("abc"), "def"}))
}

func TestCustomWriterRecursesThroughEncoder(t *testing.T) {
	type pair struct{ L, R any }
	m := jsonmap.New(jsonmap.WriterFor[pair](jsonmap.WriterFunc(
		func(v any, s jsongen.Sink, e *jsonmap.Encoder) error {
			p := v.(pair)
			if err := s.WriteStartArray(); err != nil {
				return err
			}
			if err := e.WriteElement(0, p.L); err != nil {
				return err
			}
			if err := e.WriteElement(1, p.R); err != nil {
				return err
			}
			return s.WriteEndArray()
		})))
	assert.Equal(t, `[1,[2,"x"]]`, marshal(t, m, pair{1, pair{2, "x"}}))
}

func TestInvalidNumberLiteral(t *testing.T) {
	_, err := jsonmap.Marshal(map[string]any{"n": json.Number("01")})
	me := requireMappingError(t, err)
	assert.Equal(t, "$.n", me.Path.String())
	assert.Contains(t, me.Error(), `json.Number "01"`)
}

func TestInfinityFloat32(t *testing.T) {
	_, err := jsonmap.Marshal(float32(math.Inf(1)))
	me := requireMappingError(t, err)
	var uve *jsonmap.UnsupportedValueError
	require.ErrorAs(t, me.Cause, &uve)
	assert.Equal(t, "+Inf", uve.Str)
}

func TestUnsupportedMapKey(t *testing.T) {
	_, err := jsonmap.Marshal(map[point]int{{1, 2}: 3})
	me := requireMappingError(t, err)
	var ute *jsonmap.UnsupportedTypeError
	require.ErrorAs(t, me.Cause, &ute)
	assert.Equal(t, reflect.TypeOf((*map[point]int)(nil)).Elem(), ute.Type)
}

func TestIndentedOutput(t *testing.T) {
	m := jsonmap.New(jsonmap.WithIndent("\t"))
	assert.Equal(t, "{\n\t\"X\": 1,\n\t\"Y\": 2\n}", marshal(t, m, point{1, 2}))
}

func TestGeneratorMixesTokensAndValues(t *testing.T) {
	var buf strings.Builder
	g := jsonmap.New().NewGenerator(&buf)

	require.NoError(t, g.WriteStartObject())
	require.NoError(t, g.WriteFieldName("p"))
	require.NoError(t, g.WriteValue(point{1, 2}))
	require.NoError(t, g.WriteFieldName("n"))
	require.NoError(t, g.WriteValue(4))
	require.NoError(t, g.WriteEndObject())

	assert.Equal(t, `{"p":{"X":1,"Y":2},"n":4}`, buf.String())
}

func TestMapperIsSafeForConcurrentUse(t *testing.T) {
	m := jsonmap.New(jsonmap.WithCanonical())
	value := map[string]any{
		"z": []any{1, 2.5, "three"},
		"a": map[string]point{"p": {1, 2}},
	}
	want := marshal(t, m, value)

	var wg sync.WaitGroup
	results := make([]string, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := m.Marshal(value)
			results[i], errs[i] = string(out), err
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}
