package jsonmap_test

import (
	"bytes"
	"encoding/json"
	"testing"

	cyberphone "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/stretchr/testify/require"

	"github.com/lattice-substrate/json-mapper/jsonmap"
)

func decodeDocument(t *testing.T, in string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(in)))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

// Canonical mode of the built-in writers must agree byte for byte with the
// Cyberphone reference canonicalizer.
func TestCanonicalMatchesCyberphone(t *testing.T) {
	m := jsonmap.New(jsonmap.WithCanonical())

	cases := []struct {
		name  string
		input string
	}{
		{"whitespace", `{ "a" : 1 }`},
		{"sorted_keys", `{"z":3,"a":1}`},
		{"recursive_sort", `{"b":[{"z":1,"a":2}],"a":3}`},
		{"utf16_sort_divergence", "{\"\ue000\":1,\"\U00010000\":2}"},
		{"numbers", `[1e20,1e21,1e-7,0.1,-0,123.456e10,4.50,-1.0]`},
		{"escapes", `["a\"b\\c","tab\there","line\nfeed","é€"]`},
		{"literals", `[true,false,null,{}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want, err := cyberphone.Transform([]byte(tc.input))
			require.NoError(t, err)

			got, err := m.Marshal(decodeDocument(t, tc.input))
			require.NoError(t, err)
			require.Equal(t, string(want), string(got))
		})
	}
}

func TestCanonicalStructFieldOrder(t *testing.T) {
	type doc struct {
		Zeta  int    `json:"zeta"`
		Alpha string `json:"alpha"`
		Mid   []int  `json:"mid"`
	}
	m := jsonmap.New(jsonmap.WithCanonical())

	got, err := m.Marshal(doc{Zeta: 1, Alpha: "a", Mid: []int{2}})
	require.NoError(t, err)

	want, err := cyberphone.Transform(got)
	require.NoError(t, err)
	require.Equal(t, `{"alpha":"a","mid":[2],"zeta":1}`, string(got))
	require.Equal(t, string(want), string(got))
}
