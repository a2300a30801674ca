package jsonutil

import (
	"testing"

	"github.com/eluv-io/errors-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsJson(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		partial bool
		want    bool
	}{
		{"empty", ``, false, true},

		{"json obj", `{"some":"prop"}`, false, true},
		{"json arr", `["one","two","three"]`, false, true},
		{"json string", `"some string"`, false, true},
		{"json int", `123456`, false, true},
		{"json float", `123456.78`, false, true},

		{"partial obj", `{"some":"pr`, true, true},
		{"partial json arr", `["one",`, true, true},
		{"partial json string", `"some `, true, true},

		{"invalid 1", `some `, false, false},
		{"invalid 2", string([]byte{0, 1, 2, 3, 4}), false, false},
		{"invalid 3", `<xml><prop bla="blub/></xml>"`, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsJson([]byte(tt.json), tt.partial))
			if !tt.want {
				// invalid JSON should be invalid regardless whether it's
				// partial or not...
				assert.Equal(t, tt.want, IsJson([]byte(tt.json), !tt.partial))
			}
			if tt.json == "" {
				// just a hack to test nil, since strings cannot be nil...
				assert.Equal(t, tt.want, IsJson(nil, tt.partial))
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		json string
		want string
	}{
		{`1`, `1`},
		{` {"@type": "g:Int32", "@value": 1} `, `{"@type":"g:Int32","@value":1}`},
		{"[\n  1,\n  2\n]", `[1,2]`},
		{`{"a b": " c d "}`, `{"a b":" c d "}`},
	}
	for _, tt := range tests {
		t.Run(tt.json, func(t *testing.T) {
			got, err := NormalizeString(tt.json)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.want, MustNormalize(tt.json))
		})
	}

	_, err := NormalizeString(`{"a":`)
	require.Error(t, err)
	require.True(t, errors.IsKind(errors.K.Invalid, err))
	require.Panics(t, func() { MustNormalize(`nope`) })
}

func TestNormalizeLoose(t *testing.T) {
	got, err := NormalizeLoose([]byte(`{
		// the type tag
		"@type": "g:Int64", /* value */ "@value": 2,
	}`))
	require.NoError(t, err)
	require.Equal(t, `{"@type":"g:Int64","@value":2}`, string(got))
}

func TestEquivalent(t *testing.T) {
	eq, err := Equivalent([]byte(`{"a": [1, 2]}`), []byte(`{"a":[1,2]}`))
	require.NoError(t, err)
	require.True(t, eq)

	eq, err = Equivalent([]byte(`{"a":1,"b":2}`), []byte(`{"b":2,"a":1}`))
	require.NoError(t, err)
	require.False(t, eq)

	_, err = Equivalent([]byte(`{`), []byte(`{}`))
	require.Error(t, err)
}

func TestPrettyOrDump(t *testing.T) {
	require.Equal(t, "[\n  1\n]", PrettyOrDump(`[1]`))
	require.Contains(t, PrettyOrDump(`not json`), `"not json"`)
}
