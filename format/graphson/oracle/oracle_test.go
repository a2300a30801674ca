package oracle_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/eluv-io/errors-go"
	"github.com/eluv-io/utc-go"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"

	"github.com/eluv-io/graphson-go/format/graphson"
	"github.com/eluv-io/graphson-go/format/graphson/oracle"
)

var dict = graphson.NewMap("a", int32(2), "b", 2.3)

var expected = map[string]interface{}{
	// gremlin-python-v2.yaml
	"int32":      int32(1),
	"int64":      int64(2),
	"float":      float32(3.4),
	"double":     2.3,
	"double-nan": math.NaN(),
	"null":       nil,
	"bool":       true,
	"string":     "hello",
	"traverser":  graphson.NewTraverser("hello", 3),
	"dict":       dict,
	"collection": []interface{}{graphson.NewTraverser("hello", 3), "hello", dict, true},
	"p-eq":       graphson.Eq(int64(7)),
	"p-and":      graphson.Eq(int64(7)).And(graphson.Between(int32(1), int32(2))),

	"lambda-function":   graphson.NewLambda("lambda z : 1+2", "gremlin-python", graphson.ArFunction),
	"lambda-supplier":   graphson.NewLambda("lambda : 23", "gremlin-python", graphson.ArSupplier),
	"lambda-bifunction": graphson.NewLambda("lambda z,y : z - y + 2", "gremlin-python", graphson.ArBiFunction),
	"lambda-consumer":   graphson.NewLambda("lambda z : z + 23", "gremlin-python", graphson.ArConsumer),
	"set-document":      graphson.NewSet("b", "a"),

	// gremlin-v3.jsonc
	"list": []interface{}{int32(1), "a"},
	"map":  graphson.NewMap(int32(1), "one", "two", int64(2)),
	"date": utc.UnixMilli(1481750076295),
	"uuid": uuid.FromStringOrNil("41d2e28a-20a4-4ab0-b379-d810dede3786"),
}

func TestFixtures(t *testing.T) {
	files, err := filepath.Glob("testdata/*")
	require.NoError(t, err)
	require.Len(t, files, 2)

	seen := map[string]bool{}
	for _, file := range files {
		fixtures, err := oracle.LoadFixtures(file)
		require.NoError(t, err, file)
		require.NotEmpty(t, fixtures)

		for _, f := range fixtures {
			t.Run(f.Name, func(t *testing.T) {
				want, ok := expected[f.Name]
				require.True(t, ok, "no expected value for fixture %s", f.Name)
				require.NoError(t, oracle.Check(graphson.Default(), f, want))
			})
			seen[f.Name] = true
		}
	}
	require.Len(t, seen, len(expected))
}

func TestCheckReportsDiff(t *testing.T) {
	f := &oracle.Fixture{
		Name:      "traverser",
		Profile:   "v2",
		Text:      `{"@type": "g:Traverser", "@value": {"bulk": {"@type": "g:Int64", "@value": 3}, "value": "hello"}}`,
		Canonical: true,
	}

	err := oracle.Check(graphson.Default(), f, graphson.NewTraverser("hello", 4))
	require.Error(t, err)
	require.True(t, errors.IsKind(errors.K.Invalid, err))
	diff, ok := errors.GetField(err, "diff")
	require.True(t, ok)
	require.Contains(t, diff, "--- expected")
	require.Contains(t, diff, "+++ decoded")

	// decodes to an equal value, but is not the canonical encoding
	f.Text = `{"@type": "g:Traverser", "@value": {"value": "hello", "bulk": {"@type": "g:Int64", "@value": 3}}}`
	err = oracle.Check(graphson.Default(), f, graphson.NewTraverser("hello", 3))
	require.Error(t, err)
	diff, _ = errors.GetField(err, "diff")
	require.Contains(t, diff, "--- fixture")
	require.Contains(t, diff, "+++ encoded")

	f.Canonical = false
	require.NoError(t, oracle.Check(graphson.Default(), f, graphson.NewTraverser("hello", 3)))

	f.Text = `{"@type": "g:Vertex", "@value": {}}`
	err = oracle.Check(graphson.Default(), f, nil)
	require.Error(t, err)
	var unknown *graphson.UnknownTypeError
	require.True(t, errors.As(err, &unknown))
}

func TestCustomProfile(t *testing.T) {
	profiles, err := graphson.LoadProfiles([]byte(`
profiles:
  - name: untyped
    bareTypes: [Int32, List]
    bareIntegers: int32
`))
	require.NoError(t, err)

	fixtures, err := oracle.ParseFixtures([]byte(`{"fixtures":[{"name":"bare","profile":"untyped","text":"[1, 2]","canonical":true}]}`), ".json")
	require.NoError(t, err)
	require.Len(t, fixtures, 1)

	_, err = fixtures[0].ResolveProfile()
	require.Error(t, err)
	require.True(t, errors.IsKind(errors.K.NotExist, err))

	p, err := fixtures[0].ResolveProfile(profiles...)
	require.NoError(t, err)
	require.NoError(t, oracle.CheckWithProfile(graphson.Default(), p, fixtures[0], []interface{}{int32(1), int32(2)}))
}

func TestParseFixturesErrors(t *testing.T) {
	tests := []struct {
		data string
		ext  string
	}{
		{`fixtures: [{name: a, text: "1"}]`, ".txt"},
		{`fixtures: [{text: "1"}]`, ".yaml"},
		{`fixtures: [{name: a}]`, ".yml"},
		{`fixtures: [{name: a, text: "1"}, {name: a, text: "2"}]`, ".yaml"},
		{`{"fixtures": [{"name": "a", "text": "1", "document": 1}]}`, ".json"},
		{`{"fixtures": [`, ".jsonc"},
	}
	for _, tt := range tests {
		_, err := oracle.ParseFixtures([]byte(tt.data), tt.ext)
		require.Error(t, err, tt.data)
	}

	fixtures, err := oracle.ParseFixtures([]byte(`fixtures: [{name: a, document: {"@type": "g:Int64", "@value": 1}}]`), ".YAML")
	require.NoError(t, err)
	require.Equal(t, "v2", fixtures[0].Profile)
	require.JSONEq(t, `{"@type":"g:Int64","@value":1}`, fixtures[0].Text)

	_, err = oracle.LoadFixtures("testdata/missing.yaml")
	require.Error(t, err)
}
