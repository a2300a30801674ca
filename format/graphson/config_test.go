package graphson_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eluv-io/graphson-go/format/graphson"
)

const profilesYaml = `
profiles:
  - name: v2-untyped
    mimeType: application/vnd.gremlin-v2.0+json;types=false
    bareTypes: [Int32, Double, List]
    bareIntegers: int32
  - base: v3
    name: v3-custom
    typeKey: "$t"
    valueKey: "$v"
    coreNamespace: core
    extensionNamespace: ext
    maxDepth: 20
`

func TestLoadProfiles(t *testing.T) {
	profiles, err := graphson.LoadProfiles([]byte(profilesYaml))
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	untyped := profiles[0]
	require.Equal(t, "v2-untyped", untyped.Name)
	require.Equal(t, []string{"Int32", "Double", "List"}, untyped.BareTypes)
	require.Equal(t, graphson.NumInt32, untyped.BareIntegers)
	require.Equal(t, graphson.NumDouble, untyped.BareFloats)
	require.Equal(t, "@type", untyped.TypeKey)

	custom := profiles[1]
	require.Equal(t, "$t", custom.TypeKey)
	require.Equal(t, 20, custom.MaxDepth)
	require.Empty(t, custom.BareTypes)

	// built-ins are not modified by overlays
	require.Equal(t, []string{"List"}, graphson.V2.BareTypes)
	require.Equal(t, "@type", graphson.V3.TypeKey)
}

func TestUntypedProfile(t *testing.T) {
	profiles, err := graphson.LoadProfiles([]byte(profilesYaml))
	require.NoError(t, err)
	untyped := profiles[0]

	// bare output matches a plain JSON encoder
	text, err := graphson.EncodeString([]interface{}{int32(1), 2.5, int64(3)}, untyped)
	require.NoError(t, err)
	require.Equal(t, `[1,2.5,{"@type":"g:Int64","@value":3}]`, text)

	v, err := graphson.DecodeString(text, untyped)
	require.NoError(t, err)
	require.Equal(t, []interface{}{int32(1), 2.5, int64(3)}, v)
}

func TestCustomKeysProfile(t *testing.T) {
	profiles, err := graphson.LoadProfiles([]byte(profilesYaml))
	require.NoError(t, err)
	custom := profiles[1]

	text, err := graphson.EncodeString([]interface{}{[]byte{1}, int32(1)}, custom)
	require.NoError(t, err)
	require.Equal(t,
		`{"$t":"core:List","$v":[{"$t":"ext:ByteBuffer","$v":"AQ=="},{"$t":"core:Int32","$v":1}]}`,
		text)

	v, err := graphson.DecodeString(text, custom)
	require.NoError(t, err)
	require.True(t, graphson.Equal([]interface{}{[]byte{1}, int32(1)}, v))

	// the V3 tag prefixes are unknown to the custom profile
	_, err = graphson.DecodeString(`{"@type":"g:Int32","@value":1}`, custom)
	require.NoError(t, err, "no envelope for this profile: plain object")
	_, err = graphson.DecodeString(`{"$t":"g:Int32","$v":1}`, custom)
	require.Error(t, err)
}

func TestLoadProfilesErrors(t *testing.T) {
	for _, cfg := range []string{
		`profiles: [{name: x, unknownField: 1}]`,
		`profiles: [{base: v9, name: x}]`,
		`profiles: [{base: 2, name: x}]`,
		`profiles: [{bareTypes: [List]}]`,
		`profiles: [{name: x, bareTypes: [Map]}]`,
		`profiles: [{name: x, bareFloats: int32}]`,
		`profiles: [{name: x, typeKey: "@value"}]`,
		`profiles: [{name: x, coreNamespace: gx}]`,
		`profiles: [{name: x, maxDepth: -1}]`,
		`profiles: {`,
	} {
		_, err := graphson.LoadProfiles([]byte(cfg))
		require.Error(t, err, cfg)
	}
}

func TestProfileLookup(t *testing.T) {
	p, ok := graphson.ProfileByName("V2")
	require.True(t, ok)
	require.Equal(t, graphson.V2, p)

	p, ok = graphson.ProfileByMimeType("application/vnd.gremlin-v3.0+json")
	require.True(t, ok)
	require.Equal(t, graphson.V3, p)

	_, ok = graphson.ProfileByName("v1")
	require.False(t, ok)

	require.NoError(t, graphson.V2.Validate())
	require.NoError(t, graphson.V3.Validate())
}

func TestProfileTags(t *testing.T) {
	require.Equal(t, "g:Int32", graphson.V2.FormatTag(graphson.TagInt32))
	require.Equal(t, "gx:ByteBuffer", graphson.V2.FormatTag(graphson.TagByteBuffer))

	tag, ok := graphson.V2.ParseTag("gx:ByteBuffer")
	require.True(t, ok)
	require.Equal(t, graphson.TagByteBuffer, tag)

	for _, s := range []string{"", "g:", ":Int32", "Int32", "x:Int32"} {
		_, ok = graphson.V2.ParseTag(s)
		require.False(t, ok, s)
	}

	require.True(t, graphson.V2.IsBare(graphson.TagList))
	require.False(t, graphson.V3.IsBare(graphson.TagList))
	require.False(t, graphson.V2.IsBare(graphson.ExtensionTag("List")))
}

func TestProfileNormalize(t *testing.T) {
	norm, err := graphson.V2.Normalize([]byte("{ \"@type\" : \"g:Int32\",\n  \"@value\" : 1 }\n"))
	require.NoError(t, err)
	require.Equal(t, `{"@type":"g:Int32","@value":1}`, string(norm))
}
