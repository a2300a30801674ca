/*
Package graphson encodes and decodes values in GraphSON, the typed JSON format
used by graph databases to exchange traversal results and bytecode arguments.

JSON cannot distinguish a 32-bit from a 64-bit integer, a set from a list, or a
map with non-string keys from an object. GraphSON therefore wraps such values in
a tagged envelope:

	{"@type":"g:Int32","@value":1}
	{"@type":"g:Traverser","@value":{"bulk":{"@type":"g:Int64","@value":3},"value":"hello"}}

Strings, booleans and null are always written as bare JSON literals. Which other
types are written bare, how tags are spelled and what untagged numbers decode to
is defined by a Profile. V2 and V3 are built in; more profiles can be loaded with
LoadProfiles. A profile must be passed to every Encode and Decode call, and text
must be decoded with the profile it was encoded with.

Values are represented by plain Go types where possible (int32, int64, float32,
float64, string, bool, nil, []interface{}) and by the types of this package
otherwise: Set, Map, Traverser, P and Lambda. Dates are utc.UTC values, UUIDs are
satori uuid.UUID values and byte buffers are []byte.

The mapping between Go types, tags and codecs is held in a Registry. The default
registry contains all built-in types; additional types are added with
Registry.Register:

	err := graphson.Register(graphson.ExtensionTag("Point"), reflect.TypeOf(Point{}), pointCodec)

Register all types during initialization and call Freeze before the registry is
used from multiple goroutines. Encoding and decoding do not modify the registry
and are safe for concurrent use afterwards.

Values produced by Decode are compared with Equal, which treats lists as
ordered, sets and maps as unordered, and numbers of different widths as
different values.
*/
package graphson
