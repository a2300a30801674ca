package graphson

// Namespace distinguishes the built-in graph core types from extension types. The textual prefix of a namespace is
// defined by the Profile, e.g. "g" and "gx".
type Namespace int

const (
	CoreNamespace Namespace = iota
	ExtensionNamespace
)

func (n Namespace) String() string {
	switch n {
	case CoreNamespace:
		return "core"
	case ExtensionNamespace:
		return "extension"
	}
	return "unknown"
}

// Tag identifies the reconstruction procedure of an encoded value. It is rendered as "<prefix>:<name>" by
// Profile.FormatTag, e.g. "g:Int32".
type Tag struct {
	Namespace Namespace
	Name      string
}

// CoreTag returns the tag with the given name in the core namespace.
func CoreTag(name string) Tag {
	return Tag{Namespace: CoreNamespace, Name: name}
}

// ExtensionTag returns the tag with the given name in the extension namespace.
func ExtensionTag(name string) Tag {
	return Tag{Namespace: ExtensionNamespace, Name: name}
}

func (t Tag) String() string {
	return t.Namespace.String() + ":" + t.Name
}

// Names of the built-in tags.
var (
	TagInt32      = CoreTag("Int32")
	TagInt64      = CoreTag("Int64")
	TagFloat      = CoreTag("Float")
	TagDouble     = CoreTag("Double")
	TagList       = CoreTag("List")
	TagSet        = CoreTag("Set")
	TagMap        = CoreTag("Map")
	TagTraverser  = CoreTag("Traverser")
	TagP          = CoreTag("P")
	TagLambda     = CoreTag("Lambda")
	TagDate       = CoreTag("Date")
	TagTimestamp  = CoreTag("Timestamp")
	TagUUID       = CoreTag("UUID")
	TagByteBuffer = ExtensionTag("ByteBuffer")
)
