package graphson

import (
	"strings"

	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/graphson-go/util/jsonutil"
)

// NumberRule defines the Go type that bare JSON numbers decode to.
type NumberRule string

const (
	NumDouble NumberRule = "double" // float64
	NumFloat  NumberRule = "float"  // float32
	NumInt32  NumberRule = "int32"  // int32, fails if out of range
	NumInt64  NumberRule = "int64"  // int64
	NumAuto   NumberRule = "auto"   // int32 if it fits, int64 otherwise
)

// DefaultMaxDepth is the nesting limit used if a profile does not define one.
const DefaultMaxDepth = 1000

// Profile holds the conventions of one format version: how type tags are named, which types are written as bare JSON
// literals instead of tagged envelopes, and what bare numbers decode to.
//
// A profile is selected for every encode and decode call. Decoding text with a different profile than the one it was
// encoded with is a caller error: the result is undefined (but never a crash) unless the tags disambiguate.
type Profile struct {
	Name               string     `json:"name"`
	MimeType           string     `json:"mimeType"`
	TypeKey            string     `json:"typeKey"`
	ValueKey           string     `json:"valueKey"`
	CoreNamespace      string     `json:"coreNamespace"`
	ExtensionNamespace string     `json:"extensionNamespace"`
	BareTypes          []string   `json:"bareTypes"`    // names of core tags written without envelope
	BareIntegers       NumberRule `json:"bareIntegers"` // decoding of bare numbers without fraction or exponent
	BareFloats         NumberRule `json:"bareFloats"`   // decoding of bare numbers with fraction or exponent
	MaxDepth           int        `json:"maxDepth"`
}

var (
	// V2 is the GraphSON 2.0 profile: numbers and domain types are tagged, lists are bare JSON arrays.
	V2 = &Profile{
		Name:               "v2",
		MimeType:           "application/vnd.gremlin-v2.0+json",
		TypeKey:            "@type",
		ValueKey:           "@value",
		CoreNamespace:      "g",
		ExtensionNamespace: "gx",
		BareTypes:          []string{TagList.Name},
		BareIntegers:       NumDouble,
		BareFloats:         NumDouble,
		MaxDepth:           DefaultMaxDepth,
	}

	// V3 is the GraphSON 3.0 profile: like V2, but lists are tagged as well.
	V3 = &Profile{
		Name:               "v3",
		MimeType:           "application/vnd.gremlin-v3.0+json",
		TypeKey:            "@type",
		ValueKey:           "@value",
		CoreNamespace:      "g",
		ExtensionNamespace: "gx",
		BareTypes:          []string{},
		BareIntegers:       NumDouble,
		BareFloats:         NumDouble,
		MaxDepth:           DefaultMaxDepth,
	}

	builtinProfiles = []*Profile{V2, V3}
)

// ProfileByName returns the built-in profile with the given name (case-insensitive).
func ProfileByName(name string) (*Profile, bool) {
	for _, p := range builtinProfiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// ProfileByMimeType returns the built-in profile with the given mime type.
func ProfileByMimeType(mimeType string) (*Profile, bool) {
	for _, p := range builtinProfiles {
		if p.MimeType == mimeType {
			return p, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	res := *p
	if p.BareTypes != nil {
		res.BareTypes = append([]string{}, p.BareTypes...)
	}
	return &res
}

// Validate checks that the profile is usable for encoding and decoding.
func (p *Profile) Validate() error {
	e := errors.Template("Profile.Validate", errors.K.Invalid, "profile", p.Name)
	switch {
	case p.TypeKey == "":
		return e("reason", "type key missing")
	case p.ValueKey == "":
		return e("reason", "value key missing")
	case p.TypeKey == p.ValueKey:
		return e("reason", "type key and value key must differ", "key", p.TypeKey)
	case p.CoreNamespace == "" || p.ExtensionNamespace == "":
		return e("reason", "namespace prefix missing")
	case p.CoreNamespace == p.ExtensionNamespace:
		return e("reason", "core and extension namespace must differ", "namespace", p.CoreNamespace)
	case strings.Contains(p.CoreNamespace, ":") || strings.Contains(p.ExtensionNamespace, ":"):
		return e("reason", "namespace prefix must not contain ':'")
	}
	switch p.BareIntegers {
	case NumDouble, NumFloat, NumInt32, NumInt64, NumAuto:
	default:
		return e("reason", "invalid bare integer rule", "rule", p.BareIntegers)
	}
	switch p.BareFloats {
	case NumDouble, NumFloat:
	default:
		return e("reason", "invalid bare float rule", "rule", p.BareFloats)
	}
	for _, name := range p.BareTypes {
		switch name {
		case TagInt32.Name, TagInt64.Name, TagFloat.Name, TagDouble.Name, TagList.Name:
		default:
			// only types that have a natural JSON literal can be bare
			return e("reason", "type cannot be written bare", "type", name)
		}
	}
	if p.MaxDepth < 0 {
		return e("reason", "negative max depth", "max_depth", p.MaxDepth)
	}
	return nil
}

// FormatTag renders the tag as "<namespace prefix>:<name>".
func (p *Profile) FormatTag(t Tag) string {
	prefix := p.CoreNamespace
	if t.Namespace == ExtensionNamespace {
		prefix = p.ExtensionNamespace
	}
	return prefix + ":" + t.Name
}

// ParseTag parses a rendered tag. Returns false if the prefix is not one of the profile's namespaces.
func (p *Profile) ParseTag(s string) (Tag, bool) {
	idx := strings.IndexByte(s, ':')
	if idx <= 0 || idx == len(s)-1 {
		return Tag{}, false
	}
	switch s[:idx] {
	case p.CoreNamespace:
		return CoreTag(s[idx+1:]), true
	case p.ExtensionNamespace:
		return ExtensionTag(s[idx+1:]), true
	}
	return Tag{}, false
}

// IsBare returns true if values of the given type are written as bare JSON literals.
func (p *Profile) IsBare(t Tag) bool {
	if t.Namespace != CoreNamespace {
		return false
	}
	for _, name := range p.BareTypes {
		if name == t.Name {
			return true
		}
	}
	return false
}

// Normalize removes insignificant whitespace from an encoding, so that texts produced by different writers of this
// profile can be compared byte by byte.
func (p *Profile) Normalize(text []byte) ([]byte, error) {
	return jsonutil.Normalize(text)
}

func (p *Profile) maxDepth() int {
	if p.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

func (p *Profile) String() string {
	return p.Name
}
