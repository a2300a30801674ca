package graphson

import (
	"reflect"
	"sort"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"
	"go.uber.org/atomic"
)

var log = elog.Get("/eluvio/graphson")

// TypeCodec converts values of one registered type to and from the payload of a tagged envelope. Payloads are generic
// JSON trees (see Object). Nested values are converted with Encoder.EncodeValue and Decoder.DecodeValue, so that they
// are tagged according to the active profile.
type TypeCodec interface {
	// EncodeType returns the payload for the given value.
	EncodeType(enc *Encoder, v interface{}) (interface{}, error)
	// DecodeType reconstructs a value from the given payload.
	DecodeType(dec *Decoder, payload interface{}) (interface{}, error)
}

// EncodeFn is the function form of TypeCodec.EncodeType.
type EncodeFn func(enc *Encoder, v interface{}) (interface{}, error)

// DecodeFn is the function form of TypeCodec.DecodeType.
type DecodeFn func(dec *Decoder, payload interface{}) (interface{}, error)

// TypeCodecFns creates a TypeCodec from a pair of functions.
type TypeCodecFns struct {
	Encode EncodeFn
	Decode DecodeFn
}

func (f TypeCodecFns) EncodeType(enc *Encoder, v interface{}) (interface{}, error) {
	if f.Encode == nil {
		return nil, &UnsupportedTypeError{Type: reflect.TypeOf(v)}
	}
	return f.Encode(enc, v)
}

func (f TypeCodecFns) DecodeType(dec *Decoder, payload interface{}) (interface{}, error) {
	if f.Decode == nil {
		return nil, malformed("", "", "type cannot be decoded")
	}
	return f.Decode(dec, payload)
}

////////////////////////////////////////////////////////////////////////////////

// Registry maps Go types to type tags and type tags to codecs. It is shared by encoding and decoding: the codec
// registered last for a tag is used in both directions.
//
// Registration is not synchronized: register all types during initialization, then call Freeze before the registry
// is used concurrently. Lookups on a registry that is no longer modified are safe for concurrent use.
type Registry struct {
	byType map[reflect.Type]Tag
	byTag  map[Tag]TypeCodec
	frozen *atomic.Bool
}

var defaultRegistry = NewRegistry()

// Default returns the registry used by the package-level Encode and Decode functions.
func Default() *Registry {
	return defaultRegistry
}

// Register registers a codec with the default registry. See Registry.Register.
func Register(tag Tag, typ reflect.Type, codec TypeCodec) error {
	return defaultRegistry.Register(tag, typ, codec)
}

// NewRegistry creates a registry containing all built-in types.
func NewRegistry() *Registry {
	r := newEmptyRegistry()
	registerBuiltins(r)
	return r
}

func newEmptyRegistry() *Registry {
	return &Registry{
		byType: map[reflect.Type]Tag{},
		byTag:  map[Tag]TypeCodec{},
		frozen: atomic.NewBool(false),
	}
}

// Register associates the tag with the codec, and the Go type typ with the tag. The type may be nil to register a
// decode-only tag. Registering an existing tag or type again replaces the previous registration. Returns an error if
// the registry is frozen or the arguments are incomplete.
func (r *Registry) Register(tag Tag, typ reflect.Type, codec TypeCodec) error {
	e := errors.Template("Registry.Register", errors.K.Invalid, "tag", tag)
	if r.frozen.Load() {
		return e("reason", "registry is frozen")
	}
	if tag.Name == "" {
		return e("reason", "tag name missing")
	}
	if codec == nil {
		return e("reason", "codec missing")
	}

	if _, exists := r.byTag[tag]; exists {
		log.Debug("replacing codec registration", "tag", tag)
	}
	r.byTag[tag] = codec
	if typ != nil {
		if prev, exists := r.byType[typ]; exists && prev != tag {
			log.Debug("re-tagging type", "type", typ, "old_tag", prev, "tag", tag)
		}
		r.byType[typ] = tag
	}
	return nil
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.frozen.Store(true)
}

// IsFrozen returns true if Freeze has been called.
func (r *Registry) IsFrozen() bool {
	return r.frozen.Load()
}

// Clone returns an unfrozen copy of the registry.
func (r *Registry) Clone() *Registry {
	c := newEmptyRegistry()
	for k, v := range r.byType {
		c.byType[k] = v
	}
	for k, v := range r.byTag {
		c.byTag[k] = v
	}
	return c
}

// EncoderFor returns the tag and codec registered for the given type. Fails with UnsupportedTypeError if the type is
// not registered.
func (r *Registry) EncoderFor(typ reflect.Type) (Tag, TypeCodec, error) {
	tag, ok := r.byType[typ]
	if !ok {
		return Tag{}, nil, &UnsupportedTypeError{Type: typ}
	}
	return tag, r.byTag[tag], nil
}

// DecoderFor returns the codec registered for the given tag. Fails with UnknownTypeError if the tag is not
// registered.
func (r *Registry) DecoderFor(tag Tag) (TypeCodec, error) {
	codec, ok := r.byTag[tag]
	if !ok {
		return nil, &UnknownTypeError{Tag: tag.String()}
	}
	return codec, nil
}

// Tags returns all registered tags, sorted by namespace and name.
func (r *Registry) Tags() []Tag {
	tags := make([]Tag, 0, len(r.byTag))
	for tag := range r.byTag {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Namespace != tags[j].Namespace {
			return tags[i].Namespace < tags[j].Namespace
		}
		return tags[i].Name < tags[j].Name
	})
	return tags
}
