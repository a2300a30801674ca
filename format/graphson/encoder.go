package graphson

import (
	"bytes"
	"math"
	"reflect"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/eluv-io/errors-go"

	"github.com/eluv-io/graphson-go/util/ifutil"
)

// Encode encodes the value with the default registry. See Registry.Encode.
func Encode(v interface{}, p *Profile) ([]byte, error) {
	return defaultRegistry.Encode(v, p)
}

// EncodeString is like Encode, but returns a string.
func EncodeString(v interface{}, p *Profile) (string, error) {
	return defaultRegistry.EncodeString(v, p)
}

// EncodeString is like Registry.Encode, but returns a string.
func (r *Registry) EncodeString(v interface{}, p *Profile) (string, error) {
	text, err := r.Encode(v, p)
	return string(text), err
}

// Encode converts the value to its tagged JSON text according to the given profile. The text is compact and
// canonical: encoding equal values yields identical bytes. Nothing is returned if encoding fails.
func (r *Registry) Encode(v interface{}, p *Profile) ([]byte, error) {
	if p == nil {
		return nil, errors.E("graphson.Encode", errors.K.Invalid, "reason", "profile missing")
	}
	enc := &Encoder{
		reg:     r,
		profile: p,
		onPath:  map[identity]bool{},
	}
	node, err := enc.EncodeValue(v)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	err = writeNode(buf, node)
	if err != nil {
		return nil, errors.E("graphson.Encode", errors.K.Internal, err)
	}
	return buf.Bytes(), nil
}

// Encoder converts values to generic JSON trees. It is created per Encode call and passed to the TypeCodecs of the
// encoded values.
type Encoder struct {
	reg     *Registry
	profile *Profile
	onPath  map[identity]bool // composites currently being encoded
	depth   int
}

// identity of a composite value: pointer or slice header. The length distinguishes sub-slices sharing an array.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// Profile returns the profile of the current encode call.
func (enc *Encoder) Profile() *Profile {
	return enc.profile
}

// EncodeValue converts the value to a JSON node, wrapped in a tagged envelope unless the profile writes the value's
// type as a bare literal.
func (enc *Encoder) EncodeValue(v interface{}) (interface{}, error) {
	orig := v
	v, err := normalize(v)
	if err != nil {
		return nil, err
	}

	switch v.(type) {
	case nil, bool, string:
		return v, nil
	}

	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Ptr && ifutil.IsNil(v) {
		return nil, errors.E("graphson.Encode", errors.K.Invalid, &UnsupportedTypeError{Type: typ},
			"reason", "nil pointer",
			"type", typ.String())
	}
	tag, codec, err := enc.reg.EncoderFor(typ)
	if err != nil {
		return nil, errors.E("graphson.Encode", errors.K.NotImplemented, err,
			"type", typ.String(),
			"value_dump", spew.Sdump(v))
	}

	// identity of the original value: normalized go maps are new objects on every visit
	leave, err := enc.enter(orig)
	if err != nil {
		return nil, err
	}
	payload, err := codec.EncodeType(enc, v)
	leave()
	if err != nil {
		return nil, enc.wrap(err, tag)
	}

	if enc.profile.IsBare(tag) {
		return payload, nil
	}
	return Object{
		{Key: enc.profile.TypeKey, Value: enc.profile.FormatTag(tag)},
		{Key: enc.profile.ValueKey, Value: payload},
	}, nil
}

// enter marks the value as being encoded and returns the function that unmarks it. Fails if the value is already
// being encoded further up, i.e. it contains itself.
func (enc *Encoder) enter(v interface{}) (leave func(), err error) {
	if enc.depth >= enc.profile.maxDepth() {
		return nil, errors.E("graphson.Encode", errors.K.Invalid,
			"reason", "max depth exceeded",
			"max_depth", enc.profile.maxDepth())
	}

	id, ok := identityOf(v)
	if ok && enc.onPath[id] {
		return nil, errors.E("graphson.Encode", errors.K.Invalid, &CyclicStructureError{Type: id.typ})
	}

	enc.depth++
	if ok {
		enc.onPath[id] = true
	}
	return func() {
		enc.depth--
		if ok {
			delete(enc.onPath, id)
		}
	}, nil
}

func (enc *Encoder) wrap(err error, tag Tag) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	kind := errors.K.Invalid
	if _, ok := err.(*UnsupportedTypeError); ok {
		kind = errors.K.NotImplemented
	}
	return errors.E("graphson.Encode", kind, err, "tag", enc.profile.FormatTag(tag))
}

func identityOf(v interface{}) (identity, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map:
		if rv.IsNil() {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}, false
		}
		return identity{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}, true
	}
	return identity{}, false
}

// normalize converts convenience Go types to the types of the value model.
func normalize(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case int:
		return narrowInt(int64(x)), nil
	case int8:
		return int32(x), nil
	case int16:
		return int32(x), nil
	case uint8:
		return int32(x), nil
	case uint16:
		return int32(x), nil
	case uint32:
		return narrowInt(int64(x)), nil
	case uint:
		return narrowUint(uint64(x))
	case uint64:
		return narrowUint(x)
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := &Map{entries: make([]MapEntry, 0, len(keys))}
		for _, k := range keys {
			m.entries = append(m.entries, MapEntry{Key: k, Value: x[k]})
		}
		return m, nil
	}
	return v, nil
}

func narrowInt(i int64) interface{} {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return int32(i)
	}
	return i
}

func narrowUint(u uint64) (interface{}, error) {
	if u > math.MaxInt64 {
		return nil, errors.E("graphson.Encode", errors.K.NotImplemented,
			&UnsupportedTypeError{Type: reflect.TypeOf(u)},
			"reason", "value exceeds int64",
			"value", u)
	}
	return narrowInt(int64(u)), nil
}
