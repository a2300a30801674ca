package graphson

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/eluv-io/errors-go"
)

// Decode decodes the text with the default registry. See Registry.Decode.
func Decode(text []byte, p *Profile) (interface{}, error) {
	return defaultRegistry.Decode(text, p)
}

// DecodeString is like Decode, but takes a string.
func DecodeString(text string, p *Profile) (interface{}, error) {
	return defaultRegistry.Decode([]byte(text), p)
}

// DecodeString is like Registry.Decode, but takes a string.
func (r *Registry) DecodeString(text string, p *Profile) (interface{}, error) {
	return r.Decode([]byte(text), p)
}

// Decode reconstructs a value from tagged JSON text according to the given profile. Tagged envelopes are dispatched
// to the codecs registered for their tags. A value is only returned if the complete text was decoded successfully.
func (r *Registry) Decode(text []byte, p *Profile) (interface{}, error) {
	if p == nil {
		return nil, errors.E("graphson.Decode", errors.K.Invalid, "reason", "profile missing")
	}
	tree, err := parseTree(text, p.maxDepth())
	if err != nil {
		return nil, errors.E("graphson.Decode", errors.K.Invalid, err)
	}
	dec := &Decoder{
		reg:     r,
		profile: p,
	}
	return dec.DecodeValue(tree)
}

// Decoder converts generic JSON trees to values. It is created per Decode call and passed to the TypeCodecs of the
// decoded envelopes.
type Decoder struct {
	reg     *Registry
	profile *Profile
	path    []string
}

// Profile returns the profile of the current decode call.
func (dec *Decoder) Profile() *Profile {
	return dec.profile
}

// Path returns the location of the node currently being decoded, e.g. "/2/@value/bulk".
func (dec *Decoder) Path() string {
	return "/" + strings.Join(dec.path, "/")
}

// DecodeChild decodes the node found at the given path segment (member key or array index) of the current node.
func (dec *Decoder) DecodeChild(segment string, node interface{}) (interface{}, error) {
	dec.path = append(dec.path, segment)
	defer func() { dec.path = dec.path[:len(dec.path)-1] }()
	return dec.DecodeValue(node)
}

// DecodeValue decodes the given node: envelopes are dispatched by tag, bare literals are interpreted according to the
// profile.
func (dec *Decoder) DecodeValue(node interface{}) (interface{}, error) {
	switch n := node.(type) {
	case nil, bool, string:
		return n, nil
	case json.Number:
		return dec.decodeBareNumber(n)
	case []interface{}:
		list, err := dec.DecodeList(n)
		if err != nil {
			return nil, err
		}
		return list, nil
	case Object:
		if _, tagged := n.Get(dec.profile.TypeKey); tagged {
			return dec.decodeEnvelope(n)
		}
		return dec.decodePlainObject(n)
	}
	return nil, errors.E("graphson.Decode", errors.K.Internal,
		"reason", "not a json node",
		"type", fmt.Sprintf("%T", node),
		"path", dec.Path())
}

// DecodeList decodes all elements of the given array.
func (dec *Decoder) DecodeList(arr []interface{}) ([]interface{}, error) {
	res := make([]interface{}, len(arr))
	for i, elem := range arr {
		v, err := dec.DecodeChild(strconv.Itoa(i), elem)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func (dec *Decoder) decodeEnvelope(obj Object) (interface{}, error) {
	p := dec.profile
	typeNode, _ := obj.Get(p.TypeKey)
	tagString, ok := typeNode.(string)
	if !ok {
		return nil, dec.fail(malformed("", p.TypeKey, "type tag is not a string"))
	}
	payload, ok := obj.Get(p.ValueKey)
	if !ok {
		return nil, dec.fail(malformed(tagString, p.ValueKey, "missing"))
	}
	if len(obj) != 2 {
		for _, key := range obj.Keys() {
			if key != p.TypeKey && key != p.ValueKey {
				return nil, dec.fail(malformed(tagString, key, "unexpected field in envelope"))
			}
		}
	}

	tag, ok := p.ParseTag(tagString)
	if !ok {
		return nil, dec.fail(&UnknownTypeError{Tag: tagString})
	}
	codec, err := dec.reg.DecoderFor(tag)
	if err != nil {
		return nil, dec.fail(&UnknownTypeError{Tag: tagString})
	}

	dec.path = append(dec.path, p.ValueKey)
	defer func() { dec.path = dec.path[:len(dec.path)-1] }()

	v, err := codec.DecodeType(dec, payload)
	if err != nil {
		if me, ok := err.(*MalformedEnvelopeError); ok && me.Tag == "" {
			me.Tag = tagString
		}
		return nil, dec.fail(err, "tag", tagString)
	}
	return v, nil
}

// decodePlainObject decodes an untagged JSON object to a Map with string keys in document order.
func (dec *Decoder) decodePlainObject(obj Object) (interface{}, error) {
	m := &Map{entries: make([]MapEntry, 0, len(obj))}
	for _, f := range obj {
		v, err := dec.DecodeChild(f.Key, f.Value)
		if err != nil {
			return nil, err
		}
		m.entries = append(m.entries, MapEntry{Key: f.Key, Value: v})
	}
	return m, nil
}

func (dec *Decoder) decodeBareNumber(n json.Number) (interface{}, error) {
	rule := dec.profile.BareFloats
	if isIntegral(n) {
		rule = dec.profile.BareIntegers
	}

	switch rule {
	case NumFloat:
		if f, ok := parseFloat(n, 32); ok {
			return float32(f), nil
		}
	case NumInt32:
		if i, ok := parseInt(n, 32); ok {
			return int32(i), nil
		}
	case NumInt64:
		if i, ok := parseInt(n, 64); ok {
			return i, nil
		}
	case NumAuto:
		if i, ok := parseInt(n, 32); ok {
			return int32(i), nil
		}
		if i, ok := parseInt(n, 64); ok {
			return i, nil
		}
		if f, ok := parseFloat(n, 64); ok {
			return f, nil
		}
	default:
		if f, ok := parseFloat(n, 64); ok {
			return f, nil
		}
	}
	return nil, errors.E("graphson.Decode", errors.K.Invalid,
		"reason", "number cannot be represented",
		"number", string(n),
		"rule", rule,
		"path", dec.Path())
}

// fail wraps errors returned by codecs with the current path. Errors that have been wrapped already further down are
// returned unchanged.
func (dec *Decoder) fail(err error, fields ...interface{}) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	kind := errors.K.Invalid
	if _, ok := err.(*UnknownTypeError); ok {
		kind = errors.K.NotExist
	}
	args := append([]interface{}{"graphson.Decode", kind, err, "path", dec.Path()}, fields...)
	return errors.E(args...)
}

// ===== payload helpers for codecs ============================================

// PayloadObject returns the payload as object after verifying that it contains all required fields and no fields
// other than the required and optional ones.
func PayloadObject(payload interface{}, required []string, optional ...string) (Object, error) {
	obj, ok := payload.(Object)
	if !ok {
		return nil, malformed("", "", "payload is not an object")
	}
	for _, key := range required {
		if _, found := obj.Get(key); !found {
			return nil, malformed("", key, "missing")
		}
	}
	for _, key := range obj.Keys() {
		if !contains(required, key) && !contains(optional, key) {
			return nil, malformed("", key, "unexpected field")
		}
	}
	return obj, nil
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
