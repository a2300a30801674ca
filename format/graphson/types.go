package graphson

import (
	"encoding/base64"
	"encoding/json"
	"reflect"

	"github.com/eluv-io/utc-go"
	uuid "github.com/satori/go.uuid"
)

// Field names of the built-in domain types.
const (
	fieldBulk      = "bulk"
	fieldValue     = "value"
	fieldPredicate = "predicate"
	fieldScript    = "script"
	fieldLanguage  = "language"
	fieldArguments = "arguments"
	fieldArity     = "arity"
)

// builtinTypes is the list of built-in registrations. Tags are part of the wire format: do not rename them!
var builtinTypes = []struct {
	tag   Tag
	typ   reflect.Type
	codec TypeCodec
}{
	{TagInt32, reflect.TypeOf(int32(0)), TypeCodecFns{encodeInt32, decodeInt32}},
	{TagInt64, reflect.TypeOf(int64(0)), TypeCodecFns{encodeInt64, decodeInt64}},
	{TagFloat, reflect.TypeOf(float32(0)), TypeCodecFns{encodeFloat, decodeFloat}},
	{TagDouble, reflect.TypeOf(float64(0)), TypeCodecFns{encodeDouble, decodeDouble}},
	{TagList, reflect.TypeOf([]interface{}(nil)), TypeCodecFns{encodeList, decodeList}},
	{TagSet, reflect.TypeOf((*Set)(nil)), TypeCodecFns{encodeSet, decodeSet}},
	{TagMap, reflect.TypeOf((*Map)(nil)), TypeCodecFns{encodeMap, decodeMap}},
	{TagTraverser, reflect.TypeOf((*Traverser)(nil)), TypeCodecFns{encodeTraverser, decodeTraverser}},
	{TagP, reflect.TypeOf((*P)(nil)), TypeCodecFns{encodeP, decodeP}},
	{TagLambda, reflect.TypeOf((*Lambda)(nil)), TypeCodecFns{encodeLambda, decodeLambda}},
	{TagDate, reflect.TypeOf(utc.UTC{}), TypeCodecFns{encodeDate, decodeDate}},
	{TagTimestamp, reflect.TypeOf(Timestamp{}), TypeCodecFns{encodeTimestamp, decodeTimestamp}},
	{TagUUID, reflect.TypeOf(uuid.UUID{}), TypeCodecFns{encodeUUID, decodeUUID}},
	{TagByteBuffer, reflect.TypeOf([]byte(nil)), TypeCodecFns{encodeByteBuffer, decodeByteBuffer}},
}

func registerBuiltins(r *Registry) {
	for _, b := range builtinTypes {
		err := r.Register(b.tag, b.typ, b.codec)
		if err != nil {
			log.Fatal("failed to register built-in type", err, "tag", b.tag)
		}
	}
}

// ===== numbers ===============================================================

func encodeInt32(_ *Encoder, v interface{}) (interface{}, error) {
	return formatInt(int64(v.(int32))), nil
}

func decodeInt32(_ *Decoder, payload interface{}) (interface{}, error) {
	i, ok := parseInt(payload, 32)
	if !ok {
		return nil, malformed("", "", "not a 32-bit integer")
	}
	return int32(i), nil
}

func encodeInt64(_ *Encoder, v interface{}) (interface{}, error) {
	return formatInt(v.(int64)), nil
}

func decodeInt64(_ *Decoder, payload interface{}) (interface{}, error) {
	i, ok := parseInt(payload, 64)
	if !ok {
		return nil, malformed("", "", "not a 64-bit integer")
	}
	return i, nil
}

func encodeFloat(_ *Encoder, v interface{}) (interface{}, error) {
	return formatFloat(float64(v.(float32)), 32), nil
}

func decodeFloat(_ *Decoder, payload interface{}) (interface{}, error) {
	f, ok := parseFloat(payload, 32)
	if !ok {
		return nil, malformed("", "", "not a single-precision number")
	}
	return float32(f), nil
}

func encodeDouble(_ *Encoder, v interface{}) (interface{}, error) {
	return formatFloat(v.(float64), 64), nil
}

func decodeDouble(_ *Decoder, payload interface{}) (interface{}, error) {
	f, ok := parseFloat(payload, 64)
	if !ok {
		return nil, malformed("", "", "not a double-precision number")
	}
	return f, nil
}

// ===== collections ===========================================================

func encodeElements(enc *Encoder, elems []interface{}) ([]interface{}, error) {
	res := make([]interface{}, len(elems))
	for i, elem := range elems {
		node, err := enc.EncodeValue(elem)
		if err != nil {
			return nil, err
		}
		res[i] = node
	}
	return res, nil
}

func payloadArray(payload interface{}) ([]interface{}, error) {
	arr, ok := payload.([]interface{})
	if !ok {
		return nil, malformed("", "", "payload is not an array")
	}
	return arr, nil
}

func encodeList(enc *Encoder, v interface{}) (interface{}, error) {
	return encodeElements(enc, v.([]interface{}))
}

func decodeList(dec *Decoder, payload interface{}) (interface{}, error) {
	arr, err := payloadArray(payload)
	if err != nil {
		return nil, err
	}
	list, err := dec.DecodeList(arr)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func encodeSet(enc *Encoder, v interface{}) (interface{}, error) {
	return encodeElements(enc, v.(*Set).Elements())
}

func decodeSet(dec *Decoder, payload interface{}) (interface{}, error) {
	arr, err := payloadArray(payload)
	if err != nil {
		return nil, err
	}
	elems, err := dec.DecodeList(arr)
	if err != nil {
		return nil, err
	}
	return NewSet(elems...), nil
}

// Maps are written as an array of alternating keys and values, since keys are not restricted to strings.
func encodeMap(enc *Encoder, v interface{}) (interface{}, error) {
	entries := v.(*Map).Entries()
	res := make([]interface{}, 0, 2*len(entries))
	for _, e := range entries {
		k, err := enc.EncodeValue(e.Key)
		if err != nil {
			return nil, err
		}
		val, err := enc.EncodeValue(e.Value)
		if err != nil {
			return nil, err
		}
		res = append(res, k, val)
	}
	return res, nil
}

func decodeMap(dec *Decoder, payload interface{}) (interface{}, error) {
	arr, err := payloadArray(payload)
	if err != nil {
		return nil, err
	}
	if len(arr)%2 != 0 {
		return nil, malformed("", "", "odd number of elements in key-value array")
	}
	kv, err := dec.DecodeList(arr)
	if err != nil {
		return nil, err
	}
	m := &Map{entries: make([]MapEntry, 0, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		m.Put(kv[i], kv[i+1])
	}
	return m, nil
}

// ===== traverser =============================================================

func encodeTraverser(enc *Encoder, v interface{}) (interface{}, error) {
	t := v.(*Traverser)
	if t.bulk < 1 {
		return nil, malformed("", fieldBulk, "bulk must be at least 1")
	}
	bulk, err := enc.EncodeValue(t.bulk)
	if err != nil {
		return nil, err
	}
	value, err := enc.EncodeValue(t.value)
	if err != nil {
		return nil, err
	}
	return Object{
		{Key: fieldBulk, Value: bulk},
		{Key: fieldValue, Value: value},
	}, nil
}

func decodeTraverser(dec *Decoder, payload interface{}) (interface{}, error) {
	obj, err := PayloadObject(payload, []string{fieldBulk, fieldValue})
	if err != nil {
		return nil, err
	}
	bulkNode, _ := obj.Get(fieldBulk)
	bulk, err := decodeIntField(dec, fieldBulk, bulkNode)
	if err != nil {
		return nil, err
	}
	if bulk < 1 {
		return nil, malformed("", fieldBulk, "bulk must be at least 1")
	}
	valueNode, _ := obj.Get(fieldValue)
	value, err := dec.DecodeChild(fieldValue, valueNode)
	if err != nil {
		return nil, err
	}
	return NewTraverser(value, bulk), nil
}

// decodeIntField decodes an integer field that may be written as tagged Int32/Int64 or as a bare JSON integer. The
// field type implies the integer, so bare numbers are not subject to the profile's bare number rules.
func decodeIntField(dec *Decoder, field string, node interface{}) (int64, error) {
	if n, ok := node.(json.Number); ok {
		i, ok := parseInt(n, 64)
		if !ok {
			return 0, malformed("", field, "not an integer")
		}
		return i, nil
	}
	v, err := dec.DecodeChild(field, node)
	if err != nil {
		return 0, err
	}
	switch i := v.(type) {
	case int32:
		return int64(i), nil
	case int64:
		return i, nil
	}
	return 0, malformed("", field, "not an integer")
}

// ===== predicate =============================================================

// Predicate arguments are always written as an array. Combinators contain exactly two predicate envelopes.
func encodeP(enc *Encoder, v interface{}) (interface{}, error) {
	p := v.(*P)
	if p.IsCombinator() {
		if len(p.Args) != 2 {
			return nil, &InvalidArityError{Operator: p.Operator, Expected: 2, Actual: len(p.Args)}
		}
		for _, arg := range p.Args {
			if operand, ok := arg.(*P); !ok || operand == nil {
				return nil, &UnsupportedTypeError{Type: reflect.TypeOf(arg)}
			}
		}
	}
	args, err := encodeElements(enc, p.Args)
	if err != nil {
		return nil, err
	}
	return Object{
		{Key: fieldPredicate, Value: p.Operator},
		{Key: fieldValue, Value: args},
	}, nil
}

func decodeP(dec *Decoder, payload interface{}) (interface{}, error) {
	obj, err := PayloadObject(payload, []string{fieldPredicate, fieldValue})
	if err != nil {
		return nil, err
	}
	opNode, _ := obj.Get(fieldPredicate)
	op, ok := opNode.(string)
	if !ok || op == "" {
		return nil, malformed("", fieldPredicate, "operator is not a string")
	}
	valueNode, _ := obj.Get(fieldValue)

	if IsCombinator(op) {
		arr, ok := valueNode.([]interface{})
		if !ok {
			return nil, malformed("", fieldValue, "operands are not an array")
		}
		if len(arr) != 2 {
			return nil, &InvalidArityError{Operator: op, Expected: 2, Actual: len(arr)}
		}
		operands, err := dec.DecodeChild(fieldValue, arr)
		if err != nil {
			return nil, err
		}
		p1, ok1 := operands.([]interface{})[0].(*P)
		p2, ok2 := operands.([]interface{})[1].(*P)
		if !ok1 || !ok2 {
			return nil, malformed("", fieldValue, "operand is not a predicate")
		}
		return &P{Operator: op, Args: []interface{}{p1, p2}}, nil
	}

	arr, isArray := valueNode.([]interface{})
	if !isArray {
		// single argument written without array
		arr = []interface{}{valueNode}
	}
	dec.path = append(dec.path, fieldValue)
	args, err := dec.DecodeList(arr)
	dec.path = dec.path[:len(dec.path)-1]
	if err != nil {
		return nil, err
	}
	return &P{Operator: op, Args: args}, nil
}

// ===== lambda ================================================================

func encodeLambda(_ *Encoder, v interface{}) (interface{}, error) {
	l := v.(*Lambda)
	if err := l.Arity.Validate(); err != nil {
		return nil, err
	}
	return Object{
		{Key: fieldScript, Value: l.Script},
		{Key: fieldLanguage, Value: l.Language},
		{Key: fieldArguments, Value: formatInt(int64(l.Arity.Arguments()))},
		{Key: fieldArity, Value: string(l.Arity)},
	}, nil
}

func decodeLambda(dec *Decoder, payload interface{}) (interface{}, error) {
	obj, err := PayloadObject(payload, []string{fieldScript, fieldLanguage}, fieldArguments, fieldArity)
	if err != nil {
		return nil, err
	}
	script, err := stringField(obj, fieldScript)
	if err != nil {
		return nil, err
	}
	language, err := stringField(obj, fieldLanguage)
	if err != nil {
		return nil, err
	}

	var arity Arity
	if _, ok := obj.Get(fieldArity); ok {
		s, err := stringField(obj, fieldArity)
		if err != nil {
			return nil, err
		}
		arity = Arity(s)
		if arity.Validate() != nil {
			return nil, malformed("", fieldArity, "unknown arity "+s)
		}
	}

	if argsNode, ok := obj.Get(fieldArguments); ok {
		args, err := decodeIntField(dec, fieldArguments, argsNode)
		if err != nil {
			return nil, err
		}
		if arity == "" {
			arity, ok = arityForArguments(args)
			if !ok {
				return nil, malformed("", fieldArguments, "unsupported number of arguments")
			}
		} else if int64(arity.Arguments()) != args {
			return nil, malformed("", fieldArguments, "argument count does not match arity "+string(arity))
		}
	}

	if arity == "" {
		return nil, malformed("", fieldArity, "missing")
	}
	return NewLambda(script, language, arity), nil
}

func stringField(obj Object, field string) (string, error) {
	node, _ := obj.Get(field)
	s, ok := node.(string)
	if !ok {
		return "", malformed("", field, "not a string")
	}
	return s, nil
}

// ===== time, ids and bytes ===================================================

func encodeDate(_ *Encoder, v interface{}) (interface{}, error) {
	return formatInt(v.(utc.UTC).UnixMilli()), nil
}

func decodeDate(_ *Decoder, payload interface{}) (interface{}, error) {
	ms, ok := parseInt(payload, 64)
	if !ok {
		return nil, malformed("", "", "not epoch milliseconds")
	}
	return fromUnixMilli(ms), nil
}

func encodeTimestamp(_ *Encoder, v interface{}) (interface{}, error) {
	return formatInt(v.(Timestamp).UnixMilli()), nil
}

func decodeTimestamp(_ *Decoder, payload interface{}) (interface{}, error) {
	ms, ok := parseInt(payload, 64)
	if !ok {
		return nil, malformed("", "", "not epoch milliseconds")
	}
	return NewTimestamp(fromUnixMilli(ms)), nil
}

func fromUnixMilli(ms int64) utc.UTC {
	return utc.UnixMilli(ms)
}

func encodeUUID(_ *Encoder, v interface{}) (interface{}, error) {
	return v.(uuid.UUID).String(), nil
}

func decodeUUID(_ *Decoder, payload interface{}) (interface{}, error) {
	s, ok := payload.(string)
	if !ok {
		return nil, malformed("", "", "uuid is not a string")
	}
	u, err := uuid.FromString(s)
	if err != nil {
		return nil, malformed("", "", err.Error())
	}
	return u, nil
}

func encodeByteBuffer(_ *Encoder, v interface{}) (interface{}, error) {
	return base64.StdEncoding.EncodeToString(v.([]byte)), nil
}

func decodeByteBuffer(_ *Decoder, payload interface{}) (interface{}, error) {
	s, ok := payload.(string)
	if !ok {
		return nil, malformed("", "", "byte buffer is not a string")
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, malformed("", "", "invalid base64")
	}
	return b, nil
}
