package graphson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/eluv-io/errors-go"
)

// The encoder and decoder work on a generic JSON tree whose nodes are:
//
//	nil, bool, string, json.Number, []interface{}, Object
//
// Objects keep their members in document order, which the standard map[string]interface{} representation would lose.

// Field is a member of an Object.
type Field struct {
	Key   string
	Value interface{}
}

// Object is a JSON object with ordered members.
type Object []Field

// Get returns the value of the member with the given key.
func (o Object) Get(key string) (interface{}, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the member keys in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, f := range o {
		keys[i] = f.Key
	}
	return keys
}

// With returns the object with the given member appended.
func (o Object) With(key string, value interface{}) Object {
	return append(o, Field{Key: key, Value: value})
}

// ===== parsing ===============================================================

// parseTree parses a single JSON document into a generic tree.
func parseTree(text []byte, maxDepth int) (interface{}, error) {
	e := errors.Template("parse", errors.K.Invalid)

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	node, err := parseNode(dec, 0, maxDepth)
	if err != nil {
		if err == io.EOF {
			return nil, e("reason", "empty document")
		}
		return nil, e(err)
	}
	if _, err = dec.Token(); err != io.EOF {
		return nil, e("reason", "trailing data after document", "offset", dec.InputOffset())
	}
	return node, nil
}

func parseNode(dec *json.Decoder, depth, maxDepth int) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		// nil, bool, string or json.Number
		return tok, nil
	}
	if depth >= maxDepth {
		return nil, errors.E("parseNode", errors.K.Invalid, "reason", "max depth exceeded", "max_depth", maxDepth)
	}

	switch delim {
	case '{':
		obj := Object{}
		for dec.More() {
			tok, err = dec.Token()
			if err != nil {
				return nil, truncated(err)
			}
			key := tok.(string)
			if _, dup := obj.Get(key); dup {
				return nil, errors.E("parseNode", errors.K.Invalid, "reason", "duplicate object key", "key", key)
			}
			val, err := parseNode(dec, depth+1, maxDepth)
			if err != nil {
				return nil, truncated(err)
			}
			obj = obj.With(key, val)
		}
		_, err = dec.Token()
		return obj, truncated(err)
	case '[':
		arr := []interface{}{}
		for dec.More() {
			val, err := parseNode(dec, depth+1, maxDepth)
			if err != nil {
				return nil, truncated(err)
			}
			arr = append(arr, val)
		}
		_, err = dec.Token()
		return arr, truncated(err)
	}
	return nil, errors.E("parseNode", errors.K.Invalid, "reason", "unexpected delimiter", "delim", delim.String())
}

// truncated converts EOF inside a document to io.ErrUnexpectedEOF.
func truncated(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ===== writing ===============================================================

// writeNode renders a generic tree as compact JSON.
func writeNode(buf *bytes.Buffer, node interface{}) error {
	switch n := node.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(n))
	case string:
		return writeString(buf, n)
	case json.Number:
		buf.WriteString(string(n))
	case []interface{}:
		buf.WriteByte('[')
		for i, elem := range n {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, f := range n {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeNode(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return errors.E("writeNode", errors.K.Internal, "reason", "not a json node", "type", fmt.Sprintf("%T", node))
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// drop the newline written by Encode
	buf.Truncate(buf.Len() - 1)
	return nil
}

// ===== numbers ===============================================================

// Non-finite floats are written as strings inside their envelope.
const (
	nanString    = "NaN"
	posInfString = "Infinity"
	negInfString = "-Infinity"
)

func formatInt(i int64) json.Number {
	return json.Number(strconv.FormatInt(i, 10))
}

// formatFloat returns the canonical rendering of f with the given bit size: the shortest decimal that parses back to
// the same value, using exponent notation for very small and very large magnitudes like encoding/json. Integral values
// get a ".0" suffix so that they remain recognizable as floating point numbers when written bare.
func formatFloat(f float64, bits int) interface{} {
	switch {
	case math.IsNaN(f):
		return nanString
	case math.IsInf(f, 1):
		return posInfString
	case math.IsInf(f, -1):
		return negInfString
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	b := strconv.AppendFloat(nil, f, format, -1, bits)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	} else if bytes.IndexByte(b, '.') < 0 {
		b = append(b, '.', '0')
	}
	return json.Number(b)
}

// parseFloat parses a float payload: a JSON number or one of the non-finite strings.
func parseFloat(node interface{}, bits int) (float64, bool) {
	switch n := node.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), bits)
		return f, err == nil
	case string:
		switch n {
		case nanString:
			return math.NaN(), true
		case posInfString:
			return math.Inf(1), true
		case negInfString:
			return math.Inf(-1), true
		}
	}
	return 0, false
}

// parseInt parses an integer payload of the given bit size. Numbers with fraction or exponent are rejected, unless
// the fraction is zero (e.g. "3.0").
func parseInt(node interface{}, bits int) (int64, bool) {
	n, ok := node.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(string(n), 10, bits)
	if err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	if bits == 32 && (f < math.MinInt32 || f > math.MaxInt32) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// isIntegral returns true if the number literal has neither fraction nor exponent.
func isIntegral(n json.Number) bool {
	return bytes.IndexAny([]byte(n), ".eE") < 0
}
