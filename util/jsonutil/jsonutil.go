package jsonutil

import (
	"bytes"
	"encoding/json"

	"github.com/davecgh/go-spew/spew"
	"github.com/eluv-io/errors-go"
	"github.com/tidwall/jsonc"
)

// Normalize removes insignificant whitespace from the given JSON text. The result is the same document in its most
// compact form, which allows comparing encodings produced by different writers (e.g. `{"a": 1}` and `{"a":1}`).
// Whitespace inside of string literals is preserved.
func Normalize(jsonText []byte) ([]byte, error) {
	var out bytes.Buffer
	err := json.Compact(&out, bytes.TrimSpace(jsonText))
	if err != nil {
		return nil, errors.E("normalize json", errors.K.Invalid, err, "json", string(jsonText))
	}
	return out.Bytes(), nil
}

// NormalizeString is like Normalize but works on strings.
func NormalizeString(jsonText string) (string, error) {
	res, err := Normalize([]byte(jsonText))
	if err != nil {
		return "", err
	}
	return string(res), nil
}

// MustNormalize normalizes the given JSON text. Panics if the text is not valid JSON.
func MustNormalize(jsonText string) string {
	res, err := NormalizeString(jsonText)
	if err != nil {
		panic(err)
	}
	return res
}

// NormalizeLoose normalizes JSON text that may additionally contain comments and trailing commas, as found in
// hand-written fixture files.
func NormalizeLoose(jsonText []byte) ([]byte, error) {
	return Normalize(jsonc.ToJSON(jsonText))
}

// Equivalent returns true if the two JSON texts are identical after whitespace normalization. Object member order is
// significant. Returns an error if either text is not valid JSON.
func Equivalent(a, b []byte) (bool, error) {
	na, err := Normalize(a)
	if err != nil {
		return false, err
	}
	nb, err := Normalize(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(na, nb), nil
}

// IsJson checks whether the given byte slice is a valid JSON document. If
// partial is true, the byte slice may contain only a partial JSON document.
func IsJson(buf []byte, partial bool) bool {
	if len(buf) == 0 {
		// empty is considered valid JSON
		return true
	}
	var js json.RawMessage
	err := json.Unmarshal(buf, &js)
	if err == nil {
		return true
	}
	if !partial {
		return false
	}
	if jse, ok := err.(*json.SyntaxError); ok {
		if jse.Offset == int64(len(buf)) {
			return true
		}
	}
	return false
}

// Pretty parses the given json string and re-marshals it in "pretty" format
// with line breaks and 2-space indentation.
func Pretty(js string) (string, error) {
	var out bytes.Buffer
	err := json.Indent(&out, []byte(js), "", "  ")
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// PrettyOrDump returns the pretty-printed JSON text if js is valid JSON, or a spew dump of the raw string otherwise.
// Useful for error messages and test diffs.
func PrettyOrDump(js string) string {
	out, err := Pretty(js)
	if err != nil {
		return spew.Sdump(js)
	}
	return out
}
