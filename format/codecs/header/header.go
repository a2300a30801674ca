package header

import (
	"bytes"
	"io"
	"strings"

	"github.com/eluv-io/errors-go"
	mc "github.com/multiformats/go-multicodec"
)

// maxPathLen is the longest path whose header length still fits the single length byte.
const maxPathLen = 125

// Header is the multicodec header that prefixes a stream of encoded documents. Its format is
//   - a single byte encoding the length of the rest of the header
//   - the path of the codec, by convention starting with a slash. GraphSON streams use the mime type of their format
//     version as path, e.g. "/application/vnd.gremlin-v2.0+json"
//   - a terminating newline
//
// Create it with New or ForMimeType.
type Header []byte

// New returns the header for the given path.
func New(path string) (Header, error) {
	if path == "" || len(path) > maxPathLen {
		return nil, errors.E("header.New", errors.K.Invalid,
			"reason", "invalid path length",
			"path", path,
			"max_length", maxPathLen)
	}
	l := len(path) + 1 // + \n
	buf := make([]byte, l+1)
	buf[0] = byte(l)
	copy(buf[1:], path)
	buf[l] = '\n'
	return buf, nil
}

// MustNew is like New, but panics on error.
func MustNew(path string) Header {
	hdr, err := New(path)
	if err != nil {
		panic(err)
	}
	return hdr
}

// ForMimeType returns the header identifying streams of the given mime type.
func ForMimeType(mimeType string) (Header, error) {
	if mimeType == "" {
		return nil, errors.E("header.ForMimeType", errors.K.Invalid, "reason", "mime type missing")
	}
	return New("/" + mimeType)
}

// Path returns the path of the header, or an empty string if the header is invalid.
func (h Header) Path() string {
	if len(h) < 2 || int(h[0]) != len(h)-1 || h[len(h)-1] != '\n' {
		return ""
	}
	return string(h[1 : len(h)-1])
}

// MimeType returns the mime type of a header created with ForMimeType.
func (h Header) MimeType() string {
	return strings.TrimPrefix(h.Path(), "/")
}

// String is an alias of Path.
func (h Header) String() string {
	return h.Path()
}

// Matches returns true if the given raw header is the same as this one.
func (h Header) Matches(raw []byte) bool {
	return bytes.Equal(h, raw)
}

// Write writes the header to the writer.
func (h Header) Write(w io.Writer) error {
	_, err := w.Write(h)
	return err
}

// Read reads the next header from the reader.
func Read(r io.Reader) (Header, error) {
	raw, err := mc.ReadHeader(r)
	if err != nil {
		return nil, errors.E("header.Read", errors.K.Invalid, err)
	}
	return raw, nil
}

// Unread returns a reader that yields the header before the remaining data of r, for handing a stream whose header
// was already read to a decoder that expects it.
func Unread(hdr Header, r io.Reader) io.Reader {
	return mc.WrapHeaderReader(hdr, r)
}
