package codecs

import (
	"io"

	"github.com/eluv-io/errors-go"
	"github.com/multiformats/go-varint"

	"github.com/eluv-io/graphson-go/format/codecs/header"
	"github.com/eluv-io/graphson-go/format/graphson"
)

// DefaultMaxFrameSize is the default limit for the size of a single encoded document.
const DefaultMaxFrameSize = 64 * 1024 * 1024

var (
	// GraphSONV2Codec encodes values as GraphSON 2.0 documents with the default registry.
	GraphSONV2Codec = NewGraphSONCodec(graphson.Default(), graphson.V2)
	// GraphSONV3Codec encodes values as GraphSON 3.0 documents with the default registry.
	GraphSONV3Codec = NewGraphSONCodec(graphson.Default(), graphson.V3)

	GraphSONV2MultiCodec = mustMultiCodec(GraphSONV2Codec)
	GraphSONV3MultiCodec = mustMultiCodec(GraphSONV3Codec)

	// GraphSONMuxCodec encodes GraphSON 3.0 and decodes GraphSON 3.0 and 2.0 streams, depending on their header.
	GraphSONMuxCodec = NewMuxCodec(GraphSONV3MultiCodec, GraphSONV2MultiCodec)
)

// GraphSONCodec is a Codec for streams of GraphSON documents. Every document is prefixed with its length in bytes,
// encoded as unsigned varint:
//
//	len1|doc1|len2|doc2|...
//
// Decoded values are stored in *interface{} targets, or in pointers to the decoded value's type.
type GraphSONCodec struct {
	registry     *graphson.Registry
	profile      *graphson.Profile
	maxFrameSize uint64
}

// NewGraphSONCodec creates a codec encoding and decoding with the given registry and profile.
func NewGraphSONCodec(reg *graphson.Registry, p *graphson.Profile) *GraphSONCodec {
	return &GraphSONCodec{
		registry:     reg,
		profile:      p,
		maxFrameSize: DefaultMaxFrameSize,
	}
}

// WithMaxFrameSize returns a copy of the codec that rejects documents larger than the given number of bytes, both on
// encoding and decoding.
func (c *GraphSONCodec) WithMaxFrameSize(size uint64) *GraphSONCodec {
	clone := *c
	clone.maxFrameSize = size
	return &clone
}

// Profile returns the codec's profile.
func (c *GraphSONCodec) Profile() *graphson.Profile {
	return c.profile
}

func (c *GraphSONCodec) Encoder(w io.Writer) Encoder {
	return &frameEncoder{codec: c, writer: w}
}

func (c *GraphSONCodec) Decoder(r io.Reader) Decoder {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = &byteReader{reader: r}
	}
	return &frameDecoder{codec: c, reader: r, byteReader: br}
}

// NewGraphSONMultiCodec creates a MultiCodec for the given registry and profile. Its header carries the profile's
// mime type.
func NewGraphSONMultiCodec(reg *graphson.Registry, p *graphson.Profile) (*MultiCodec, error) {
	hdr, err := header.ForMimeType(p.MimeType)
	if err != nil {
		return nil, errors.E("NewGraphSONMultiCodec", errors.K.Invalid, err, "profile", p.Name)
	}
	return NewMultiCodec(NewGraphSONCodec(reg, p), hdr), nil
}

func mustMultiCodec(c *GraphSONCodec) *MultiCodec {
	m, err := NewGraphSONMultiCodec(c.registry, c.profile)
	if err != nil {
		log.Fatal("failed to create graphson multicodec", err)
	}
	return m
}

////////////////////////////////////////////////////////////////////////////////

type frameEncoder struct {
	codec  *GraphSONCodec
	writer io.Writer
}

func (e *frameEncoder) Encode(obj interface{}) error {
	text, err := e.codec.registry.Encode(obj, e.codec.profile)
	if err != nil {
		return err
	}
	if uint64(len(text)) > e.codec.maxFrameSize {
		return errors.E("frameEncoder.Encode", errors.K.Invalid,
			"reason", "document exceeds max frame size",
			"size", len(text),
			"max_frame_size", e.codec.maxFrameSize)
	}
	frame := make([]byte, 0, varint.UvarintSize(uint64(len(text)))+len(text))
	frame = append(frame, varint.ToUvarint(uint64(len(text)))...)
	frame = append(frame, text...)
	_, err = e.writer.Write(frame)
	if err != nil {
		return errors.E("frameEncoder.Encode", errors.K.IO, err)
	}
	return nil
}

type frameDecoder struct {
	codec      *GraphSONCodec
	reader     io.Reader
	byteReader io.ByteReader
}

func (d *frameDecoder) Decode(obj interface{}) error {
	e := errors.Template("frameDecoder.Decode", errors.K.Invalid)

	size, err := varint.ReadUvarint(d.byteReader)
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return e(err, "reason", "failed to read frame size")
	}
	if size > d.codec.maxFrameSize {
		return e("reason", "frame exceeds max frame size",
			"size", size,
			"max_frame_size", d.codec.maxFrameSize)
	}

	text := make([]byte, size)
	_, err = io.ReadFull(d.reader, text)
	if err != nil {
		return e(err, "reason", "truncated frame", "size", size)
	}

	v, err := d.codec.registry.Decode(text, d.codec.profile)
	if err != nil {
		return err
	}
	return assign(obj, v)
}

// byteReader reads single bytes without buffering, so that no data beyond the frame size is consumed from the
// underlying reader.
type byteReader struct {
	reader io.Reader
	buf    [1]byte
}

func (b *byteReader) ReadByte() (byte, error) {
	_, err := io.ReadFull(b.reader, b.buf[:])
	return b.buf[0], err
}
