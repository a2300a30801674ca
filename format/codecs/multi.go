package codecs

import (
	"io"

	"github.com/eluv-io/errors-go"
	mc "github.com/multiformats/go-multicodec"

	"github.com/eluv-io/graphson-go/format/codecs/header"
)

var _ mc.Multicodec = (*MultiCodec)(nil)

// MultiCodec wraps a Codec and produces self-describing streams: the encoder writes a multicodec header once at the
// beginning of the stream, the decoder reads it and ensures that it matches before decoding any object:
//
//	HEADER|object1|object2|...
//
// Use a MuxCodec in order to decode streams of multiple codecs.
type MultiCodec struct {
	codec  Codec
	header header.Header
}

// NewMultiCodec creates a MultiCodec for the given codec and header.
func NewMultiCodec(codec Codec, hdr header.Header) *MultiCodec {
	return &MultiCodec{
		codec:  codec,
		header: hdr,
	}
}

func (m *MultiCodec) Header() []byte {
	return m.header
}

// MimeType returns the mime type carried in the header.
func (m *MultiCodec) MimeType() string {
	return m.header.MimeType()
}

func (m *MultiCodec) Encoder(w io.Writer) mc.Encoder {
	return &multiEncoder{
		writer:  w,
		encoder: m.codec.Encoder(w),
		header:  m.header,
	}
}

func (m *MultiCodec) Decoder(r io.Reader) mc.Decoder {
	return &multiDecoder{
		reader:  r,
		decoder: m.codec.Decoder(r),
		header:  m.header,
	}
}

////////////////////////////////////////////////////////////////////////////////

type multiEncoder struct {
	writer        io.Writer
	encoder       Encoder
	header        header.Header
	headerWritten bool
}

func (e *multiEncoder) Encode(obj interface{}) error {
	if !e.headerWritten {
		err := e.header.Write(e.writer)
		if err != nil {
			return errors.E("multiEncoder.Encode", errors.K.IO, err, "header", e.header)
		}
		e.headerWritten = true
	}
	return e.encoder.Encode(obj)
}

type multiDecoder struct {
	reader     io.Reader
	decoder    Decoder
	header     header.Header
	headerRead bool
}

func (d *multiDecoder) Decode(obj interface{}) error {
	if !d.headerRead {
		hdr, err := header.Read(d.reader)
		if err != nil {
			return err
		}
		if !d.header.Matches(hdr) {
			return errors.E("multiDecoder.Decode", errors.K.Invalid,
				"reason", "invalid header",
				"expected", d.header,
				"actual", hdr)
		}
		d.headerRead = true
	}
	return d.decoder.Decode(obj)
}
