package codecs

import (
	"io"

	"github.com/eluv-io/errors-go"
	mc "github.com/multiformats/go-multicodec"

	"github.com/eluv-io/graphson-go/format/codecs/header"
)

var _ mc.Multicodec = (*MuxCodec)(nil)

// muxHeader is the header written by a MuxCodec that wraps the streams of its codecs.
var muxHeader = header.MustNew("/multicodec")

// NewMuxCodec creates a codec that muxes between the given codecs - see MuxCodec.
func NewMuxCodec(codecs ...mc.Multicodec) *MuxCodec {
	return &MuxCodec{Codecs: codecs, Select: SelectFirst}
}

// SelectCodec is a function that selects the codec to use for encoding a given value.
type SelectCodec func(v interface{}, codecs []mc.Multicodec) mc.Multicodec

// SelectFirst is the default SelectCodec function that selects the first codec given.
func SelectFirst(_ interface{}, codecs []mc.Multicodec) mc.Multicodec {
	if len(codecs) == 0 {
		return nil
	}
	return codecs[0]
}

// SelectMimeType returns a SelectCodec function that selects the codec whose header carries the given mime type.
func SelectMimeType(mimeType string) SelectCodec {
	return func(_ interface{}, codecs []mc.Multicodec) mc.Multicodec {
		for _, c := range codecs {
			if header.Header(c.Header()).MimeType() == mimeType {
				return c
			}
		}
		return nil
	}
}

// MuxCodec is a multicodec that muxes between the given codecs. The codec for encoding is chosen with a SelectCodec
// function called for the first object being encoded - per default the first codec in the list is selected. The codec
// for decoding is chosen according to the multicodec header in the data stream, so that a single decoder handles
// GraphSON 2.0 and 3.0 streams alike.
//
// The header is written only once at the very beginning of a stream, even if the same encoder is used for encoding
// multiple objects. Likewise, the decoder expects a single header and decodes all subsequent objects with the same
// codec.
//
// Encoders and decoders of a MuxCodec are NOT thread-safe - use from a single goroutine only or synchronize access.
type MuxCodec struct {
	Codecs []mc.Multicodec // codecs to use
	Select SelectCodec     // pick a codec for encoding
	Wrap   bool            // whether to wrap with own header
}

func (c *MuxCodec) Encoder(w io.Writer) mc.Encoder {
	return &muxEncoder{writer: w, mux: c}
}

func (c *MuxCodec) Decoder(r io.Reader) mc.Decoder {
	return &muxDecoder{reader: r, mux: c}
}

func (c *MuxCodec) Header() []byte {
	return muxHeader
}

func (c *MuxCodec) codecForHeader(hdr header.Header) mc.Multicodec {
	for _, codec := range c.Codecs {
		if hdr.Matches(codec.Header()) {
			return codec
		}
	}
	return nil
}

type muxEncoder struct {
	writer io.Writer
	mux    *MuxCodec
	enc    mc.Encoder
}

func (e *muxEncoder) Encode(v interface{}) error {
	if e.enc == nil {
		codec := e.mux.Select(v, e.mux.Codecs)
		if codec == nil {
			return errors.E("muxEncoder.Encode", errors.K.NotExist, "reason", "no suitable codec")
		}
		log.Debug("selected codec", "codec", header.Header(codec.Header()))
		if e.mux.Wrap {
			err := muxHeader.Write(e.writer)
			if err != nil {
				return errors.E("muxEncoder.Encode", errors.K.IO, err)
			}
		}
		e.enc = codec.Encoder(e.writer)
	}
	return e.enc.Encode(v)
}

type muxDecoder struct {
	reader io.Reader
	mux    *MuxCodec
	dec    mc.Decoder
}

func (d *muxDecoder) Decode(v interface{}) error {
	if d.dec == nil {
		if d.mux.Wrap {
			outer, err := header.Read(d.reader)
			if err != nil {
				return err
			}
			if !muxHeader.Matches(outer) {
				return errors.E("muxDecoder.Decode", errors.K.Invalid,
					"reason", "invalid mux header",
					"actual", outer)
			}
		}

		// peek at the next header to select the codec, then hand it back to the codec's decoder
		hdr, err := header.Read(d.reader)
		if err != nil {
			return err
		}
		codec := d.mux.codecForHeader(hdr)
		if codec == nil {
			return errors.E("muxDecoder.Decode", errors.K.NotExist,
				"reason", "no codec for header",
				"header", hdr)
		}
		log.Debug("selected codec", "codec", hdr)
		d.dec = codec.Decoder(header.Unread(hdr, d.reader))
	}
	return d.dec.Decode(v)
}
