package graphson_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/eluv-io/errors-go"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/eluv-io/graphson-go/format/graphson"
)

// point is an extension type used to exercise custom registrations.
type point struct {
	X, Y int32
}

var pointCodec = graphson.TypeCodecFns{
	Encode: func(enc *graphson.Encoder, v interface{}) (interface{}, error) {
		p := v.(point)
		return enc.EncodeValue([]interface{}{p.X, p.Y})
	},
	Decode: func(dec *graphson.Decoder, payload interface{}) (interface{}, error) {
		v, err := dec.DecodeValue(payload)
		if err != nil {
			return nil, err
		}
		coords, ok := v.([]interface{})
		if !ok || len(coords) != 2 {
			return nil, &graphson.MalformedEnvelopeError{Reason: "expected two coordinates"}
		}
		x, okx := coords[0].(int32)
		y, oky := coords[1].(int32)
		if !okx || !oky {
			return nil, &graphson.MalformedEnvelopeError{Reason: "coordinates must be Int32"}
		}
		return point{X: x, Y: y}, nil
	},
}

func TestRegistry(t *testing.T) {
	Convey("Given a new registry", t, func() {
		reg := graphson.NewRegistry()

		Convey("all built-in tags are registered", func() {
			var names []string
			for _, tag := range reg.Tags() {
				names = append(names, tag.Name)
			}
			So(names, ShouldResemble, []string{
				"Date", "Double", "Float", "Int32", "Int64", "Lambda", "List", "Map", "P", "Set", "Timestamp",
				"Traverser", "UUID", "ByteBuffer",
			})
		})

		Convey("built-in types resolve to their tags", func() {
			tag, codec, err := reg.EncoderFor(reflect.TypeOf(int32(0)))
			So(err, ShouldBeNil)
			So(codec, ShouldNotBeNil)
			So(tag, ShouldResemble, graphson.TagInt32)

			tag, _, err = reg.EncoderFor(reflect.TypeOf([]byte{}))
			So(err, ShouldBeNil)
			So(tag.Namespace, ShouldEqual, graphson.ExtensionNamespace)
		})

		Convey("unregistered types and tags fail", func() {
			_, _, err := reg.EncoderFor(reflect.TypeOf(point{}))
			So(err, ShouldHaveSameTypeAs, &graphson.UnsupportedTypeError{})

			_, err = reg.DecoderFor(graphson.ExtensionTag("Point"))
			So(err, ShouldHaveSameTypeAs, &graphson.UnknownTypeError{})
		})

		Convey("an extension type can be registered", func() {
			err := reg.Register(graphson.ExtensionTag("Point"), reflect.TypeOf(point{}), pointCodec)
			So(err, ShouldBeNil)

			text, err := reg.Encode(point{X: 1, Y: 2}, graphson.V2)
			So(err, ShouldBeNil)
			So(string(text), ShouldEqual,
				`{"@type":"gx:Point","@value":[{"@type":"g:Int32","@value":1},{"@type":"g:Int32","@value":2}]}`)

			v, err := reg.Decode(text, graphson.V2)
			So(err, ShouldBeNil)
			So(v, ShouldResemble, point{X: 1, Y: 2})

			Convey("and is unknown to other registries", func() {
				_, err = graphson.Decode(text, graphson.V2)
				So(err, ShouldNotBeNil)
				var unknown *graphson.UnknownTypeError
				So(errors.As(err, &unknown), ShouldBeTrue)
				So(unknown.Tag, ShouldEqual, "gx:Point")
			})

			Convey("and is carried over by Clone", func() {
				clone := reg.Clone()
				v, err = clone.Decode(text, graphson.V2)
				So(err, ShouldBeNil)
				So(v, ShouldResemble, point{X: 1, Y: 2})
			})

			Convey("and reports malformed payloads", func() {
				_, err = reg.DecodeString(`{"@type":"gx:Point","@value":["a","b"]}`, graphson.V2)
				So(err, ShouldNotBeNil)
				var malformed *graphson.MalformedEnvelopeError
				So(errors.As(err, &malformed), ShouldBeTrue)
				So(malformed.Tag, ShouldEqual, "gx:Point")
			})
		})

		Convey("the last registration wins", func() {
			upper := graphson.TypeCodecFns{
				Encode: func(enc *graphson.Encoder, v interface{}) (interface{}, error) {
					return strings.ToUpper(string(v.([]byte))), nil
				},
				Decode: func(dec *graphson.Decoder, payload interface{}) (interface{}, error) {
					return []byte(strings.ToLower(payload.(string))), nil
				},
			}
			err := reg.Register(graphson.TagByteBuffer, reflect.TypeOf([]byte{}), upper)
			So(err, ShouldBeNil)

			text, err := reg.Encode([]byte("abc"), graphson.V2)
			So(err, ShouldBeNil)
			So(string(text), ShouldEqual, `{"@type":"gx:ByteBuffer","@value":"ABC"}`)

			Convey("without affecting the default registry", func() {
				text, err = graphson.Encode([]byte("abc"), graphson.V2)
				So(err, ShouldBeNil)
				So(string(text), ShouldEqual, `{"@type":"gx:ByteBuffer","@value":"YWJj"}`)
			})
		})

		Convey("re-registering a tag without type replaces its codec in both directions", func() {
			answer := graphson.TypeCodecFns{
				Encode: func(enc *graphson.Encoder, v interface{}) (interface{}, error) {
					return "forty-two", nil
				},
				Decode: func(dec *graphson.Decoder, payload interface{}) (interface{}, error) {
					return int32(42), nil
				},
			}
			So(reg.Register(graphson.TagInt32, nil, answer), ShouldBeNil)

			tag, codec, err := reg.EncoderFor(reflect.TypeOf(int32(0)))
			So(err, ShouldBeNil)
			So(tag, ShouldResemble, graphson.TagInt32)
			So(codec, ShouldNotBeNil)

			text, err := reg.EncodeString(int32(1), graphson.V2)
			So(err, ShouldBeNil)
			So(text, ShouldEqual, `{"@type":"g:Int32","@value":"forty-two"}`)

			v, err := reg.DecodeString(text, graphson.V2)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, int32(42))
		})

		Convey("a decode-only tag can be registered", func() {
			legacy := graphson.TypeCodecFns{
				Decode: func(dec *graphson.Decoder, payload interface{}) (interface{}, error) {
					return dec.DecodeValue(payload)
				},
			}
			So(reg.Register(graphson.CoreTag("Legacy"), nil, legacy), ShouldBeNil)

			v, err := reg.DecodeString(`{"@type":"g:Legacy","@value":"x"}`, graphson.V2)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "x")
		})

		Convey("incomplete registrations are rejected", func() {
			So(reg.Register(graphson.CoreTag(""), nil, pointCodec), ShouldNotBeNil)
			So(reg.Register(graphson.CoreTag("Nil"), nil, nil), ShouldNotBeNil)
		})

		Convey("once frozen", func() {
			reg.Freeze()
			So(reg.IsFrozen(), ShouldBeTrue)

			Convey("registration fails", func() {
				err := reg.Register(graphson.ExtensionTag("Point"), reflect.TypeOf(point{}), pointCodec)
				So(err, ShouldNotBeNil)
				So(errors.IsKind(errors.K.Invalid, err), ShouldBeTrue)
			})

			Convey("encoding and decoding still work", func() {
				text, err := reg.Encode(int64(5), graphson.V3)
				So(err, ShouldBeNil)
				v, err := reg.Decode(text, graphson.V3)
				So(err, ShouldBeNil)
				So(v, ShouldEqual, int64(5))
			})

			Convey("a clone can be extended", func() {
				clone := reg.Clone()
				So(clone.IsFrozen(), ShouldBeFalse)
				So(clone.Register(graphson.ExtensionTag("Point"), reflect.TypeOf(point{}), pointCodec), ShouldBeNil)
			})
		})
	})
}
