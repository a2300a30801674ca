package codecs

import (
	"io"
	"reflect"

	"github.com/eluv-io/errors-go"
	elog "github.com/eluv-io/log-go"

	"github.com/eluv-io/graphson-go/util/ifutil"
)

var log = elog.Get("/eluvio/graphson/codecs")

// Codec creates stream encoders and decoders for one encoding.
type Codec interface {
	// Decoder wraps the given reader and returns a Decoder reading objects from it.
	Decoder(r io.Reader) Decoder

	// Encoder wraps the given writer and returns an Encoder writing objects to it.
	Encoder(w io.Writer) Encoder
}

// Encoder writes encoded objects to an underlying io.Writer, one document per Encode call.
type Encoder interface {
	Encode(obj interface{}) error
}

// Decoder reads the next document from an underlying io.Reader and stores the decoded value in obj, which must be a
// non-nil pointer. Returns io.EOF once the stream is exhausted.
type Decoder interface {
	Decode(obj interface{}) error
}

// assign stores the decoded value v in the target pointer: either a *interface{} or a pointer to a type that v is
// assignable to.
func assign(target interface{}, v interface{}) error {
	if p, ok := target.(*interface{}); ok && p != nil {
		*p = v
		return nil
	}

	e := errors.Template("assign", errors.K.Invalid)
	if ifutil.IsNil(target) || reflect.TypeOf(target).Kind() != reflect.Ptr {
		return e("reason", "decode target must be a non-nil pointer", "target", reflect.TypeOf(target))
	}
	elem := reflect.ValueOf(target).Elem()
	if v == nil {
		elem.Set(reflect.Zero(elem.Type()))
		return nil
	}
	val := reflect.ValueOf(v)
	if !val.Type().AssignableTo(elem.Type()) {
		return e("reason", "decoded value not assignable to target",
			"target", elem.Type(),
			"value_type", val.Type())
	}
	elem.Set(val)
	return nil
}
