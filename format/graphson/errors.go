package graphson

import (
	"fmt"
	"reflect"
)

// The error types below are the causes of the errors returned by the encoder and decoder. The returned errors are
// *errors.Error instances (github.com/eluv-io/errors-go) carrying the op, kind and the document path - use errors.As
// to retrieve the cause:
//
//	var unknown *graphson.UnknownTypeError
//	if errors.As(err, &unknown) {
//		fmt.Println("not registered:", unknown.Tag)
//	}

// UnsupportedTypeError is returned by the encoder for values whose type has no registered encoder.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	if e.Type == nil {
		return "unsupported type <nil>"
	}
	return "unsupported type " + e.Type.String()
}

// UnknownTypeError is returned by the decoder for type tags that are not registered.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type tag %q", e.Tag)
}

// MalformedEnvelopeError is returned by the decoder for tagged objects that miss required fields or have fields of
// the wrong type.
type MalformedEnvelopeError struct {
	Tag    string
	Field  string
	Reason string
}

func (e *MalformedEnvelopeError) Error() string {
	msg := "malformed envelope"
	if e.Tag != "" {
		msg += " " + e.Tag
	}
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// InvalidArityError is returned by the decoder for predicate combinators that do not have exactly two operands.
type InvalidArityError struct {
	Operator string
	Expected int
	Actual   int
}

func (e *InvalidArityError) Error() string {
	return fmt.Sprintf("invalid arity for %q: expected %d operands, got %d", e.Operator, e.Expected, e.Actual)
}

// CyclicStructureError is returned by the encoder when a composite value contains itself.
type CyclicStructureError struct {
	Type reflect.Type
}

func (e *CyclicStructureError) Error() string {
	return "cyclic structure detected at value of type " + fmt.Sprint(e.Type)
}

func malformed(tag, field, reason string) error {
	return &MalformedEnvelopeError{Tag: tag, Field: field, Reason: reason}
}
