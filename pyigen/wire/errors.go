package wire

import (
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

// UnknownTypeError reports a wire tag with no renderer.
type UnknownTypeError struct {
	Tag thrift.TType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unsupported wire type %s (%d)", e.Tag, byte(e.Tag))
}

// MalformedSpecError reports a field specification that does not have the
// (ttype, name, meta..., required) shape.
type MalformedSpecError struct {
	// Field is the field name, when it could be read.
	Field string

	Reason string
}

func (e *MalformedSpecError) Error() string {
	if e.Field == "" {
		return "malformed field spec: " + e.Reason
	}
	return "malformed field spec " + e.Field + ": " + e.Reason
}
