package fixedrec

import (
	"errors"
	"fmt"
)

// ErrInvalidRecordType is returned by Parse when a line's leading tag matches
// no variant. Lines shorter than the tag length report the same error rather
// than faulting.
var ErrInvalidRecordType = errors.New("invalid record type")

// FieldError reports the first field of a matched record whose substring did
// not convert to its declared type. Fields after the failing one are never
// attempted.
type FieldError struct {
	RecordType string // tag of the matched variant
	Field      string // name of the failing field
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("failed to parse field `%s` in %s record.", e.Field, e.RecordType)
}

// SchemaError reports a schema defect found during compilation. It names the
// offending declaration where one is known. Compilation stops at the first
// defect; no partial Format is produced.
type SchemaError struct {
	Variant string
	Field   string
	Msg     string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Variant != "" && e.Field != "":
		return fmt.Sprintf("schema: record %s: field %s: %s", e.Variant, e.Field, e.Msg)
	case e.Variant != "":
		return fmt.Sprintf("schema: record %s: %s", e.Variant, e.Msg)
	default:
		return "schema: " + e.Msg
	}
}

func schemaErrf(variant, field, format string, args ...any) error {
	return &SchemaError{Variant: variant, Field: field, Msg: fmt.Sprintf(format, args...)}
}
