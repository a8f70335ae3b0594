// Package fixedrec compiles declarative schemas for fixed-length tagged record
// formats into ready-to-use line parsers.
//
// A format is a set of record variants. Every input line starts with a
// fixed-width tag that selects one variant; the rest of the line is a sequence
// of fixed-width fields whose layout differs per variant. Schemas declare each
// field's position with partial hints (starts-at, ends-at, length) that are
// resolved against a per-variant running cursor, so contiguous fields only
// need a length.
//
// Compile validates a Schema and resolves every field to an absolute byte
// range. The compiled Format can be interpreted directly (Bind, table-driven)
// or rendered to Go source by cmd/fixedrecgen. All offsets are byte offsets
// into the line.
package fixedrec

// HintKind identifies one of the three positional hint forms.
type HintKind int

const (
	HintStartsAt HintKind = iota
	HintEndsAt
	HintLength
)

func (k HintKind) String() string {
	switch k {
	case HintStartsAt:
		return "starts-at"
	case HintEndsAt:
		return "ends-at"
	case HintLength:
		return "length"
	default:
		return "unknown"
	}
}

// Hint partially specifies a field's position. Hints apply in declaration
// order: a later hint overrides an earlier one of the same kind, and ends-at
// and length hints also advance the variant's running cursor.
type Hint struct {
	Kind HintKind
	N    int
}

// StartsAt pins the field's first byte. It does not advance the cursor.
func StartsAt(n int) Hint { return Hint{Kind: HintStartsAt, N: n} }

// EndsAt pins the byte just past the field and advances the cursor to it.
func EndsAt(n int) Hint { return Hint{Kind: HintEndsAt, N: n} }

// Length sets the field's width from its current start and advances the
// cursor past the field.
func Length(n int) Hint { return Hint{Kind: HintLength, N: n} }

// Field is one fixed-width column of a record variant, before resolution.
//
// GoType names the declared value type ("int", "string", ...). It may be
// empty, in which case binding decides conversion purely from the bound
// struct; code generation requires it.
type Field struct {
	Name   string
	GoType string
	Hints  []Hint
}

// Variant is one record shape, keyed by its tag.
//
// Discriminant is reserved for future tag-to-index mapping and must be nil;
// Compile rejects schemas that set it.
type Variant struct {
	Name         string
	Tag          string
	Discriminant *int
	Fields       []Field
}

// Schema describes a whole record format: the target result type name and the
// variants in declaration order. Declaration order is significant only in that
// duplicate tags are not detected; the first declared variant wins dispatch.
type Schema struct {
	Target   string
	Variants []Variant
}

// ErrorName returns the name of the error type generated for this schema.
func (s Schema) ErrorName() string { return s.Target + "ParseError" }
