package fixedrec

import (
	"fmt"
	"io"
)

// Span is one resolved fixed-width column: an absolute half-open byte range
// within the line, carrying the owning variant's tag for diagnostics. Spans
// are independent of the tag length; a schema may deliberately lay a field
// over the tag region.
type Span struct {
	Name   string
	GoType string
	Tag    string
	From   int
	To     int
}

// Width returns the number of bytes the span covers. Always positive for
// spans produced by Compile.
func (s Span) Width() int { return s.To - s.From }

// ResolvedVariant is one record shape with every field resolved.
type ResolvedVariant struct {
	Name  string
	Tag   string
	Spans []Span
}

// MinLineLen returns the smallest line length on which every field of the
// variant can be sliced, including the tag region.
func (v ResolvedVariant) MinLineLen() int {
	min := len(v.Tag)
	for _, s := range v.Spans {
		if s.To > min {
			min = s.To
		}
	}
	return min
}

// Format is the compiled, offset-resolved form of a Schema: the table of
// (tag, spans) pairs that dispatch and extraction run on. A Format is
// immutable once compiled.
type Format struct {
	target   string
	errName  string
	tagLen   int
	variants []ResolvedVariant
}

// Target returns the format's result type name.
func (f *Format) Target() string { return f.target }

// ErrorName returns the name of the error type generated for this format.
func (f *Format) ErrorName() string { return f.errName }

// TagLen returns the fixed tag length L shared by every variant.
func (f *Format) TagLen() int { return f.tagLen }

// Variants returns the resolved variants in declaration order. The returned
// slice is shared; callers must not modify it.
func (f *Format) Variants() []ResolvedVariant { return f.variants }

// Describe writes a human-readable layout table, one variant per block.
func (f *Format) Describe(w io.Writer) {
	fmt.Fprintf(w, "%s (tag length %d)\n", f.target, f.tagLen)
	for _, v := range f.variants {
		fmt.Fprintf(w, "  %s %s (min line %d)\n", v.Tag, v.Name, v.MinLineLen())
		for _, s := range v.Spans {
			typ := s.GoType
			if typ == "" {
				typ = "?"
			}
			fmt.Fprintf(w, "    %-15s %-10s [%d, %d)\n", s.Name, typ, s.From, s.To)
		}
	}
}
