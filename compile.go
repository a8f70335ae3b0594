package fixedrec

// Compile validates a schema and resolves every field to its absolute
// [From, To) byte range. It fails on the first defect and never produces a
// partial Format. Resolution is a pure function of the schema: compiling the
// same Schema twice yields identical span tables.
func Compile(s Schema) (*Format, error) {
	if s.Target == "" {
		return nil, schemaErrf("", "", "no target type name specified")
	}
	if len(s.Variants) == 0 {
		return nil, schemaErrf("", "", "no record types specified")
	}

	f := &Format{
		target:   s.Target,
		errName:  s.ErrorName(),
		variants: make([]ResolvedVariant, 0, len(s.Variants)),
	}

	for _, v := range s.Variants {
		if v.Discriminant != nil {
			return nil, schemaErrf(v.Name, "", "record variants must not set a discriminant (reserved for tag-to-index mapping)")
		}
		if v.Tag == "" {
			return nil, schemaErrf(v.Name, "", "record tag must not be empty")
		}
		// The first variant fixes the tag length for the whole format.
		if f.tagLen == 0 {
			f.tagLen = len(v.Tag)
		} else if len(v.Tag) != f.tagLen {
			return nil, schemaErrf(v.Name, "", "record tag %q is %d bytes, want %d: all record tags must be the same length", v.Tag, len(v.Tag), f.tagLen)
		}

		rv, err := resolveVariant(v)
		if err != nil {
			return nil, err
		}
		f.variants = append(f.variants, rv)
	}

	return f, nil
}

// resolveVariant folds each field's hints left to right against a running
// cursor that starts at 0 for the variant. starts-at moves only the field's
// start; ends-at and length also advance the cursor, so a following field
// without hints begins where the previous one ended.
func resolveVariant(v Variant) (ResolvedVariant, error) {
	rv := ResolvedVariant{
		Name:  v.Name,
		Tag:   v.Tag,
		Spans: make([]Span, 0, len(v.Fields)),
	}

	cursor := 0
	for _, fld := range v.Fields {
		from := cursor
		length := 0
		to := cursor

		for _, h := range fld.Hints {
			if h.N < 0 {
				return ResolvedVariant{}, schemaErrf(v.Name, fld.Name, "%s hint must not be negative, got %d", h.Kind, h.N)
			}
			switch h.Kind {
			case HintStartsAt:
				from = h.N
				to = from + length
			case HintEndsAt:
				to = h.N
				length = to - from
				cursor = to
			case HintLength:
				length = h.N
				to = from + length
				cursor = to
			default:
				return ResolvedVariant{}, schemaErrf(v.Name, fld.Name, "unknown position hint kind %d", h.Kind)
			}
		}

		if to == from {
			return ResolvedVariant{}, schemaErrf(v.Name, fld.Name, "field length is zero")
		}
		if to < from {
			return ResolvedVariant{}, schemaErrf(v.Name, fld.Name, "field resolves to negative width [%d, %d)", from, to)
		}

		rv.Spans = append(rv.Spans, Span{
			Name:   fld.Name,
			GoType: fld.GoType,
			Tag:    v.Tag,
			From:   from,
			To:     to,
		})
	}

	return rv, nil
}
