package fixedrec

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
)

// Parser is the table-driven interpreter of a compiled Format. One line in,
// one populated variant value (or typed error) out. A Parser is immutable
// after Bind and safe for concurrent use; Parse reads only its input and
// allocates an independent result.
type Parser struct {
	tagLen int
	arms   []parseArm
}

// parseArm is one dispatch arm: a tag to match and the bound extraction
// program for that variant's fields, in declaration order.
type parseArm struct {
	tag    string
	typ    reflect.Type
	fields []boundField
}

type boundField struct {
	span  Span
	index int
	conv  converter
}

// converter writes the raw substring into dst, reporting any conversion
// failure. The caller owns error shaping.
type converter func(dst reflect.Value, raw string) error

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// Bind matches each variant to one of the prototype structs by type name and
// prepares the per-field conversions. Every variant must be covered and every
// prototype must be used; field names must be exported struct fields whose
// types convert from text (the builtin string, bool, integer and float types,
// or any type implementing encoding.TextUnmarshaler).
func (f *Format) Bind(prototypes ...any) (*Parser, error) {
	byName := make(map[string]reflect.Type, len(prototypes))
	used := make(map[string]bool, len(prototypes))
	for _, p := range prototypes {
		t := reflect.TypeOf(p)
		if t == nil || t.Kind() != reflect.Struct {
			return nil, fmt.Errorf("bind %s: prototypes must be struct values, got %T", f.target, p)
		}
		if _, dup := byName[t.Name()]; dup {
			return nil, fmt.Errorf("bind %s: duplicate prototype for %s", f.target, t.Name())
		}
		byName[t.Name()] = t
	}

	p := &Parser{
		tagLen: f.tagLen,
		arms:   make([]parseArm, 0, len(f.variants)),
	}

	for _, v := range f.variants {
		typ, ok := byName[v.Name]
		if !ok {
			return nil, fmt.Errorf("bind %s: no prototype for record %s", f.target, v.Name)
		}
		used[v.Name] = true

		arm := parseArm{
			tag:    v.Tag,
			typ:    typ,
			fields: make([]boundField, 0, len(v.Spans)),
		}
		for _, s := range v.Spans {
			sf, ok := typ.FieldByName(s.Name)
			if !ok {
				return nil, fmt.Errorf("bind %s: record %s has no field %s", f.target, v.Name, s.Name)
			}
			if sf.PkgPath != "" {
				return nil, fmt.Errorf("bind %s: record %s: field %s must be exported", f.target, v.Name, s.Name)
			}
			if len(sf.Index) != 1 {
				return nil, fmt.Errorf("bind %s: record %s: field %s is promoted from an embedded struct; declare it directly", f.target, v.Name, s.Name)
			}
			if s.GoType != "" && s.GoType != sf.Type.Name() {
				return nil, fmt.Errorf("bind %s: record %s: field %s declared as %s but struct field is %s", f.target, v.Name, s.Name, s.GoType, sf.Type.Name())
			}
			conv, err := converterFor(sf.Type)
			if err != nil {
				return nil, fmt.Errorf("bind %s: record %s: field %s: %w", f.target, v.Name, s.Name, err)
			}
			arm.fields = append(arm.fields, boundField{span: s, index: sf.Index[0], conv: conv})
		}
		p.arms = append(p.arms, arm)
	}

	for name := range byName {
		if !used[name] {
			return nil, fmt.Errorf("bind %s: prototype %s matches no record variant", f.target, name)
		}
	}

	return p, nil
}

// converterFor selects the conversion for one field type. Only the builtin
// types go through strconv, exactly as generated code would; every named type
// must parse itself via encoding.TextUnmarshaler, even when its underlying
// kind is a builtin one.
func converterFor(t reflect.Type) (converter, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return func(dst reflect.Value, raw string) error {
			return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw))
		}, nil
	}

	if t.PkgPath() == "" {
		switch t.Kind() {
		case reflect.String:
			return func(dst reflect.Value, raw string) error {
				dst.SetString(raw)
				return nil
			}, nil
		case reflect.Bool:
			return func(dst reflect.Value, raw string) error {
				b, err := strconv.ParseBool(raw)
				if err != nil {
					return err
				}
				dst.SetBool(b)
				return nil
			}, nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			bits := t.Bits()
			return func(dst reflect.Value, raw string) error {
				n, err := strconv.ParseInt(raw, 10, bits)
				if err != nil {
					return err
				}
				dst.SetInt(n)
				return nil
			}, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			bits := t.Bits()
			return func(dst reflect.Value, raw string) error {
				n, err := strconv.ParseUint(raw, 10, bits)
				if err != nil {
					return err
				}
				dst.SetUint(n)
				return nil
			}, nil
		case reflect.Float32, reflect.Float64:
			bits := t.Bits()
			return func(dst reflect.Value, raw string) error {
				x, err := strconv.ParseFloat(raw, bits)
				if err != nil {
					return err
				}
				dst.SetFloat(x)
				return nil
			}, nil
		}
	}

	return nil, fmt.Errorf("type %s does not convert from text", t)
}

// Parse dispatches one line by its leading tag and extracts the matched
// variant's fields left to right.
//
// Tags are compared verbatim against the first TagLen bytes; a line shorter
// than the tag, or with an unknown tag, reports ErrInvalidRecordType. Within
// a matched variant the first field whose substring is missing or fails to
// convert stops extraction with a *FieldError; no other variant is tried.
// Duplicate tags dispatch to the first declared variant.
func (p *Parser) Parse(line string) (any, error) {
	if len(line) < p.tagLen {
		return nil, ErrInvalidRecordType
	}
	tag := line[:p.tagLen]

	for i := range p.arms {
		arm := &p.arms[i]
		if arm.tag != tag {
			continue
		}

		v := reflect.New(arm.typ).Elem()
		for _, bf := range arm.fields {
			if bf.span.To > len(line) {
				return nil, &FieldError{RecordType: arm.tag, Field: bf.span.Name}
			}
			raw := line[bf.span.From:bf.span.To]
			if err := bf.conv(v.Field(bf.index), raw); err != nil {
				return nil, &FieldError{RecordType: arm.tag, Field: bf.span.Name}
			}
		}
		return v.Interface(), nil
	}

	return nil, ErrInvalidRecordType
}
