package codegen

import (
	"fmt"
	"go/format"
	"strings"

	"github.com/lilopkins/fixedrec"
	"github.com/lilopkins/fixedrec/internal/parser"
)

// Unit pairs a scanned format declaration with its compiled layout. The
// declaration contributes names (interface, records, marker methods); the
// compiled layout contributes the resolved byte ranges.
type Unit struct {
	Decl   *parser.FormatDecl
	Format *fixedrec.Format
}

// Generator renders one Go source file containing, for every format: the
// error type, the marker method implementations that admit each record into
// the format interface, and the parse function.
type Generator struct {
	pkg   string
	units []Unit
}

// NewGenerator creates a generator for one output file in package pkg.
func NewGenerator(pkg string, units []Unit) *Generator {
	return &Generator{pkg: pkg, units: units}
}

// Generate returns the complete generated file, gofmt-formatted. A source
// that does not format is a generator bug and is reported as an error.
func (g *Generator) Generate() ([]byte, error) {
	var out strings.Builder

	out.WriteString("// Code generated by fixedrecgen. DO NOT EDIT.\n\n")
	out.WriteString(fmt.Sprintf("package %s\n\n", g.pkg))
	g.writeImports(&out)

	for _, u := range g.units {
		g.writeErrorType(&out, u)
		g.writeMarkerImpls(&out, u)
		if err := g.writeParseFunc(&out, u); err != nil {
			return nil, err
		}
	}

	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, fmt.Errorf("generated source does not format: %w", err)
	}
	return src, nil
}

// numericSpec describes how a builtin numeric type parses from its substring.
type numericSpec struct {
	parseFunc string // strconv function name
	bits      int
	cast      string // conversion applied to the parsed value; empty for none
}

var numericSpecs = map[string]numericSpec{
	"int":     {"ParseInt", 0, "int"},
	"int8":    {"ParseInt", 8, "int8"},
	"int16":   {"ParseInt", 16, "int16"},
	"int32":   {"ParseInt", 32, "int32"},
	"int64":   {"ParseInt", 64, ""},
	"uint":    {"ParseUint", 0, "uint"},
	"uint8":   {"ParseUint", 8, "uint8"},
	"uint16":  {"ParseUint", 16, "uint16"},
	"uint32":  {"ParseUint", 32, "uint32"},
	"uint64":  {"ParseUint", 64, ""},
	"byte":    {"ParseUint", 8, "byte"},
	"float32": {"ParseFloat", 32, "float32"},
	"float64": {"ParseFloat", 64, ""},
}

// needsStrconv reports whether any field parses through strconv. String
// fields slice directly and other types go through UnmarshalText, so the
// import is only written when a bool or numeric field exists.
func (g *Generator) needsStrconv() bool {
	for _, u := range g.units {
		for _, v := range u.Format.Variants() {
			for _, s := range v.Spans {
				if s.GoType == "bool" {
					return true
				}
				if _, ok := numericSpecs[s.GoType]; ok {
					return true
				}
			}
		}
	}
	return false
}

func (g *Generator) writeImports(out *strings.Builder) {
	out.WriteString("import (\n")
	out.WriteString("\t\"fmt\"\n")
	if g.needsStrconv() {
		out.WriteString("\t\"strconv\"\n")
	}
	out.WriteString(")\n\n")
}

// writeErrorType emits the format's error type: a kind discriminator with
// the two failure classes and the fixed message renderings.
func (g *Generator) writeErrorType(out *strings.Builder, u Unit) {
	target := u.Format.Target()
	errName := u.Format.ErrorName()

	out.WriteString(fmt.Sprintf("// %sKind discriminates the two failure classes of Parse%s.\n", errName, target))
	out.WriteString(fmt.Sprintf("type %sKind int\n\n", errName))

	out.WriteString("const (\n")
	out.WriteString(fmt.Sprintf("\t%sInvalidRecordType %sKind = iota\n", target, errName))
	out.WriteString(fmt.Sprintf("\t%sFailedToParse\n", target))
	out.WriteString(")\n\n")

	out.WriteString(fmt.Sprintf("// %s reports why a line did not parse as a %s record.\n", errName, target))
	out.WriteString(fmt.Sprintf("type %s struct {\n", errName))
	out.WriteString(fmt.Sprintf("\tKind       %sKind\n", errName))
	out.WriteString("\tRecordType string\n")
	out.WriteString("\tField      string\n")
	out.WriteString("}\n\n")

	out.WriteString(fmt.Sprintf("func (e *%s) Error() string {\n", errName))
	out.WriteString(fmt.Sprintf("\tif e.Kind == %sFailedToParse {\n", target))
	out.WriteString("\t\treturn fmt.Sprintf(\"failed to parse field `%s` in %s record.\", e.Field, e.RecordType)\n")
	out.WriteString("\t}\n")
	out.WriteString("\treturn \"invalid record type\"\n")
	out.WriteString("}\n\n")
}

// writeMarkerImpls emits an empty implementation of each marker method for
// each record type, which is what makes the records members of the format
// interface.
func (g *Generator) writeMarkerImpls(out *strings.Builder, u Unit) {
	for _, v := range u.Format.Variants() {
		for _, method := range u.Decl.MarkerMethods {
			out.WriteString(fmt.Sprintf("func (%s) %s() {}\n", v.Name, method))
		}
	}
	if len(u.Decl.MarkerMethods) > 0 {
		out.WriteString("\n")
	}
}

// writeParseFunc emits Parse<Target>: an if chain over the variant tags in
// declaration order, so duplicate tags keep first-match dispatch, with a
// length guard and a conversion per field. The first failing field wins.
func (g *Generator) writeParseFunc(out *strings.Builder, u Unit) error {
	target := u.Format.Target()
	errName := u.Format.ErrorName()
	tagLen := u.Format.TagLen()

	out.WriteString(fmt.Sprintf("// Parse%s parses one line, dispatching on its leading %d-byte tag.\n", target, tagLen))
	out.WriteString(fmt.Sprintf("func Parse%s(line string) (%s, error) {\n", target, target))
	out.WriteString(fmt.Sprintf("\tif len(line) < %d {\n", tagLen))
	out.WriteString(fmt.Sprintf("\t\treturn nil, &%s{Kind: %sInvalidRecordType}\n", errName, target))
	out.WriteString("\t}\n")
	out.WriteString(fmt.Sprintf("\ttag := line[0:%d]\n\n", tagLen))

	for _, v := range u.Format.Variants() {
		out.WriteString(fmt.Sprintf("\t// %s: tag %q\n", v.Name, v.Tag))
		out.WriteString(fmt.Sprintf("\tif tag == %q {\n", v.Tag))
		out.WriteString(fmt.Sprintf("\t\tvar rec %s\n", v.Name))
		for _, s := range v.Spans {
			if s.GoType == "" {
				return fmt.Errorf("format %s: record %s: field %s has no declared type", target, v.Name, s.Name)
			}
			fail := fmt.Sprintf("return nil, &%s{Kind: %sFailedToParse, RecordType: %q, Field: %q}",
				errName, target, v.Tag, s.Name)

			out.WriteString(fmt.Sprintf("\t\t// %s: %s at [%d, %d)\n", s.Name, s.GoType, s.From, s.To))
			out.WriteString(fmt.Sprintf("\t\tif len(line) < %d {\n", s.To))
			out.WriteString(fmt.Sprintf("\t\t\t%s\n", fail))
			out.WriteString("\t\t}\n")
			g.writeFieldConv(out, s, fail)
		}
		out.WriteString("\t\treturn rec, nil\n")
		out.WriteString("\t}\n")
	}

	out.WriteString(fmt.Sprintf("\n\treturn nil, &%s{Kind: %sInvalidRecordType}\n", errName, target))
	out.WriteString("}\n\n")
	return nil
}

// writeFieldConv emits the conversion of one field's substring into the
// record. Strings slice directly, bool and numeric types go through strconv,
// and every other type is asked to UnmarshalText itself; a type that cannot
// is a compile error in the generated code, not a silent fallback.
func (g *Generator) writeFieldConv(out *strings.Builder, s fixedrec.Span, fail string) {
	slice := fmt.Sprintf("line[%d:%d]", s.From, s.To)

	switch {
	case s.GoType == "string":
		out.WriteString(fmt.Sprintf("\t\trec.%s = %s\n", s.Name, slice))

	case s.GoType == "bool":
		out.WriteString("\t\t{\n")
		out.WriteString(fmt.Sprintf("\t\t\tv, err := strconv.ParseBool(%s)\n", slice))
		out.WriteString("\t\t\tif err != nil {\n")
		out.WriteString(fmt.Sprintf("\t\t\t\t%s\n", fail))
		out.WriteString("\t\t\t}\n")
		out.WriteString(fmt.Sprintf("\t\t\trec.%s = v\n", s.Name))
		out.WriteString("\t\t}\n")

	default:
		if spec, ok := numericSpecs[s.GoType]; ok {
			out.WriteString("\t\t{\n")
			if spec.parseFunc == "ParseFloat" {
				out.WriteString(fmt.Sprintf("\t\t\tv, err := strconv.ParseFloat(%s, %d)\n", slice, spec.bits))
			} else {
				out.WriteString(fmt.Sprintf("\t\t\tv, err := strconv.%s(%s, 10, %d)\n", spec.parseFunc, slice, spec.bits))
			}
			out.WriteString("\t\t\tif err != nil {\n")
			out.WriteString(fmt.Sprintf("\t\t\t\t%s\n", fail))
			out.WriteString("\t\t\t}\n")
			if spec.cast != "" {
				out.WriteString(fmt.Sprintf("\t\t\trec.%s = %s(v)\n", s.Name, spec.cast))
			} else {
				out.WriteString(fmt.Sprintf("\t\t\trec.%s = v\n", s.Name))
			}
			out.WriteString("\t\t}\n")
			return
		}

		out.WriteString(fmt.Sprintf("\t\tif err := rec.%s.UnmarshalText([]byte(%s)); err != nil {\n", s.Name, slice))
		out.WriteString(fmt.Sprintf("\t\t\t%s\n", fail))
		out.WriteString("\t\t}\n")
	}
}
