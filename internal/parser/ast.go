package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"

	"github.com/lilopkins/fixedrec"
)

// FormatDecl is one @fixedformat interface together with the @record structs
// declared for it, assembled into a compilable schema.
type FormatDecl struct {
	Name          string   // interface name, the schema's target type
	MarkerMethods []string // zero-arg methods each record type must implement
	Schema        fixedrec.Schema
}

// File is the scan result for one or more source files of a single package.
type File struct {
	Package string
	Formats []*FormatDecl
}

// ParseFiles parses Go source files and assembles every @fixedformat
// interface with its @record structs. Records may live in a different file
// from their interface and may be declared before it; all files must belong
// to the same package. Formats keep source order, as do each format's
// records.
func ParseFiles(filenames ...string) (*File, error) {
	fset := token.NewFileSet()
	sc := newScan()

	for _, filename := range filenames {
		file, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		if err := sc.addFile(fset, file); err != nil {
			return nil, err
		}
	}

	return sc.finish()
}

// ParseFile is ParseFiles for a single source file.
func ParseFile(filename string) (*File, error) {
	return ParseFiles(filename)
}

// scan accumulates formats and records across files. Records are held back
// until finish so they can reference a format declared later.
type scan struct {
	out     *File
	byName  map[string]*FormatDecl
	records []pendingRecord
}

type pendingRecord struct {
	anno    *RecordAnnotation
	variant fixedrec.Variant
	pos     token.Position
}

func newScan() *scan {
	return &scan{
		out:    &File{},
		byName: make(map[string]*FormatDecl),
	}
}

func (sc *scan) addFile(fset *token.FileSet, file *ast.File) error {
	if sc.out.Package == "" {
		sc.out.Package = file.Name.Name
	} else if file.Name.Name != sc.out.Package {
		return fmt.Errorf("%s: package %s, want %s: all scanned files must belong to one package",
			fset.Position(file.Name.Pos()), file.Name.Name, sc.out.Package)
	}

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)
			lines := commentLines(genDecl.Doc, typeSpec.Doc)
			pos := fset.Position(typeSpec.Pos())

			marked, err := FindFormatMarker(lines)
			if err != nil {
				return fmt.Errorf("%s: %w", pos, err)
			}
			if marked {
				f, err := extractFormat(typeSpec)
				if err != nil {
					return fmt.Errorf("%s: %w", pos, err)
				}
				if sc.byName[f.Name] != nil {
					return fmt.Errorf("%s: duplicate format %s", pos, f.Name)
				}
				sc.byName[f.Name] = f
				sc.out.Formats = append(sc.out.Formats, f)
				continue
			}

			anno, found, err := FindRecordAnnotation(lines)
			if err != nil {
				return fmt.Errorf("%s: %w", pos, err)
			}
			if !found {
				continue
			}
			v, err := extractRecord(typeSpec, anno)
			if err != nil {
				return fmt.Errorf("%s: %w", pos, err)
			}
			sc.records = append(sc.records, pendingRecord{anno: anno, variant: v, pos: pos})
		}
	}

	return nil
}

func (sc *scan) finish() (*File, error) {
	for _, r := range sc.records {
		f := sc.byName[r.anno.Format]
		if f == nil {
			return nil, fmt.Errorf("%s: record %s references unknown format %s", r.pos, r.variant.Name, r.anno.Format)
		}
		f.Schema.Variants = append(f.Schema.Variants, r.variant)
	}
	return sc.out, nil
}

// extractFormat reads the target interface. Only marker methods are allowed:
// the generator emits an empty implementation of each for every record type,
// which is what makes the records members of the interface.
func extractFormat(typeSpec *ast.TypeSpec) (*FormatDecl, error) {
	ifaceType, ok := typeSpec.Type.(*ast.InterfaceType)
	if !ok {
		return nil, fmt.Errorf("can only build a parser from an interface type")
	}

	f := &FormatDecl{
		Name:   typeSpec.Name.Name,
		Schema: fixedrec.Schema{Target: typeSpec.Name.Name},
	}

	for _, m := range ifaceType.Methods.List {
		if len(m.Names) == 0 {
			return nil, fmt.Errorf("embedded interfaces are not supported, only marker methods")
		}
		ft, ok := m.Type.(*ast.FuncType)
		if !ok {
			return nil, fmt.Errorf("%s is not a method", m.Names[0].Name)
		}
		if numFields(ft.Params) != 0 || numFields(ft.Results) != 0 {
			return nil, fmt.Errorf("method %s: marker methods must have no parameters or results", m.Names[0].Name)
		}
		for _, name := range m.Names {
			f.MarkerMethods = append(f.MarkerMethods, name.Name)
		}
	}

	return f, nil
}

// extractRecord reads one @record struct. Only fields carrying a fixed tag
// become record columns; an explicitly empty fixed tag is an error, while
// fields with other struct tags or none at all are simply not part of the
// record.
func extractRecord(typeSpec *ast.TypeSpec, anno *RecordAnnotation) (fixedrec.Variant, error) {
	structType, ok := typeSpec.Type.(*ast.StructType)
	if !ok {
		return fixedrec.Variant{}, fmt.Errorf("@record requires a struct type")
	}

	v := fixedrec.Variant{
		Name:         typeSpec.Name.Name,
		Tag:          anno.Tag,
		Discriminant: anno.Index,
	}

	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			continue // embedded field, not a record column
		}
		if field.Tag == nil {
			continue
		}

		tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
		fixedTag, ok := tag.Lookup("fixed")
		if !ok {
			continue
		}

		hints, err := ParseTag(fixedTag)
		if err != nil {
			return fixedrec.Variant{}, fmt.Errorf("field %s: %w", field.Names[0].Name, err)
		}

		// A multi-name declaration gives every name the same hints; with
		// length-only hints that lays the fields out back to back.
		for _, name := range field.Names {
			v.Fields = append(v.Fields, fixedrec.Field{
				Name:   name.Name,
				GoType: typeToString(field.Type),
				Hints:  hints,
			})
		}
	}

	return v, nil
}

func numFields(fl *ast.FieldList) int {
	if fl == nil {
		return 0
	}
	return len(fl.List)
}

// commentLines flattens the doc groups above a declaration into cleaned
// lines. Both the GenDecl doc and the TypeSpec doc are searched, so the
// annotation is found whether the type is declared alone or inside a
// type ( ... ) block.
func commentLines(groups ...*ast.CommentGroup) []string {
	var lines []string
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			lines = append(lines, CleanComment(c.Text))
		}
	}
	return lines
}

// typeToString converts an AST type expression to source text. The scanner
// reports field types faithfully; whether a type is convertible is decided
// by the generator and the binder.
func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name

	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name

	case *ast.StarExpr:
		return "*" + typeToString(t.X)

	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", exprToString(t.Len), typeToString(t.Elt))

	default:
		return "unknown"
	}
}

func exprToString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return e.Value
	case *ast.Ident:
		return e.Name
	default:
		return "?"
	}
}
