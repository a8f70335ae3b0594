// Package yamlschema loads record format schemas from YAML documents, for
// formats assembled at runtime rather than generated from annotated Go source.
//
// A document names the target type and lists records with their tags and
// fields:
//
//	format: Transmission
//	records:
//	  - name: Header
//	    tag: "HD"
//	    fields:
//	      - name: Name
//	        type: string
//	        start: 2
//	        len: 10
//
// The position keys start, end and len become hints in the order they appear
// in the document, and a key may repeat; both matter, because later hints
// override earlier ones during offset resolution. Decoding therefore walks
// the yaml node tree directly instead of unmarshalling into structs, which
// would lose key order.
//
// Load performs only syntactic checks. Schema-level rules (tag lengths, field
// widths, hint values) are enforced by fixedrec.Compile.
package yamlschema

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lilopkins/fixedrec"
)

// Load decodes one YAML schema document.
func Load(data []byte) (fixedrec.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fixedrec.Schema{}, fmt.Errorf("yaml schema: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fixedrec.Schema{}, errors.New("yaml schema: empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fixedrec.Schema{}, nodeErrf(root, "top level must be a mapping")
	}

	var s fixedrec.Schema
	for i := 0; i < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "format":
			if err := decodeString(val, &s.Target); err != nil {
				return fixedrec.Schema{}, err
			}
		case "records":
			if val.Kind != yaml.SequenceNode {
				return fixedrec.Schema{}, nodeErrf(val, "records must be a sequence")
			}
			for _, rn := range val.Content {
				v, err := decodeRecord(rn)
				if err != nil {
					return fixedrec.Schema{}, err
				}
				s.Variants = append(s.Variants, v)
			}
		default:
			return fixedrec.Schema{}, nodeErrf(key, "unknown key %q", key.Value)
		}
	}

	return s, nil
}

// LoadFile reads path and decodes it with Load.
func LoadFile(path string) (fixedrec.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixedrec.Schema{}, fmt.Errorf("yaml schema: %w", err)
	}
	s, err := Load(data)
	if err != nil {
		return fixedrec.Schema{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func decodeRecord(n *yaml.Node) (fixedrec.Variant, error) {
	if n.Kind != yaml.MappingNode {
		return fixedrec.Variant{}, nodeErrf(n, "record must be a mapping")
	}

	var v fixedrec.Variant
	for i := 0; i < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "name":
			if err := decodeString(val, &v.Name); err != nil {
				return fixedrec.Variant{}, err
			}
		case "tag":
			// Taken verbatim as written, so "01" stays two bytes even
			// though yaml would resolve it as an integer.
			if err := decodeString(val, &v.Tag); err != nil {
				return fixedrec.Variant{}, err
			}
		case "index":
			idx, err := decodeInt(val)
			if err != nil {
				return fixedrec.Variant{}, err
			}
			v.Discriminant = &idx
		case "fields":
			if val.Kind != yaml.SequenceNode {
				return fixedrec.Variant{}, nodeErrf(val, "fields must be a sequence")
			}
			for _, fn := range val.Content {
				f, err := decodeField(fn)
				if err != nil {
					return fixedrec.Variant{}, err
				}
				v.Fields = append(v.Fields, f)
			}
		default:
			return fixedrec.Variant{}, nodeErrf(key, "unknown key %q in record", key.Value)
		}
	}

	if v.Name == "" {
		return fixedrec.Variant{}, nodeErrf(n, "record is missing a name")
	}
	return v, nil
}

func decodeField(n *yaml.Node) (fixedrec.Field, error) {
	if n.Kind != yaml.MappingNode {
		return fixedrec.Field{}, nodeErrf(n, "field must be a mapping")
	}

	var f fixedrec.Field
	for i := 0; i < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "name":
			if err := decodeString(val, &f.Name); err != nil {
				return fixedrec.Field{}, err
			}
		case "type":
			if err := decodeString(val, &f.GoType); err != nil {
				return fixedrec.Field{}, err
			}
		case "start":
			pos, err := decodeInt(val)
			if err != nil {
				return fixedrec.Field{}, err
			}
			f.Hints = append(f.Hints, fixedrec.StartsAt(pos))
		case "end":
			pos, err := decodeInt(val)
			if err != nil {
				return fixedrec.Field{}, err
			}
			f.Hints = append(f.Hints, fixedrec.EndsAt(pos))
		case "len":
			pos, err := decodeInt(val)
			if err != nil {
				return fixedrec.Field{}, err
			}
			f.Hints = append(f.Hints, fixedrec.Length(pos))
		default:
			return fixedrec.Field{}, nodeErrf(key, "unknown key %q in field", key.Value)
		}
	}

	if f.Name == "" {
		return fixedrec.Field{}, nodeErrf(n, "field is missing a name")
	}
	return f, nil
}

func decodeString(n *yaml.Node, dst *string) error {
	if n.Kind != yaml.ScalarNode {
		return nodeErrf(n, "expected a string")
	}
	*dst = n.Value
	return nil
}

func decodeInt(n *yaml.Node) (int, error) {
	if n.Kind != yaml.ScalarNode {
		return 0, nodeErrf(n, "expected an integer")
	}
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, nodeErrf(n, "%q is not an integer", n.Value)
	}
	return v, nil
}

func nodeErrf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("yaml schema: line %d: %s", n.Line, fmt.Sprintf(format, args...))
}
