package yamlschema

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lilopkins/fixedrec"
)

func TestLoad_FullDocument(t *testing.T) {
	doc := `
format: Transmission
records:
  - name: Header
    tag: "HD"
    fields:
      - name: Name
        type: string
        start: 2
        len: 10
      - name: Age
        type: uint8
        len: 3
  - name: Data
    tag: "DT"
    fields:
      - name: Payload
        type: string
        start: 2
        end: 8
      - name: Checksum
        type: uint16
        len: 4
`

	schema, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if schema.Target != "Transmission" {
		t.Errorf("Target = %q, want %q", schema.Target, "Transmission")
	}
	if len(schema.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(schema.Variants))
	}
	if schema.Variants[0].Name != "Header" || schema.Variants[0].Tag != "HD" {
		t.Errorf("variant 0 = %s/%s, want Header/HD", schema.Variants[0].Name, schema.Variants[0].Tag)
	}
	if schema.Variants[1].Name != "Data" || schema.Variants[1].Tag != "DT" {
		t.Errorf("variant 1 = %s/%s, want Data/DT", schema.Variants[1].Name, schema.Variants[1].Tag)
	}
	if got := schema.Variants[0].Fields[1].GoType; got != "uint8" {
		t.Errorf("Age type = %q, want %q", got, "uint8")
	}

	// The loaded schema must compile to the expected spans.
	format, err := fixedrec.Compile(schema)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	spans := format.Variants()[0].Spans
	if spans[0].From != 2 || spans[0].To != 12 {
		t.Errorf("Name span: got [%d, %d), want [2, 12)", spans[0].From, spans[0].To)
	}
	if spans[1].From != 12 || spans[1].To != 15 {
		t.Errorf("Age span: got [%d, %d), want [12, 15)", spans[1].From, spans[1].To)
	}
	spans = format.Variants()[1].Spans
	if spans[0].From != 2 || spans[0].To != 8 {
		t.Errorf("Payload span: got [%d, %d), want [2, 8)", spans[0].From, spans[0].To)
	}
	if spans[1].From != 8 || spans[1].To != 12 {
		t.Errorf("Checksum span: got [%d, %d), want [8, 12)", spans[1].From, spans[1].To)
	}
}

func TestLoadFile(t *testing.T) {
	schema, err := LoadFile("testdata/transmission.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if schema.Target != "Transmission" {
		t.Errorf("Target = %q, want %q", schema.Target, "Transmission")
	}
	if len(schema.Variants) != 2 {
		t.Errorf("expected 2 variants, got %d", len(schema.Variants))
	}
	if _, err := fixedrec.Compile(schema); err != nil {
		t.Errorf("Compile() error: %v", err)
	}
}

func TestLoad_HintOrderFollowsDocument(t *testing.T) {
	lenFirst := `
format: X
records:
  - name: A
    tag: "AA"
    fields:
      - name: F
        len: 3
        start: 7
`
	startFirst := `
format: X
records:
  - name: A
    tag: "AA"
    fields:
      - name: F
        start: 7
        len: 3
`

	s1, err := Load([]byte(lenFirst))
	if err != nil {
		t.Fatalf("Load(len first) error: %v", err)
	}
	s2, err := Load([]byte(startFirst))
	if err != nil {
		t.Fatalf("Load(start first) error: %v", err)
	}

	want1 := []fixedrec.Hint{fixedrec.Length(3), fixedrec.StartsAt(7)}
	if got := s1.Variants[0].Fields[0].Hints; !reflect.DeepEqual(got, want1) {
		t.Errorf("len-first hints = %v, want %v", got, want1)
	}
	want2 := []fixedrec.Hint{fixedrec.StartsAt(7), fixedrec.Length(3)}
	if got := s2.Variants[0].Fields[0].Hints; !reflect.DeepEqual(got, want2) {
		t.Errorf("start-first hints = %v, want %v", got, want2)
	}
}

func TestLoad_DuplicateHintKeysFold(t *testing.T) {
	// len appears twice; the later one overrides during resolution.
	doc := `
format: X
records:
  - name: A
    tag: "AA"
    fields:
      - name: F
        start: 2
        len: 3
        len: 5
`

	schema, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := len(schema.Variants[0].Fields[0].Hints); got != 3 {
		t.Fatalf("expected 3 hints, got %d", got)
	}

	format, err := fixedrec.Compile(schema)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	span := format.Variants()[0].Spans[0]
	if span.From != 2 || span.To != 7 {
		t.Errorf("span: got [%d, %d), want [2, 7)", span.From, span.To)
	}
}

func TestLoad_IndexBecomesDiscriminant(t *testing.T) {
	doc := `
format: X
records:
  - name: A
    tag: "AA"
    index: 3
    fields:
      - name: F
        len: 4
`

	schema, err := Load([]byte(doc))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	d := schema.Variants[0].Discriminant
	if d == nil || *d != 3 {
		t.Fatalf("Discriminant = %v, want 3", d)
	}

	// Manual discriminants survive loading but are rejected at compile time.
	_, err = fixedrec.Compile(schema)
	if err == nil {
		t.Fatal("Compile() expected discriminant error, got nil")
	}
	if !strings.Contains(err.Error(), "discriminant") {
		t.Errorf("Compile() error = %q, want mention of discriminant", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "empty document",
			doc:     "",
			wantErr: "empty document",
		},
		{
			name:    "top level sequence",
			doc:     "- a\n- b\n",
			wantErr: "top level must be a mapping",
		},
		{
			name:    "unknown top-level key",
			doc:     "format: X\nbogus: 1\n",
			wantErr: `unknown key "bogus"`,
		},
		{
			name:    "records not a sequence",
			doc:     "format: X\nrecords: 5\n",
			wantErr: "records must be a sequence",
		},
		{
			name:    "record not a mapping",
			doc:     "format: X\nrecords:\n  - 5\n",
			wantErr: "record must be a mapping",
		},
		{
			name:    "unknown record key",
			doc:     "format: X\nrecords:\n  - name: A\n    tag: \"AA\"\n    color: red\n",
			wantErr: `unknown key "color" in record`,
		},
		{
			name:    "record missing name",
			doc:     "format: X\nrecords:\n  - tag: \"AA\"\n",
			wantErr: "record is missing a name",
		},
		{
			name:    "fields not a sequence",
			doc:     "format: X\nrecords:\n  - name: A\n    tag: \"AA\"\n    fields: 5\n",
			wantErr: "fields must be a sequence",
		},
		{
			name:    "unknown field key",
			doc:     "format: X\nrecords:\n  - name: A\n    tag: \"AA\"\n    fields:\n      - name: F\n        width: 3\n",
			wantErr: `unknown key "width" in field`,
		},
		{
			name:    "field missing name",
			doc:     "format: X\nrecords:\n  - name: A\n    tag: \"AA\"\n    fields:\n      - len: 3\n",
			wantErr: "field is missing a name",
		},
		{
			name:    "non-integer start",
			doc:     "format: X\nrecords:\n  - name: A\n    tag: \"AA\"\n    fields:\n      - name: F\n        start: abc\n",
			wantErr: "not an integer",
		},
		{
			name:    "format not a scalar",
			doc:     "format: [a, b]\n",
			wantErr: "expected a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			if err == nil {
				t.Fatalf("Load() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ErrorsCarryLineNumbers(t *testing.T) {
	doc := `format: X
records:
  - name: A
    tag: "AA"
    fields:
      - name: F
        width: 3
`

	_, err := Load([]byte(doc))
	if err == nil {
		t.Fatal("Load() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "line 7") {
		t.Errorf("Load() error = %q, want line 7", err)
	}
}
