package example

import (
	"bytes"
	"os"
	"testing"

	"github.com/lilopkins/fixedrec"
	"github.com/lilopkins/fixedrec/internal/codegen"
	"github.com/lilopkins/fixedrec/internal/parser"
)

// Regenerates from transmission.go the way fixedrecgen does and compares
// against the checked-in output, so a generator change cannot leave
// transmission_gen.go behind.
func TestGeneratedFileUpToDate(t *testing.T) {
	file, err := parser.ParseFiles("transmission.go")
	if err != nil {
		t.Fatalf("ParseFiles() error: %v", err)
	}

	units := make([]codegen.Unit, 0, len(file.Formats))
	for _, decl := range file.Formats {
		f, err := fixedrec.Compile(decl.Schema)
		if err != nil {
			t.Fatalf("Compile(%s) error: %v", decl.Name, err)
		}
		units = append(units, codegen.Unit{Decl: decl, Format: f})
	}

	got, err := codegen.NewGenerator(file.Package, units).Generate()
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want, err := os.ReadFile("transmission_gen.go")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("transmission_gen.go is stale; rerun go generate\n--- regenerated ---\n%s", got)
	}
}
