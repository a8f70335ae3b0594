package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lilopkins/fixedrec"
	"github.com/lilopkins/fixedrec/internal/codegen"
	"github.com/lilopkins/fixedrec/internal/parser"
)

func main() {
	out := flag.String("out", "", "write generated code to `path` (\"-\" for stdout); omit to describe the formats")
	pkg := flag.String("pkg", "", "package `name` for the generated file (default: the scanned package)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	file, err := parser.ParseFiles(flag.Args()...)
	if err != nil {
		fatal(err)
	}

	if len(file.Formats) == 0 {
		fmt.Println("No interfaces with @fixedformat annotations found")
		return
	}

	units := make([]codegen.Unit, 0, len(file.Formats))
	for _, decl := range file.Formats {
		f, err := fixedrec.Compile(decl.Schema)
		if err != nil {
			fatal(fmt.Errorf("format %s: %w", decl.Name, err))
		}
		units = append(units, codegen.Unit{Decl: decl, Format: f})
	}

	// Without -out, describe the resolved layouts instead of generating.
	if *out == "" {
		for i, u := range units {
			if i > 0 {
				fmt.Println()
			}
			u.Format.Describe(os.Stdout)
		}
		return
	}

	name := *pkg
	if name == "" {
		name = file.Package
	}
	src, err := codegen.NewGenerator(name, units).Generate()
	if err != nil {
		fatal(err)
	}

	if *out == "-" {
		os.Stdout.Write(src)
		return
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fixedrecgen [-out path] [-pkg name] file.go [file.go ...]\n")
	flag.PrintDefaults()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
