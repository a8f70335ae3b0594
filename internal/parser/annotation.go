package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RecordAnnotation holds a parsed @record annotation.
type RecordAnnotation struct {
	Format string // name of the @fixedformat interface this record belongs to
	Tag    string // unquoted tag value
	Index  *int   // manual discriminant; rejected later by the schema compiler
}

// paramRe matches key=value pairs where the value is either a quoted string
// (tags may contain spaces) or a bare token.
var paramRe = regexp.MustCompile(`(\w+)=("(?:[^"\\]|\\.)*"|[^\s"]+)`)

// ParseRecordAnnotation parses a @record annotation from comment text.
//
// Expected format:
//
//	// @record format=Transmission tag="HD"
//	// @record format=Transmission tag="DT" index=3
//
// format names the target interface; tag must be a quoted string literal.
// index sets a manual discriminant, which the schema compiler rejects; it is
// parsed here so the rejection can name the actual rule instead of a syntax
// error.
func ParseRecordAnnotation(comment string) (*RecordAnnotation, error) {
	rest, ok := cutMarker(comment, "@record")
	if !ok {
		return nil, fmt.Errorf("no @record annotation found")
	}

	anno := &RecordAnnotation{}
	sawTag := false
	for _, pair := range paramRe.FindAllStringSubmatch(rest, -1) {
		key, value := pair[1], pair[2]

		switch key {
		case "format":
			anno.Format = value

		case "tag":
			if !strings.HasPrefix(value, `"`) {
				return nil, fmt.Errorf("record tag must be a quoted string literal, got: %s", value)
			}
			tag, err := strconv.Unquote(value)
			if err != nil {
				return nil, fmt.Errorf("invalid record tag literal: %s", value)
			}
			anno.Tag = tag
			sawTag = true

		case "index":
			idx, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid index: %s", value)
			}
			anno.Index = &idx

		default:
			return nil, fmt.Errorf("unknown parameter %s: only the tag declaration is expected on a record variant", key)
		}
	}

	// Anything the pair pattern did not consume is junk, for example a bare
	// word without '='.
	if leftover := strings.TrimSpace(paramRe.ReplaceAllString(rest, "")); leftover != "" {
		return nil, fmt.Errorf("invalid parameter: %s", leftover)
	}

	if anno.Format == "" {
		return nil, fmt.Errorf("@record requires a format= parameter")
	}
	if !sawTag {
		return nil, fmt.Errorf("@record requires a tag= parameter")
	}

	return anno, nil
}

// ParseFormatMarker reports whether comment is a @fixedformat marker. The
// marker takes no parameters.
func ParseFormatMarker(comment string) (bool, error) {
	rest, ok := cutMarker(comment, "@fixedformat")
	if !ok {
		return false, nil
	}
	if junk := strings.TrimSpace(rest); junk != "" {
		return false, fmt.Errorf("unknown parameter: %s", junk)
	}
	return true, nil
}

// FindFormatMarker searches cleaned comment lines for a @fixedformat marker.
func FindFormatMarker(comments []string) (bool, error) {
	for _, comment := range comments {
		found, err := ParseFormatMarker(comment)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// FindRecordAnnotation searches cleaned comment lines for a @record
// annotation. A malformed @record line is an error, not a miss.
func FindRecordAnnotation(comments []string) (*RecordAnnotation, bool, error) {
	for _, comment := range comments {
		if _, ok := cutMarker(comment, "@record"); !ok {
			continue
		}
		anno, err := ParseRecordAnnotation(comment)
		if err != nil {
			return nil, false, err
		}
		return anno, true, nil
	}
	return nil, false, nil
}

// cutMarker returns the text after marker when line starts with marker
// followed by a word boundary, so "@recordx" does not count as "@record".
func cutMarker(line, marker string) (string, bool) {
	if !strings.HasPrefix(line, marker) {
		return "", false
	}
	rest := strings.TrimPrefix(line, marker)
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return rest, true
}

// CleanComment removes comment markers from a line
// "// @record tag=..." → "@record tag=..."
// "/* @record tag=... */" → "@record tag=..."
func CleanComment(line string) string {
	line = strings.TrimSpace(line)

	// Remove // prefix
	if strings.HasPrefix(line, "//") {
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimSpace(line)
		return line
	}

	// Remove /* */ wrapper
	if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)
		return line
	}

	return line
}
