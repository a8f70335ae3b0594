package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lilopkins/fixedrec"
)

// ParseTag parses a fixed struct tag into position hints.
//
// Semantics:
//   - "start=N" : the field's first byte is N (the running cursor is unchanged)
//   - "end=N"   : the byte just past the field is N (cursor moves to N)
//   - "len=N"   : the field is N bytes wide from its start (cursor moves past it)
//
// Hints apply in written order and a key may repeat; during offset resolution
// a later hint overrides what an earlier one computed.
//
// Examples:
//
//	"start=2,len=10"  → [2, 12)
//	"len=3"           → 3 bytes from wherever the cursor is
//	"start=2,end=8"   → [2, 8)
//	"end=8"           → from the cursor up to byte 8
func ParseTag(tag string) ([]fixedrec.Hint, error) {
	if tag == "" {
		return nil, fmt.Errorf("empty fixed tag")
	}

	var hints []fixedrec.Hint
	for _, part := range strings.Split(tag, ",") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid parameter: %s", part)
		}
		key, value := kv[0], kv[1]

		var mk func(int) fixedrec.Hint
		switch key {
		case "start":
			mk = fixedrec.StartsAt
		case "end":
			mk = fixedrec.EndsAt
		case "len":
			mk = fixedrec.Length
		default:
			return nil, fmt.Errorf("unknown parameter: %s", key)
		}

		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %s", key, value)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s must not be negative, got: %d", key, n)
		}
		hints = append(hints, mk(n))
	}

	return hints, nil
}
