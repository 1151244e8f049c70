package story

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeCode is a parsed event time expression: a local counter, an optional
// signed offset suffix (+N / -N), and an optional trailing '~' marking the
// stated value as already absolute.
type TimeCode struct {
	Counter  int
	Offset   int
	Absolute bool
}

// ParseTimeCode parses the time-code micro-syntax: <int>[+<int>|-<int>][~].
// Examples: "5", "5+2", "17-3", "12~", "9+1~".
func ParseTimeCode(raw string) (TimeCode, error) {
	s := strings.TrimSpace(raw)
	var tc TimeCode
	if s == "" {
		return tc, fmt.Errorf("empty time code: %w", ErrInvalidOffset)
	}
	if strings.HasSuffix(s, "~") {
		tc.Absolute = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "~"))
	}
	base, off, err := splitOffsetSuffix(s)
	if err != nil {
		return tc, fmt.Errorf("time code %q: %w", raw, err)
	}
	n, err := strconv.Atoi(base)
	if err != nil {
		return tc, fmt.Errorf("time code %q: %w", raw, ErrInvalidOffset)
	}
	tc.Counter = n
	tc.Offset = off
	return tc, nil
}

// ParseNameOffset splits a trailing +N / -N offset from a line name or short
// name, e.g. "Mars+3" -> ("Mars", 3). Names without a suffix return offset 0.
func ParseNameOffset(raw string) (string, int, error) {
	s := strings.TrimSpace(raw)
	base, off, err := splitOffsetSuffix(s)
	if err != nil {
		return "", 0, fmt.Errorf("name %q: %w", raw, err)
	}
	return base, off, nil
}

// splitOffsetSuffix strips one trailing signed-integer suffix. The split
// point is the last '+' or '-' that is not the leading sign of the base.
func splitOffsetSuffix(s string) (string, int, error) {
	cut := -1
	for i := len(s) - 1; i > 0; i-- {
		if s[i] == '+' || s[i] == '-' {
			cut = i
			break
		}
		if s[i] < '0' || s[i] > '9' {
			break
		}
	}
	if cut <= 0 {
		return s, 0, nil
	}
	off, err := strconv.Atoi(s[cut:])
	if err != nil {
		return "", 0, ErrInvalidOffset
	}
	return strings.TrimSpace(s[:cut]), off, nil
}
