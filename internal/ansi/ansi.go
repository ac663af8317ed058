// Package ansi provides ANSI escape code constants and helpers for terminal output.
// All colored/styled terminal output should reference these constants to avoid duplication.
package ansi

import "strings"

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// Style applies SGR codes to text. The zero value is disabled and returns
// text unchanged, which is what non-terminal writers get.
type Style struct {
	Enabled bool
}

// Wrap returns s surrounded by the given codes and a trailing Reset.
func (st Style) Wrap(s string, codes ...string) string {
	if !st.Enabled || len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + Reset
}

// Strip removes every SGR code defined in this package from s.
func Strip(s string) string {
	for _, c := range []string{Reset, Bold, Dim, Blue, Yellow, Green, Red, Cyan, Magenta} {
		s = strings.ReplaceAll(s, c, "")
	}
	return s
}
