package slug

import (
	"regexp"
	"strings"
)

// MaxLen bounds slugs so they stay safe as file name components.
const MaxLen = 64

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases input and collapses every run of other characters into a
// single dash. Empty results become "untitled".
func Make(input string) string {
	s := nonAlphaNum.ReplaceAllString(strings.ToLower(strings.TrimSpace(input)), "-")
	if len(s) > MaxLen {
		s = s[:MaxLen]
	}
	if s = strings.Trim(s, "-"); s == "" {
		return "untitled"
	}
	return s
}
