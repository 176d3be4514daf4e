package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeGroupName canonicalizes a reviewer-supplied group name: NFC
// Unicode normalization, interior whitespace runs collapsed to single
// spaces, leading and trailing whitespace removed. Returns "" when the
// input contains no printable content, which callers treat as "no rename".
func NormalizeGroupName(name string) string {
	name = norm.NFC.String(name)
	var b strings.Builder
	b.Grow(len(name))
	pendingSpace := false
	for _, r := range name {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
