package paper

import (
	"fmt"
	"strings"
	"unicode"
)

// objectKey builds the blob key for an exam's paper document. The key
// embeds a sanitized copy of the exam's display name, so renaming an
// exam moves the document to a new key (see Store.RenameKey).
func objectKey(examID int64, examName string) string {
	return fmt.Sprintf("papers/%d_%s.json", examID, sanitizeName(examName))
}

// sanitizeName collapses whitespace runs to a single underscore and
// strips every other non-alphanumeric rune.
func sanitizeName(name string) string {
	var b strings.Builder
	space := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte('_')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
