// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Make lowercases the input and reduces it to hyphen-separated ascii words.
func Make(value string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r), r == '-', r == '_', r == '/':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// MakeUnique appends a short random suffix so repeated names do not collide.
func MakeUnique(value string) string {
	base := Make(value)
	suffix := strings.Split(uuid.NewString(), "-")[0]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
