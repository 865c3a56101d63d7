package utils

import (
	"regexp"
	"strings"
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlugChars   = regexp.MustCompile(`[^a-z0-9]+`)
	leadingDashes  = regexp.MustCompile(`^-+`)
	trailingDashes = regexp.MustCompile(`-+$`)
)

// ValidSlug reports whether s is a well-formed slug: lowercase
// alphanumerics separated by single dashes.
func ValidSlug(s string) bool {
	return len(s) > 0 && len(s) <= 100 && slugPattern.MatchString(s)
}

// Slugify derives a slug from a display name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = leadingDashes.ReplaceAllString(s, "")
	s = trailingDashes.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
