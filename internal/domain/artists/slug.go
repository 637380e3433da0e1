package artists

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlug   = regexp.MustCompile(`[^\p{L}\p{N}\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// MakeSlug turns a display name into a URL path segment.
// Hangul is kept as is: "김 정희" -> "김-정희".
func MakeSlug(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "artist"
	}
	return base
}

// NewSlug prefers the English name and appends a short random suffix so two
// artists with the same name never collide.
func NewSlug(a Artist) string {
	name := ""
	for _, t := range a.I18n {
		if t.Lang == "en" && strings.TrimSpace(t.Name) != "" {
			name = t.Name
			break
		}
	}
	if name == "" {
		name = a.Name("ko")
	}
	return MakeSlug(name) + "-" + uuid.NewString()[:6]
}
