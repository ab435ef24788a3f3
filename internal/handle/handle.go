// Package handle derives machine-safe identifiers from free-form text.
//
// A handle is what the admin UI proposes for a section or field as the user
// types its name: lowercase ASCII letters and digits, starting with a letter.
package handle

import (
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// Letters that do not decompose into a base letter plus marks.
var folds = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"đ", "d",
	"ð", "d",
	"ł", "l",
	"þ", "th",
	"ı", "i",
)

// Generate returns the handle for source.
//
// Tags are stripped, the text is lowercased and folded to ASCII, everything
// outside [a-z0-9] is dropped, and any leading run of digits is trimmed so the
// result starts with a letter. The result may be empty.
func Generate(source string) string {
	s := stripTags(source)
	s = strings.ToLower(s)
	s = ASCII(s)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}

	return strings.TrimLeftFunc(b.String(), func(r rune) bool {
		return r < 'a' || r > 'z'
	})
}

// Valid reports whether h is a non-empty handle that Generate leaves unchanged.
func Valid(h string) bool {
	return h != "" && Generate(h) == h
}

// ASCII folds extended characters to their closest basic equivalent.
// Characters with no equivalent are left for the caller to drop.
func ASCII(s string) string {
	s = folds.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func stripTags(s string) string {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	// A "<" with no ">" after it opens no tag; keep it as text.
	if last := strings.LastIndexByte(s, '>'); last < len(s)-1 {
		s = s[:last+1] + strings.ReplaceAll(s[last+1:], "<", "&lt;")
	}
	// The policy escapes what it keeps; undo that so "&" does not turn into "amp".
	return html.UnescapeString(stripPolicy.Sanitize(s))
}
