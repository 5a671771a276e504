package member

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var nonAlnumRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a stable ASCII identifier from a display name: NFD
// decomposition, combining marks and non-ASCII runes dropped, lowercased,
// every run of non-alphanumerics collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func Slugify(name string) string {
	decomposed := norm.NFD.String(name)
	ascii := make([]rune, 0, len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) || r > unicode.MaxASCII {
			continue
		}
		ascii = append(ascii, r)
	}
	slug := strings.ToLower(string(ascii))
	slug = nonAlnumRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// TitleCase normalizes an all-caps surname ("COHEN-SÉAT") to display form
// ("Cohen-Séat"). A cases.Caser carries transform state and is not safe
// for concurrent use, so each call builds its own.
func TitleCase(name string) string {
	return cases.Title(language.French).String(name)
}
