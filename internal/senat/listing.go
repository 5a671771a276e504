// Package senat builds senator records by joining the senat.fr listing
// page (slugs and display names) with the data.senat.fr registry (group
// membership), keyed by matricule.
package senat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/polidle/parl-scraper/internal/member"
)

const senatorPathPrefix = "/senateur/"

// matriculePattern captures the registry identifier carried as the slug's
// tail, e.g. "21071f" in "dupont-jean-21071f".
var matriculePattern = regexp.MustCompile(`(\d+[a-z])$`)

// ListingEntry is one senator extracted from the listing page.
type ListingEntry struct {
	Slug      string
	LastName  string
	FirstName string
	Matricule string
}

// ParseListing scans the senator list page for anchors pointing at
// per-senator pages and extracts slug, split display name and matricule.
// Non-breaking spaces, whether entity-encoded or literal, are treated as
// ordinary spaces.
func ParseListing(html string) ([]ListingEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse senator list page: %w", err)
	}

	var entries []ListingEntry
	doc.Find(`a[href^="` + senatorPathPrefix + `"]`).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasSuffix(href, ".html") {
			return
		}
		slug := strings.TrimSuffix(strings.TrimPrefix(href, senatorPathPrefix), ".html")
		slug = strings.TrimSpace(slug)
		if slug == "" || strings.Contains(slug, "/") {
			return
		}

		rawName := strings.TrimSpace(strings.ReplaceAll(sel.Text(), "\u00a0", " "))
		if rawName == "" {
			return
		}

		last, first := splitDisplayName(rawName)
		if last == "" {
			last = slug
		}

		entries = append(entries, ListingEntry{
			Slug:      slug,
			LastName:  member.TitleCase(last),
			FirstName: first,
			Matricule: strings.ToUpper(Matricule(slug)),
		})
	})
	return entries, nil
}

// Matricule returns the trailing digits-plus-letter identifier of a slug,
// or "" when the slug carries none.
func Matricule(slug string) string {
	return matriculePattern.FindString(slug)
}

// splitDisplayName cuts "LASTNAME Firstname" at the first whitespace run.
// Listings put the surname first; a name with no whitespace is all surname.
func splitDisplayName(raw string) (last, first string) {
	idx := strings.IndexFunc(raw, isSpace)
	if idx < 0 {
		return raw, ""
	}
	last = raw[:idx]
	first = strings.TrimLeftFunc(raw[idx:], isSpace)
	return last, first
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
