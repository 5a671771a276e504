package senat

import (
	"fmt"
	"strings"

	"github.com/polidle/parl-scraper/internal/member"
)

// Merge joins listing entries with the registry group table by matricule.
// Entries missing from the registry fall back to the non-attached group.
// photoURL is a template with one %s verb for the slug.
func Merge(entries []ListingEntry, groups map[string]member.Group, photoURL string) []member.Record {
	records := make([]member.Record, 0, len(entries))
	for _, e := range entries {
		group, ok := groups[e.Matricule]
		if !ok {
			group = member.NonAttached(member.ChamberSenator)
		}

		full := strings.TrimSpace(e.FirstName + " " + e.LastName)

		var photoURLs []string
		if photoURL != "" {
			photoURLs = []string{fmt.Sprintf(photoURL, e.Slug)}
		}

		records = append(records, member.Record{
			ID:        e.Slug,
			LastName:  e.LastName,
			FirstName: e.FirstName,
			FullName:  full,
			GroupCode: group.Code,
			GroupName: group.Name,
			Chamber:   member.ChamberSenator,
			PhotoURLs: photoURLs,
		})
	}
	return records
}
