package assemblee

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polidle/parl-scraper/internal/member"
)

// APIOptions configures the fallback API parser.
type APIOptions struct {
	// PhotoURL is the preferred portrait template (one %s verb, AN id).
	PhotoURL string
	// LegacyPhotoURL is the lower-resolution fallback template.
	LegacyPhotoURL string
}

type apiPayload struct {
	Deputes []struct {
		Depute apiMember `json:"depute"`
	} `json:"deputes"`
}

type apiMember struct {
	Slug         string    `json:"slug"`
	Nom          string    `json:"nom"`
	NomDeFamille string    `json:"nom_de_famille"`
	Prenom       string    `json:"prenom"`
	GroupeSigle  string    `json:"groupe_sigle"`
	Groupe       *apiGroup `json:"groupe"`
	IDAn         flexText  `json:"id_an"`
}

type apiGroup struct {
	Acronyme  string `json:"acronyme"`
	Organisme string `json:"organisme"`
}

// ParseAPI converts the flat member API payload into deputy records. Each
// entry already carries a slug; the group is resolved from the flat sigle
// field or the nested group object, with the static code table supplying
// the display name when the upstream one is missing or merely repeats the
// code. Entries with an AN id get two portrait candidates, best first.
func ParseAPI(payload []byte, opts APIOptions) ([]member.Record, error) {
	var doc apiPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode member api payload: %w", err)
	}

	records := make([]member.Record, 0, len(doc.Deputes))
	for _, entry := range doc.Deputes {
		rec, ok := buildAPIDeputy(entry.Depute, opts)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func buildAPIDeputy(m apiMember, opts APIOptions) (member.Record, bool) {
	last := m.NomDeFamille
	full := strings.TrimSpace(m.Nom)
	if full == "" {
		full = strings.TrimSpace(m.Prenom + " " + last)
	}
	if last == "" {
		last = strings.TrimSpace(strings.TrimPrefix(full, m.Prenom))
	}
	if full == "" {
		return member.Record{}, false
	}

	id := m.Slug
	if id == "" {
		id = member.Slugify(full)
	}

	group := apiGroupOf(m)

	var photoURLs []string
	if an := m.IDAn.Value; an != "" {
		if opts.PhotoURL != "" {
			photoURLs = append(photoURLs, fmt.Sprintf(opts.PhotoURL, an))
		}
		if opts.LegacyPhotoURL != "" {
			photoURLs = append(photoURLs, fmt.Sprintf(opts.LegacyPhotoURL, an))
		}
	}

	return member.Record{
		ID:        id,
		LastName:  last,
		FirstName: m.Prenom,
		FullName:  full,
		GroupCode: group.Code,
		GroupName: group.Name,
		Chamber:   member.ChamberDeputy,
		PhotoURLs: photoURLs,
	}, true
}

func apiGroupOf(m apiMember) member.Group {
	code := m.GroupeSigle
	if code == "" && m.Groupe != nil {
		code = m.Groupe.Acronyme
	}
	if code == "" {
		return member.NonAttached(member.ChamberDeputy)
	}

	name := ""
	if m.Groupe != nil && m.Groupe.Organisme != "" && m.Groupe.Organisme != code {
		name = m.Groupe.Organisme
	}
	if name == "" {
		name = member.DeputyGroupName(code)
	}
	return member.Group{Code: code, Name: name}
}
