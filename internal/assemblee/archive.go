package assemblee

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/polidle/parl-scraper/internal/member"
)

const (
	organePrefix = "json/organe/"
	acteurPrefix = "json/acteur/"

	// codeType of political group organes in the AMO repository.
	politicalGroupType = "GP"
)

// Options configures the archive parser.
type Options struct {
	// Legislature filters group mandates, e.g. "17".
	Legislature string
	// PhotoURL is a template with one %s verb for the numeric acteur id.
	PhotoURL string
}

type organeDoc struct {
	Organe organe `json:"organe"`
}

type organe struct {
	UID           string `json:"uid"`
	CodeType      string `json:"codeType"`
	LibelleAbrege string `json:"libelleAbrege"`
	Libelle       string `json:"libelle"`
}

type acteurDoc struct {
	Acteur acteur `json:"acteur"`
}

type acteur struct {
	UID       flexText `json:"uid"`
	EtatCivil struct {
		Ident struct {
			Nom    string `json:"nom"`
			Prenom string `json:"prenom"`
		} `json:"ident"`
	} `json:"etatCivil"`
	Mandats struct {
		Mandat mandateList `json:"mandat"`
	} `json:"mandats"`
}

type mandate struct {
	TypeOrgane  string  `json:"typeOrgane"`
	Legislature string  `json:"legislature"`
	DateFin     *string `json:"dateFin"`
	Organes     struct {
		OrganeRef string `json:"organeRef"`
	} `json:"organes"`
}

// mandateList tolerates the upstream quirk where a single mandate is
// serialized as an object instead of a one-element array.
type mandateList []mandate

func (l *mandateList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var many []mandate
		if err := json.Unmarshal(data, &many); err != nil {
			return err
		}
		*l = many
		return nil
	}
	var one mandate
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = mandateList{one}
	return nil
}

// ParseArchive extracts deputy records from the open-data zip. Pass one
// builds a lookup of political-group organes; pass two walks the acteur
// entries and resolves each deputy's current group through it. Malformed
// entries are skipped, never fatal.
func ParseArchive(zr *zip.Reader, opts Options, logger *zap.Logger) []member.Record {
	if logger == nil {
		logger = zap.NewNop()
	}

	groups := groupTable(zr, logger)

	records := make([]member.Record, 0, len(zr.File))
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, acteurPrefix) || !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		raw, err := readEntry(f)
		if err != nil {
			logger.Warn("skipping unreadable archive entry", zap.String("entry", f.Name), zap.Error(err))
			continue
		}

		var doc acteurDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			logger.Warn("skipping malformed acteur entry", zap.String("entry", f.Name), zap.Error(err))
			continue
		}
		act := doc.Acteur
		if act.UID.Value == "" {
			// Some dumps omit the wrapper object.
			if err := json.Unmarshal(raw, &act); err != nil || act.UID.Value == "" {
				continue
			}
		}

		rec, ok := buildDeputy(act, groups, opts)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// groupTable maps organe uid to its group, restricted to political groups.
func groupTable(zr *zip.Reader, logger *zap.Logger) map[string]member.Group {
	groups := make(map[string]member.Group)
	for _, f := range zr.File {
		if !strings.HasPrefix(f.Name, organePrefix) || !strings.HasSuffix(f.Name, ".json") {
			continue
		}
		raw, err := readEntry(f)
		if err != nil {
			logger.Warn("skipping unreadable archive entry", zap.String("entry", f.Name), zap.Error(err))
			continue
		}

		var doc organeDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			logger.Warn("skipping malformed organe entry", zap.String("entry", f.Name), zap.Error(err))
			continue
		}
		org := doc.Organe
		if org.UID == "" {
			if err := json.Unmarshal(raw, &org); err != nil {
				continue
			}
		}
		if org.CodeType != politicalGroupType || org.UID == "" {
			continue
		}
		groups[org.UID] = member.Group{Code: org.LibelleAbrege, Name: org.Libelle}
	}
	return groups
}

func buildDeputy(act acteur, groups map[string]member.Group, opts Options) (member.Record, bool) {
	paID := act.UID.Value
	if paID == "" {
		return member.Record{}, false
	}

	nom := act.EtatCivil.Ident.Nom
	prenom := act.EtatCivil.Ident.Prenom
	full := strings.TrimSpace(prenom + " " + nom)
	if full == "" {
		return member.Record{}, false
	}

	group := currentGroup(act.Mandats.Mandat, groups, opts.Legislature)

	var photoURLs []string
	if opts.PhotoURL != "" {
		numeric := strings.TrimPrefix(paID, "PA")
		photoURLs = []string{fmt.Sprintf(opts.PhotoURL, numeric)}
	}

	return member.Record{
		ID:        member.Slugify(full),
		LastName:  nom,
		FirstName: prenom,
		FullName:  full,
		GroupCode: group.Code,
		GroupName: group.Name,
		Chamber:   member.ChamberDeputy,
		PhotoURLs: photoURLs,
	}, true
}

// currentGroup scans mandates in source order and resolves the first
// ongoing political-group mandate of the requested legislature. The scan
// assumes upstream orders mandates by relevance; it stops at the first
// match whether or not the organe resolves, matching the published data's
// observed shape.
func currentGroup(mandates []mandate, groups map[string]member.Group, legislature string) member.Group {
	fallback := member.NonAttached(member.ChamberDeputy)
	for _, m := range mandates {
		if m.TypeOrgane != politicalGroupType || m.Legislature != legislature || m.DateFin != nil {
			continue
		}
		if g, ok := groups[m.Organes.OrganeRef]; ok {
			return g
		}
		return fallback
	}
	return fallback
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return raw, nil
}
