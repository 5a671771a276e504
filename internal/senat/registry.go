package senat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polidle/parl-scraper/internal/member"
)

type registryPayload struct {
	Results []registryEntry `json:"results"`
}

type registryEntry struct {
	Matricule       string `json:"Matricule"`
	Etat            string `json:"Etat"`
	GroupePolitique string `json:"Groupe_politique"`
}

const activeState = "ACTIF"

// ParseRegistry filters the data.senat.fr dump to active senators and keys
// each one's normalized group by uppercased matricule.
func ParseRegistry(payload []byte) (map[string]member.Group, error) {
	var doc registryPayload
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode senator registry: %w", err)
	}

	groups := make(map[string]member.Group, len(doc.Results))
	for _, entry := range doc.Results {
		if entry.Etat != activeState {
			continue
		}
		mat := strings.ToUpper(entry.Matricule)
		if mat == "" {
			continue
		}
		groups[mat] = member.SenateGroup(entry.GroupePolitique)
	}
	return groups, nil
}
