// Package member defines the normalized politician record shared across
// the scraper subsystems.
package member

// Chamber identifies which legislative body a record belongs to.
type Chamber string

// Chamber values serialized in the dataset.
const (
	ChamberDeputy  Chamber = "depute"
	ChamberSenator Chamber = "senateur"
)

// Non-attached sentinels used whenever a group affiliation cannot be
// resolved. The two chambers spell the display name differently.
const (
	NonAttachedCode        = "NI"
	NonAttachedDeputyName  = "Non inscrit"
	NonAttachedSenatorName = "Non-inscrits"
)

// Record is the unit of output: one member of parliament, normalized.
// PhotoURLs is working state for the downloader and never reaches the
// persisted dataset.
type Record struct {
	ID        string   `json:"id"`
	LastName  string   `json:"nom"`
	FirstName string   `json:"prenom"`
	FullName  string   `json:"nom_complet"`
	GroupCode string   `json:"groupe_sigle"`
	GroupName string   `json:"groupe_nom"`
	Chamber   Chamber  `json:"type"`
	Photo     string   `json:"photo"`
	PhotoURLs []string `json:"-"`
}

// Group pairs a political group's short code with its full name.
type Group struct {
	Code string
	Name string
}

// NonAttached returns the fallback group for the given chamber.
func NonAttached(chamber Chamber) Group {
	if chamber == ChamberSenator {
		return Group{Code: NonAttachedCode, Name: NonAttachedSenatorName}
	}
	return Group{Code: NonAttachedCode, Name: NonAttachedDeputyName}
}
