package member

// senateGroupCodes maps raw group labels from the Sénat open-data registry
// to their short codes. Labels already given as codes pass through.
var senateGroupCodes = map[string]string{
	"Les Républicains": "LR",
	"Les Indépendants": "INDEP",
	"Les Indépendants - République et Territoires": "INDEP",
	"Non inscrit":  NonAttachedCode,
	"Non inscrits": NonAttachedCode,
}

// senateGroupNames maps Sénat group short codes to display names.
var senateGroupNames = map[string]string{
	"LR":     "Les Républicains",
	"SER":    "Socialiste, Écologiste et Républicain",
	"UC":     "Union Centriste",
	"INDEP":  "Les Indépendants – République et Territoires",
	"RDPI":   "Rassemblement des démocrates, progressistes et indépendants",
	"CRCE-K": "Communiste Républicain Citoyen Écologiste – Kanaky",
	"RDSE":   "Rassemblement Démocratique et Social Européen",
	"GEST":   "Écologiste – Solidarité et Territoires",
	"NI":     NonAttachedSenatorName,
}

// deputyGroupNames maps Assemblée nationale group short codes to display
// names, for API payloads that carry only the code.
var deputyGroupNames = map[string]string{
	"RN":      "Rassemblement National",
	"EPR":     "Ensemble pour la République",
	"LFI-NFP": "La France insoumise - Nouveau Front Populaire",
	"SOC":     "Socialistes et apparentés",
	"DR":      "Droite Républicaine",
	"EcoS":    "Écologiste et Social",
	"DEM":     "Les Démocrates",
	"HOR":     "Horizons & Indépendants",
	"LIOT":    "Libertés, Indépendants, Outre-mer et Territoires",
	"GDR":     "Gauche Démocrate et Républicaine",
	"UDR":     "Union des Droites pour la République",
	"NI":      NonAttachedDeputyName,
}

// SenateGroup resolves a raw group label from the Sénat registry to a
// (code, name) pair. Unknown labels keep the raw value in both positions
// so the data is never silently lost.
func SenateGroup(raw string) Group {
	if raw == "" {
		return NonAttached(ChamberSenator)
	}
	code := raw
	if mapped, ok := senateGroupCodes[raw]; ok {
		code = mapped
	}
	name := raw
	if mapped, ok := senateGroupNames[code]; ok {
		name = mapped
	}
	return Group{Code: code, Name: name}
}

// DeputyGroupName returns the display name for a deputy group code, or the
// code itself when the table has no entry.
func DeputyGroupName(code string) string {
	if name, ok := deputyGroupNames[code]; ok {
		return name
	}
	return code
}
