// Package interactions holds the static drug interaction table and the
// lookup logic used both at medicine add-time and by the alert evaluator's
// pairwise interaction pass.
package interactions

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/medikeep/medikeep-api/entities"
)

// table maps a medicine name to the names it is known to interact with.
// Trackable medicine pairs appear under both names; entries like Alcohol or
// Naproxen exist only as values since they are not expected as tracked
// medicines. A curated subset; a real deployment would source this from a
// drug interaction API.
var table = map[string][]string{
	"Aspirin":               {"Warfarin", "Ibuprofen", "Naproxen"},
	"Warfarin":              {"Aspirin", "Ibuprofen", "Paracetamol"},
	"Ibuprofen":             {"Aspirin", "Warfarin", "Lisinopril"},
	"Paracetamol":           {"Warfarin"},
	"Lisinopril":            {"Ibuprofen", "Potassium supplements"},
	"Simvastatin":           {"Clarithromycin", "Erythromycin"},
	"Clarithromycin":        {"Simvastatin"},
	"Erythromycin":          {"Simvastatin"},
	"Potassium supplements": {"Lisinopril"},
	"Metformin":             {"Alcohol"},
	"Levothyroxine":         {"Calcium supplements", "Iron supplements"},
	"Calcium supplements":   {"Levothyroxine"},
	"Iron supplements":      {"Levothyroxine"},
}

// folder performs Unicode-aware case folding so that accented or
// mixed-case brand names still match table keys.
var folder = cases.Fold()

// Normalize trims and case-folds a medicine name for comparison.
func Normalize(name string) string {
	return folder.String(strings.TrimSpace(name))
}

// Lookup returns the interaction list for the given medicine name, matching
// table keys case-insensitively. Returns nil when the name is unknown.
func Lookup(name string) []string {
	normalized := Normalize(name)
	for key, list := range table {
		if Normalize(key) == normalized {
			return list
		}
	}
	return nil
}

// Interacts reports whether the two medicine names are a known interacting
// pair, looked up directionally by the first name. Tracked medicine pairs
// are listed under both names, so a single direction is sufficient.
func Interacts(nameA, nameB string) bool {
	normalizedB := Normalize(nameB)
	for _, candidate := range Lookup(nameA) {
		if Normalize(candidate) == normalizedB {
			return true
		}
	}
	return false
}

// FindInteractions returns the names of currently tracked medicines that
// interact with the candidate. Called once at add-time; the result is stored
// on the medicine as a display hint and never recomputed retroactively.
func FindInteractions(candidateName string, current []entities.Medicine) []string {
	list := Lookup(candidateName)
	if len(list) == 0 {
		return nil
	}

	var found []string
	for _, med := range current {
		for _, interacting := range list {
			if Normalize(med.Name) == Normalize(interacting) {
				found = append(found, med.Name)
				break
			}
		}
	}
	return found
}
