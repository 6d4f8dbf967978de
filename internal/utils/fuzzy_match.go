package utils

import (
	"regexp"
	"strings"
)

// amenityGroup ties a canonical amenity to the words a student types for it
// (keywords) and the wordings listings use for it (aliases).
type amenityGroup struct {
	canonical string
	keywords  []string
	aliases   []string
	pattern   *regexp.Regexp
}

// Order matters: the first group mentioned in a message wins.
var amenityGroups = buildAmenityGroups([]amenityGroup{
	{
		canonical: "parking",
		keywords:  []string{"parking", "garage"},
		aliases:   []string{"parking", "garage", "car park", "covered parking"},
	},
	{
		canonical: "wifi",
		keywords:  []string{"wifi", "internet"},
		aliases:   []string{"wifi", "wi-fi", "internet", "fiber"},
	},
	{
		canonical: "gym",
		keywords:  []string{"gym", "fitness"},
		aliases:   []string{"gym", "gymnasium", "fitness", "fitness center"},
	},
	{
		canonical: "laundry",
		keywords:  []string{"laundry"},
		aliases:   []string{"laundry", "washer", "washing machine", "washer/dryer"},
	},
})

func buildAmenityGroups(groups []amenityGroup) []amenityGroup {
	for i := range groups {
		quoted := make([]string, len(groups[i].keywords))
		for j, k := range groups[i].keywords {
			quoted[j] = regexp.QuoteMeta(k)
		}
		groups[i].pattern = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	}
	return groups
}

// CanonicalAmenity returns the first amenity keyword group mentioned in text
func CanonicalAmenity(text string) (string, bool) {
	for _, g := range amenityGroups {
		if g.pattern.MatchString(text) {
			return g.canonical, true
		}
	}
	return "", false
}

// FuzzyMatchAmenity performs fuzzy matching for amenity names
// Returns true if the search term fuzzy matches the amenity
func FuzzyMatchAmenity(searchTerm, amenity string) bool {
	searchLower := strings.ToLower(strings.TrimSpace(searchTerm))
	amenityLower := strings.ToLower(strings.TrimSpace(amenity))

	if searchLower == "" || amenityLower == "" {
		return false
	}

	// Exact match
	if searchLower == amenityLower {
		return true
	}

	// Contains match
	if strings.Contains(amenityLower, searchLower) {
		return true
	}

	// Both sides fall in the same alias group
	for _, g := range amenityGroups {
		if containsAny(searchLower, g.aliases) && containsAny(amenityLower, g.aliases) {
			return true
		}
	}

	return false
}

// AmenityMatches reports whether any listed amenity fuzzy matches searchTerm
func AmenityMatches(searchTerm string, amenities []string) bool {
	for _, a := range amenities {
		if FuzzyMatchAmenity(searchTerm, a) {
			return true
		}
	}
	return false
}

// NormalizeAmenity maps an amenity wording onto its canonical name, or
// returns the trimmed lower-case input when it belongs to no group.
func NormalizeAmenity(amenity string) string {
	amenityLower := strings.ToLower(strings.TrimSpace(amenity))
	for _, g := range amenityGroups {
		for _, alias := range g.aliases {
			if amenityLower == alias {
				return g.canonical
			}
		}
	}
	return amenityLower
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
