package service

import (
	"regexp"
	"strconv"
	"strings"

	"roomy/internal/model"
	"roomy/internal/utils"
)

// Filter keys produced by the extraction rules
const (
	FilterBudget     = "budget"
	FilterUniversity = "university"
	FilterArea       = "area"
	FilterRoomType   = "roomType"
	FilterAmenity    = "amenity"
)

// Universities recognised in chat messages, matched as whole words
var knownUniversities = []string{"AUB", "LAU", "USJ", "LIU", "NDU", "BAU", "USEK", "AUST", "UOB"}

// Areas recognised in chat messages
var knownAreas = []string{
	"Hamra", "Achrafieh", "Gemmayzeh", "Mar Mikhael", "Badaro", "Verdun", "Ras Beirut",
	"Jbeil", "Byblos", "Jounieh", "Kaslik", "Dekwaneh", "Sin El Fil", "Hadath", "Baabda", "Zalka",
}

// Room types recognised in chat messages
var knownRoomTypes = []string{"Single", "Double", "Triple", "Shared", "Studio", "Private"}

var (
	dollarPattern     = regexp.MustCompile(`\$\s?(\d{2,4})\b`)
	bareNumberPattern = regexp.MustCompile(`(?i)\b(\d{2,4})\b(\s*(?:minutes?|mins?|hours?|hrs?|km|kilometers?|meters?|years?|yrs?)\b)?`)
	groupedPattern    = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+\b`)
	cheaperPattern    = regexp.MustCompile(`(?i)\b(cheaper|lower)\b`)
	universityPattern = wordListPattern(knownUniversities)
	areaPattern       = wordListPattern(knownAreas)
	roomTypePattern   = wordListPattern(knownRoomTypes)
)

// extractionRule finds one filter value in a message. Learned values are
// also remembered as long-term preferences.
type extractionRule struct {
	Field   string
	Learned bool
	Match   func(message string) (string, bool)
}

// extractionRules are evaluated in order; each field is set by the first
// rule that matches it.
var extractionRules = []extractionRule{
	{Field: FilterBudget, Match: matchBudget},
	{Field: FilterUniversity, Match: listMatcher(universityPattern, knownUniversities)},
	{Field: FilterArea, Learned: true, Match: listMatcher(areaPattern, knownAreas)},
	{Field: FilterRoomType, Learned: true, Match: listMatcher(roomTypePattern, knownRoomTypes)},
	{Field: FilterAmenity, Learned: true, Match: utils.CanonicalAmenity},
}

// Extraction is what a single message says about the student's search
type Extraction struct {
	Filters      model.ChatFilters
	Learned      model.LearnedPreferences
	WantsCheaper bool
}

// Extract runs the rule table over a sanitized message
func Extract(message string) Extraction {
	var out Extraction

	for _, rule := range extractionRules {
		value, ok := rule.Match(message)
		if !ok {
			continue
		}
		out.set(rule.Field, value, rule.Learned)
	}

	out.WantsCheaper = cheaperPattern.MatchString(message)
	return out
}

func (e *Extraction) set(field, value string, learned bool) {
	v := value
	switch field {
	case FilterBudget:
		if e.Filters.Budget != nil {
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		e.Filters.Budget = &n
	case FilterUniversity:
		if e.Filters.University == nil {
			e.Filters.University = &v
		}
	case FilterArea:
		if e.Filters.Area == nil {
			e.Filters.Area = &v
			if learned {
				e.Learned.Area = &v
			}
		}
	case FilterRoomType:
		if e.Filters.RoomType == nil {
			e.Filters.RoomType = &v
			if learned {
				e.Learned.RoomType = &v
			}
		}
	case FilterAmenity:
		if e.Filters.Amenity == nil {
			e.Filters.Amenity = &v
			if learned {
				e.Learned.Amenity = &v
			}
		}
	}
}

// ResolveFilters combines what the message says with what is already known.
// Precedence per key is message, then carried session context, then stored
// preferences. A "cheaper"/"lower" request without a new number takes 20% off
// the carried budget.
func ResolveFilters(message string, prior model.ChatFilters, prefs *model.Preferences) (model.ChatFilters, model.LearnedPreferences) {
	ex := Extract(message)
	current := ex.Filters

	if ex.WantsCheaper && current.Budget == nil && prior.Budget != nil {
		reduced := *prior.Budget * 4 / 5
		current.Budget = &reduced
	}

	return prefs.AsFilters().Overlay(prior).Overlay(current), ex.Learned
}

// matchBudget prefers a dollar amount over a bare number. Thousands
// separators are dropped first so "1,200" reads as 1200, and bare numbers
// followed by a distance or time unit are skipped.
func matchBudget(message string) (string, bool) {
	message = groupedPattern.ReplaceAllStringFunc(message, func(n string) string {
		return strings.ReplaceAll(n, ",", "")
	})

	if m := dollarPattern.FindStringSubmatch(message); m != nil {
		return m[1], true
	}
	for _, m := range bareNumberPattern.FindAllStringSubmatch(message, -1) {
		if m[2] == "" {
			return m[1], true
		}
	}
	return "", false
}

// listMatcher returns the canonical spelling of the first listed word found
func listMatcher(pattern *regexp.Regexp, canonical []string) func(string) (string, bool) {
	byLower := make(map[string]string, len(canonical))
	for _, c := range canonical {
		byLower[strings.ToLower(c)] = c
	}
	return func(message string) (string, bool) {
		m := pattern.FindStringSubmatch(message)
		if len(m) < 2 {
			return "", false
		}
		key := strings.ToLower(strings.Join(strings.Fields(m[1]), " "))
		if c, ok := byLower[key]; ok {
			return c, true
		}
		return "", false
	}
}

func wordListPattern(words []string) *regexp.Regexp {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(parts, "|") + `)\b`)
}
