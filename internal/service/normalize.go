package service

import (
	"sort"
	"strings"

	"roomy/internal/model"
)

// Canonical personality question keys. Raw question texts are mapped onto
// these by keyword, so "Are you more social or quiet?" and "social_or_quiet"
// compare as the same question.
const (
	QuestionSocial        = "social_or_quiet"
	QuestionStudy         = "study_alone_or_with_others"
	QuestionPreferredArea = "preferred_area"
)

// normalizedProfile is the comparable form of a Profile. Empty strings and
// nil pointers mean "no signal".
type normalizedProfile struct {
	budget *float64

	university      string
	universityLabel string
	roomType        string
	roomTypeLabel   string
	area            string
	areaLabel       string
	name            string
	amenities       []string

	social             string
	socialLabel        string
	study              string
	studyLabel         string
	preferredArea      string
	preferredAreaLabel string

	boost *normalizedBoost
}

type normalizedBoost struct {
	wakeTime          string
	cleanliness       *int
	noiseTolerance    *int
	guestPolicy       string
	cookingHabits     string
	socialEnergy      *int
	organizationStyle *int
	temperature       string
}

func normalize(p model.Profile) normalizedProfile {
	n := normalizedProfile{
		budget:    p.Budget,
		amenities: []string(p.Amenities),
	}
	n.university, n.universityLabel = foldPtr(p.University)
	n.roomType, n.roomTypeLabel = foldPtr(p.RoomType)
	n.area, n.areaLabel = foldPtr(p.Area)
	if n.area == "" {
		n.area, n.areaLabel = foldPtr(p.ResidentialArea)
	}
	n.name, _ = foldPtr(p.Name)

	// Sorted keys keep the first-match-wins classification deterministic.
	keys := make([]string, 0, len(p.PersonalityAnswers))
	for k := range p.PersonalityAnswers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		answer, label := fold(p.PersonalityAnswers[k])
		if answer == "" {
			continue
		}
		switch classifyQuestion(k) {
		case QuestionSocial:
			if n.social == "" {
				n.social, n.socialLabel = answer, label
			}
		case QuestionStudy:
			if n.study == "" {
				n.study, n.studyLabel = answer, label
			}
		case QuestionPreferredArea:
			if n.preferredArea == "" {
				n.preferredArea, n.preferredAreaLabel = answer, label
			}
		}
	}

	if b := p.BoostProfile; b != nil {
		n.boost = &normalizedBoost{
			wakeTime:          foldString(b.WakeTime),
			cleanliness:       b.Cleanliness,
			noiseTolerance:    b.NoiseTolerance,
			guestPolicy:       foldString(b.GuestPolicy),
			cookingHabits:     foldString(b.CookingHabits),
			socialEnergy:      b.SocialEnergy,
			organizationStyle: b.OrganizationStyle,
			temperature:       foldString(b.TemperaturePreference),
		}
	}

	return n
}

// classifyQuestion maps a raw question text onto a canonical key, or "".
func classifyQuestion(question string) string {
	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "social") || strings.Contains(q, "quiet"):
		return QuestionSocial
	case strings.Contains(q, "study"):
		return QuestionStudy
	case strings.Contains(q, "area") || strings.Contains(q, "campus"):
		return QuestionPreferredArea
	default:
		return ""
	}
}

// fold returns the comparison key and the trimmed display label of s.
func fold(s string) (string, string) {
	label := strings.TrimSpace(s)
	return strings.ToLower(label), label
}

func foldPtr(s *string) (string, string) {
	if s == nil {
		return "", ""
	}
	return fold(*s)
}

func foldString(s string) string {
	key, _ := fold(s)
	return key
}

// sameKey reports an exact match of two present values
func sameKey(a, b string) bool {
	return a != "" && a == b
}
