package service

import (
	"fmt"
	"math"

	"roomy/internal/model"
)

const defaultMaxReasons = 3

// Reasons explains a score with at most MaxReasons short strings, in fixed
// order: budget, room type, university, area, amenity, personality, then the
// high-score call-out.
func Reasons(rubric model.Rubric, requester, candidate model.Profile, score int) []string {
	return generateReasons(rubric, normalize(requester), normalize(candidate), score)
}

func generateReasons(r model.Rubric, a, b normalizedProfile, score int) []string {
	reasons := []string{}

	if a.budget != nil && b.budget != nil && r.BudgetPoints > 0 {
		diff := math.Abs(*a.budget - *b.budget)
		for _, tier := range r.BudgetTiers {
			if diff < tier.Below {
				reasons = append(reasons, tier.Reason)
				break
			}
		}
	}

	reasons = appendMatch(reasons, r.RoomTypePoints, r.RoomTypeReason, a.roomType, b.roomType, a.roomTypeLabel)
	reasons = appendMatch(reasons, r.UniversityPoints, r.UniversityReason, a.university, b.university, a.universityLabel)
	reasons = appendMatch(reasons, r.AreaPoints, r.AreaReason, a.area, b.area, a.areaLabel)

	if r.AmenityPoints > 0 && r.AmenityReason != "" {
		if amenity, ok := matchedAmenity(a, b); ok {
			reasons = append(reasons, fmt.Sprintf(r.AmenityReason, amenity))
		}
	}

	reasons = appendMatch(reasons, r.SocialPoints, r.SocialReason, a.social, b.social, a.socialLabel)
	reasons = appendMatch(reasons, r.StudyPoints, r.StudyReason, a.study, b.study, a.studyLabel)
	reasons = appendMatch(reasons, r.PreferredAreaPoints, r.PreferredAreaReason, a.preferredArea, b.preferredArea, a.preferredAreaLabel)

	if r.HighScoreThreshold > 0 && score >= r.HighScoreThreshold && r.HighScoreReason != "" {
		reasons = append(reasons, r.HighScoreReason)
	}

	if len(reasons) == 0 && len(r.FillerReasons) > 0 {
		reasons = append(reasons, r.FillerReasons...)
	}

	limit := r.MaxReasons
	if limit <= 0 {
		limit = defaultMaxReasons
	}
	if len(reasons) > limit {
		reasons = reasons[:limit]
	}
	return reasons
}

func appendMatch(reasons []string, points float64, format, a, b, label string) []string {
	if points <= 0 || format == "" || !sameKey(a, b) {
		return reasons
	}
	return append(reasons, fmt.Sprintf(format, label))
}
