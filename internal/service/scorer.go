package service

import (
	"math"

	"roomy/internal/model"
	"roomy/internal/utils"
)

// MaxScore is the ceiling of a compatibility score
const MaxScore = 100

// Score computes the 0..100 compatibility of candidate for requester.
func Score(rubric model.Rubric, requester, candidate model.Profile) int {
	return clampScore(rawScore(rubric, normalize(requester), normalize(candidate)))
}

// rawScore sums every applicable term of the rubric. Absent data on either
// side contributes nothing.
func rawScore(r model.Rubric, a, b normalizedProfile) float64 {
	total := budgetTerm(r, a.budget, b.budget)

	if sameKey(a.roomType, b.roomType) {
		total += r.RoomTypePoints
	}
	if sameKey(a.university, b.university) {
		total += r.UniversityPoints
	}
	if sameKey(a.area, b.area) {
		total += r.AreaPoints
	}
	if _, ok := matchedAmenity(a, b); ok {
		total += r.AmenityPoints
	}

	if sameKey(a.social, b.social) {
		total += r.SocialPoints
	}
	if sameKey(a.study, b.study) {
		total += r.StudyPoints
	}
	if sameKey(a.preferredArea, b.preferredArea) {
		total += r.PreferredAreaPoints
	}

	if a.boost != nil && b.boost != nil {
		total += boostTerm(r.Boost, a.boost, b.boost)
	}

	return total
}

// budgetTerm decays linearly with the difference when the rubric has a
// divisor; otherwise it is a flat bonus inside the BudgetWithin window.
func budgetTerm(r model.Rubric, a, b *float64) float64 {
	if a == nil || b == nil || r.BudgetPoints <= 0 {
		return 0
	}
	diff := math.Abs(*a - *b)

	if r.BudgetDivisor > 0 {
		return math.Max(0, r.BudgetPoints-diff/r.BudgetDivisor)
	}
	if r.BudgetWithin > 0 && diff < r.BudgetWithin {
		return r.BudgetPoints
	}
	return 0
}

func boostTerm(w model.BoostWeights, a, b *normalizedBoost) float64 {
	total := 0.0
	if sameKey(a.wakeTime, b.wakeTime) {
		total += w.WakeTime
	}
	total += closeness(w.Cleanliness, w.CleanlinessDivisor, a.cleanliness, b.cleanliness)
	total += closeness(w.Noise, w.NoiseDivisor, a.noiseTolerance, b.noiseTolerance)
	if sameKey(a.guestPolicy, b.guestPolicy) {
		total += w.GuestPolicy
	}
	if sameKey(a.cookingHabits, b.cookingHabits) {
		total += w.Cooking
	}
	total += closeness(w.SocialEnergy, w.SocialEnergyDivisor, a.socialEnergy, b.socialEnergy)
	total += closeness(w.Organization, w.OrganizationDivisor, a.organizationStyle, b.organizationStyle)
	if sameKey(a.temperature, b.temperature) {
		total += w.Temperature
	}
	return total
}

// closeness scores two points on a scale: max(0, points - |Δ|/divisor).
// Without a divisor only equal values score.
func closeness(points, divisor float64, a, b *int) float64 {
	if a == nil || b == nil || points <= 0 {
		return 0
	}
	diff := math.Abs(float64(*a - *b))
	if divisor <= 0 {
		if diff == 0 {
			return points
		}
		return 0
	}
	return math.Max(0, points-diff/divisor)
}

// matchedAmenity returns the first requested amenity the candidate offers
func matchedAmenity(a, b normalizedProfile) (string, bool) {
	for _, want := range a.amenities {
		if utils.AmenityMatches(want, b.amenities) {
			return want, true
		}
	}
	return "", false
}

func clampScore(v float64) int {
	s := int(math.Round(v))
	if s > MaxScore {
		return MaxScore
	}
	if s < 0 {
		return 0
	}
	return s
}
