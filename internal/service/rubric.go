package service

import "roomy/internal/model"

// Rubric variant names
const (
	VariantRoommate = "roommate"
	VariantDorm     = "dorm"
)

// RoommateRubric is the scoring policy for person-to-person matching.
func RoommateRubric() model.Rubric {
	return model.Rubric{
		Name:                VariantRoommate,
		BudgetPoints:        25,
		BudgetDivisor:       50,
		RoomTypePoints:      15,
		UniversityPoints:    10,
		SocialPoints:        10,
		StudyPoints:         5,
		PreferredAreaPoints: 5,
		Boost: model.BoostWeights{
			WakeTime:            5,
			Cleanliness:         5,
			CleanlinessDivisor:  2,
			Noise:               5,
			NoiseDivisor:        2,
			GuestPolicy:         3,
			Cooking:             3,
			SocialEnergy:        4,
			SocialEnergyDivisor: 2.5,
			Organization:        3,
			OrganizationDivisor: 3,
			Temperature:         2,
		},
		// Single tier; closer budgets get no finer wording for roommates.
		BudgetTiers: []model.BudgetTier{
			{Below: 200, Reason: "Compatible budget range"},
		},
		RoomTypeReason:      "Both prefer %s",
		UniversityReason:    "Same university: %s",
		SocialReason:        "Similar personality: %s",
		StudyReason:         "Same study style: %s",
		PreferredAreaReason: "Same preferred area: %s",
		HighScoreThreshold:  80,
		HighScoreReason:     "Excellent compatibility",
		MaxReasons:          3,
	}
}

// DormRubric is the scoring policy for matching a student against listings.
func DormRubric() model.Rubric {
	return model.Rubric{
		Name:             VariantDorm,
		BudgetPoints:     30,
		BudgetWithin:     100,
		UniversityPoints: 25,
		AreaPoints:       25,
		AmenityPoints:    20,
		BudgetTiers: []model.BudgetTier{
			{Below: 100, Reason: "Price very close to your budget"},
			{Below: 200, Reason: "Within a compatible price range"},
		},
		UniversityReason: "Close to %s",
		AreaReason:       "Located in %s",
		AmenityReason:    "Has %s",
		FillerReasons:    []string{"Verified listing", "Great location"},
		MaxReasons:       3,
	}
}
