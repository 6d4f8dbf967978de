package model

// Rubric is one named variant of the compatibility scoring policy. A zero
// weight disables its term; the reason format strings take the requester's
// value as their only argument.
type Rubric struct {
	Name string `toml:"-" json:"name"`

	BudgetPoints  float64 `toml:"budget_points" json:"budgetPoints"`
	BudgetDivisor float64 `toml:"budget_divisor" json:"budgetDivisor"` // linear decay per dollar of difference
	BudgetWithin  float64 `toml:"budget_within" json:"budgetWithin"`   // flat bonus below this difference when no divisor

	RoomTypePoints      float64 `toml:"room_type_points" json:"roomTypePoints"`
	UniversityPoints    float64 `toml:"university_points" json:"universityPoints"`
	AreaPoints          float64 `toml:"area_points" json:"areaPoints"`
	AmenityPoints       float64 `toml:"amenity_points" json:"amenityPoints"`
	SocialPoints        float64 `toml:"social_points" json:"socialPoints"`
	StudyPoints         float64 `toml:"study_points" json:"studyPoints"`
	PreferredAreaPoints float64 `toml:"preferred_area_points" json:"preferredAreaPoints"`

	Boost BoostWeights `toml:"boost" json:"boost"`

	BudgetTiers         []BudgetTier `toml:"budget_tiers" json:"budgetTiers"`
	RoomTypeReason      string       `toml:"room_type_reason" json:"roomTypeReason"`
	UniversityReason    string       `toml:"university_reason" json:"universityReason"`
	AreaReason          string       `toml:"area_reason" json:"areaReason"`
	AmenityReason       string       `toml:"amenity_reason" json:"amenityReason"`
	SocialReason        string       `toml:"social_reason" json:"socialReason"`
	StudyReason         string       `toml:"study_reason" json:"studyReason"`
	PreferredAreaReason string       `toml:"preferred_area_reason" json:"preferredAreaReason"`
	HighScoreThreshold  int          `toml:"high_score_threshold" json:"highScoreThreshold"` // 0 disables
	HighScoreReason     string       `toml:"high_score_reason" json:"highScoreReason"`
	FillerReasons       []string     `toml:"filler_reasons" json:"fillerReasons"`
	MaxReasons          int          `toml:"max_reasons" json:"maxReasons"`
}

// BoostWeights are the lifestyle terms, only scored when both sides carry a
// boost profile. Closeness terms score max(0, points - |Δ|/divisor).
type BoostWeights struct {
	WakeTime            float64 `toml:"wake_time" json:"wakeTime"`
	Cleanliness         float64 `toml:"cleanliness" json:"cleanliness"`
	CleanlinessDivisor  float64 `toml:"cleanliness_divisor" json:"cleanlinessDivisor"`
	Noise               float64 `toml:"noise" json:"noise"`
	NoiseDivisor        float64 `toml:"noise_divisor" json:"noiseDivisor"`
	GuestPolicy         float64 `toml:"guest_policy" json:"guestPolicy"`
	Cooking             float64 `toml:"cooking" json:"cooking"`
	SocialEnergy        float64 `toml:"social_energy" json:"socialEnergy"`
	SocialEnergyDivisor float64 `toml:"social_energy_divisor" json:"socialEnergyDivisor"`
	Organization        float64 `toml:"organization" json:"organization"`
	OrganizationDivisor float64 `toml:"organization_divisor" json:"organizationDivisor"`
	Temperature         float64 `toml:"temperature" json:"temperature"`
}

// BudgetTier labels a budget difference strictly below Below
type BudgetTier struct {
	Below  float64 `toml:"below" json:"below"`
	Reason string  `toml:"reason" json:"reason"`
}
