package model

import (
	"database/sql/driver"
)

// Profile is a requester or candidate record used as scoring input.
// Every field is optional; an absent field contributes no signal.
type Profile struct {
	ID                 string        `json:"id,omitempty" db:"id"`
	Name               *string       `json:"name,omitempty" db:"name"`
	Budget             *float64      `json:"budget,omitempty" db:"budget"`
	University         *string       `json:"university,omitempty" db:"university"`
	RoomType           *string       `json:"roomType,omitempty" db:"room_type"`
	Area               *string       `json:"area,omitempty" db:"area"`
	ResidentialArea    *string       `json:"residentialArea,omitempty" db:"-"`
	Amenities          JSONArray     `json:"amenities,omitempty" db:"amenities"`
	PersonalityAnswers JSONStringMap `json:"personalityAnswers,omitempty" db:"personality_answers"`
	BoostProfile       *BoostProfile `json:"boostProfile,omitempty" db:"boost_profile"`
}

// BoostProfile holds the opt-in lifestyle traits. Scales are 1..N; enums are
// compared case-insensitively.
type BoostProfile struct {
	WakeTime              string `json:"wakeTime,omitempty"`
	Cleanliness           *int   `json:"cleanliness,omitempty"`
	NoiseTolerance        *int   `json:"noiseTolerance,omitempty"`
	GuestPolicy           string `json:"guestPolicy,omitempty"`
	CookingHabits         string `json:"cookingHabits,omitempty"`
	SocialEnergy          *int   `json:"socialEnergy,omitempty"`
	OrganizationStyle     *int   `json:"organizationStyle,omitempty"`
	TemperaturePreference string `json:"temperaturePreference,omitempty"`
}

// Value implements driver.Valuer interface
func (b BoostProfile) Value() (driver.Value, error) {
	return marshalJSONColumn(b)
}

// Scan implements sql.Scanner interface
func (b *BoostProfile) Scan(value interface{}) error {
	return scanJSON(value, b)
}

// ScoredCandidate is a candidate with its compatibility score and reasons.
// It only lives for the duration of one ranking request.
type ScoredCandidate struct {
	Profile
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}
