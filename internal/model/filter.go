package model

// FilterSpec holds the hard filters applied to a candidate set. Nil or empty
// fields are inactive; active fields are combined with AND.
type FilterSpec struct {
	BudgetMin   *float64 `json:"budgetMin,omitempty"`
	BudgetMax   *float64 `json:"budgetMax,omitempty"`
	University  *string  `json:"university,omitempty"`
	RoomType    *string  `json:"roomType,omitempty"`
	Personality *string  `json:"personality,omitempty"`
	Area        *string  `json:"area,omitempty"`
	Name        *string  `json:"name,omitempty"` // case-insensitive substring
}
