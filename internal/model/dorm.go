package model

import (
	"strconv"
	"time"
)

// Dorm represents a dorm listing
type Dorm struct {
	ID          int64     `json:"id" db:"id"`
	Name        *string   `json:"name,omitempty" db:"name"`
	Price       *float64  `json:"price,omitempty" db:"price"`
	University  *string   `json:"university,omitempty" db:"university"` // nearest campus
	Area        *string   `json:"area,omitempty" db:"area"`
	RoomType    *string   `json:"roomType,omitempty" db:"room_type"`
	Amenities   JSONArray `json:"amenities,omitempty" db:"amenities"`
	Description *string   `json:"description,omitempty" db:"description"`
	Verified    bool      `json:"verified" db:"verified"`
	Similarity  *float64  `json:"similarity,omitempty" db:"similarity"` // only set for DormQuery.Near
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// AsProfile maps a listing onto the comparable profile shape: the monthly
// price stands in for the budget.
func (d Dorm) AsProfile() Profile {
	return Profile{
		ID:         strconv.FormatInt(d.ID, 10),
		Name:       d.Name,
		Budget:     d.Price,
		University: d.University,
		RoomType:   d.RoomType,
		Area:       d.Area,
		Amenities:  d.Amenities,
	}
}

// DormQuery narrows the listings fetched from the catalog
type DormQuery struct {
	PriceMax *float64
	Limit    int
	// Near orders listings by cosine distance of their description embedding.
	// Listings without an embedding come last.
	Near []float32
}
