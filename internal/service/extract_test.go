package service

import (
	"testing"

	"roomy/internal/model"
)

func ptrValue[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		budget     any
		university any
		area       any
		roomType   any
		amenity    any
		cheaper    bool
	}{
		{
			name:       "budget campus and amenity",
			message:    "I want dorms under $450 near AUB with wifi",
			budget:     450,
			university: "AUB",
			amenity:    "wifi",
		},
		{
			name:     "room type and area",
			message:  "looking for a single room in hamra",
			area:     "Hamra",
			roomType: "Single",
		},
		{
			name:    "multi-word area with odd spacing",
			message: "anything in mar   mikhael?",
			area:    "Mar Mikhael",
		},
		{
			name:    "amenity alias",
			message: "needs a garage for my car",
			amenity: "parking",
		},
		{
			name:    "cheaper",
			message: "something cheaper please",
			cheaper: true,
		},
		{
			name:       "dollar amount beats an earlier number",
			message:    "within 10 minutes of AUB under $500",
			budget:     500,
			university: "AUB",
		},
		{
			name:       "thousands separator",
			message:    "budget 1,200 near LAU",
			budget:     1200,
			university: "LAU",
		},
		{
			name:       "bare number after a time unit",
			message:    "15 min walk to USJ, max 650",
			budget:     650,
			university: "USJ",
		},
		{
			name:    "grouped number too large for a budget",
			message: "I can pay $12,000 a year",
		},
		{
			name:    "five digit number is not a budget",
			message: "my student id is 12345",
		},
		{
			name:       "university needs a whole word",
			message:    "I laugh a lot near AUBURN",
			university: nil,
		},
		{
			name:    "nothing",
			message: "hello there",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.message)
			f := got.Filters
			if v := ptrValue(f.Budget); v != tt.budget {
				t.Errorf("budget = %v, want %v", v, tt.budget)
			}
			if v := ptrValue(f.University); v != tt.university {
				t.Errorf("university = %v, want %v", v, tt.university)
			}
			if v := ptrValue(f.Area); v != tt.area {
				t.Errorf("area = %v, want %v", v, tt.area)
			}
			if v := ptrValue(f.RoomType); v != tt.roomType {
				t.Errorf("roomType = %v, want %v", v, tt.roomType)
			}
			if v := ptrValue(f.Amenity); v != tt.amenity {
				t.Errorf("amenity = %v, want %v", v, tt.amenity)
			}
			if got.WantsCheaper != tt.cheaper {
				t.Errorf("WantsCheaper = %v, want %v", got.WantsCheaper, tt.cheaper)
			}
		})
	}
}

func TestExtract_LearnedPreferences(t *testing.T) {
	got := Extract("a double room in Verdun under $600 near LAU with a gym")

	if got.Learned.Area == nil || *got.Learned.Area != "Verdun" {
		t.Errorf("learned area = %v, want Verdun", ptrValue(got.Learned.Area))
	}
	if got.Learned.RoomType == nil || *got.Learned.RoomType != "Double" {
		t.Errorf("learned room type = %v, want Double", ptrValue(got.Learned.RoomType))
	}
	if got.Learned.Amenity == nil || *got.Learned.Amenity != "gym" {
		t.Errorf("learned amenity = %v, want gym", ptrValue(got.Learned.Amenity))
	}
}

func TestResolveFilters(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		prior      model.ChatFilters
		prefs      *model.Preferences
		budget     any
		university any
		area       any
	}{
		{
			name:    "cheaper reduces carried budget by a fifth",
			message: "something cheaper",
			prior:   model.ChatFilters{Budget: intPtr(450)},
			budget:  360,
		},
		{
			name:    "cheaper rounds down",
			message: "lower please",
			prior:   model.ChatFilters{Budget: intPtr(333)},
			budget:  266,
		},
		{
			name:    "cheaper without a carried budget",
			message: "something cheaper",
			budget:  nil,
		},
		{
			name:    "new number wins over cheaper",
			message: "cheaper, around 300",
			prior:   model.ChatFilters{Budget: intPtr(450)},
			budget:  300,
		},
		{
			name:       "message overrides carried context",
			message:    "what about near LAU",
			prior:      model.ChatFilters{Budget: intPtr(450), University: strPtr("AUB")},
			budget:     450,
			university: "LAU",
		},
		{
			name:       "preferences fill gaps only",
			message:    "near USJ",
			prior:      model.ChatFilters{Area: strPtr("Hamra")},
			prefs:      &model.Preferences{Budget: intPtr(600), University: strPtr("AUB"), PreferredArea: strPtr("Verdun")},
			budget:     600,
			university: "USJ",
			area:       "Hamra",
		},
		{
			name:    "reduced context budget beats stored budget",
			message: "cheaper",
			prior:   model.ChatFilters{Budget: intPtr(500)},
			prefs:   &model.Preferences{Budget: intPtr(800)},
			budget:  400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ResolveFilters(tt.message, tt.prior, tt.prefs)
			if v := ptrValue(got.Budget); v != tt.budget {
				t.Errorf("budget = %v, want %v", v, tt.budget)
			}
			if v := ptrValue(got.University); v != tt.university {
				t.Errorf("university = %v, want %v", v, tt.university)
			}
			if v := ptrValue(got.Area); v != tt.area {
				t.Errorf("area = %v, want %v", v, tt.area)
			}
		})
	}
}
