package service

import (
	"testing"

	"roomy/internal/model"
)

func sameBoost() *model.BoostProfile {
	return &model.BoostProfile{
		WakeTime:              "Early",
		Cleanliness:           intPtr(4),
		NoiseTolerance:        intPtr(3),
		GuestPolicy:           "Rarely",
		CookingHabits:         "Often",
		SocialEnergy:          intPtr(3),
		OrganizationStyle:     intPtr(4),
		TemperaturePreference: "Cool",
	}
}

func TestScore_Roommate(t *testing.T) {
	rubric := RoommateRubric()

	tests := []struct {
		name      string
		requester model.Profile
		candidate model.Profile
		want      int
	}{
		{
			name:      "budget room type and university",
			requester: model.Profile{Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single")},
			candidate: model.Profile{Budget: float64Ptr(520), University: strPtr("AUB"), RoomType: strPtr("Single")},
			want:      50, // 24.6 + 15 + 10
		},
		{
			name:      "empty requester",
			requester: model.Profile{},
			candidate: model.Profile{Budget: float64Ptr(520), University: strPtr("AUB")},
			want:      0,
		},
		{
			name:      "budget too far apart",
			requester: model.Profile{Budget: float64Ptr(500)},
			candidate: model.Profile{Budget: float64Ptr(2000)},
			want:      0,
		},
		{
			name:      "case and whitespace insensitive",
			requester: model.Profile{University: strPtr("aub "), RoomType: strPtr("single")},
			candidate: model.Profile{University: strPtr("AUB"), RoomType: strPtr("Single")},
			want:      25,
		},
		{
			name: "personality answers by question keyword",
			requester: model.Profile{PersonalityAnswers: model.JSONStringMap{
				"Are you more social or quiet?":       "Social",
				"Do you study alone or with others?": "Alone",
			}},
			candidate: model.Profile{PersonalityAnswers: model.JSONStringMap{
				QuestionSocial: "social",
				QuestionStudy:  "With others",
			}},
			want: 10,
		},
		{
			name:      "identical boost profiles",
			requester: model.Profile{BoostProfile: sameBoost()},
			candidate: model.Profile{BoostProfile: sameBoost()},
			want:      30,
		},
		{
			name:      "boost on one side only",
			requester: model.Profile{BoostProfile: sameBoost()},
			candidate: model.Profile{},
			want:      0,
		},
		{
			name: "boost closeness terms",
			requester: model.Profile{BoostProfile: &model.BoostProfile{
				Cleanliness: intPtr(5), NoiseTolerance: intPtr(1), SocialEnergy: intPtr(1), OrganizationStyle: intPtr(1),
			}},
			candidate: model.Profile{BoostProfile: &model.BoostProfile{
				Cleanliness: intPtr(1), NoiseTolerance: intPtr(5), SocialEnergy: intPtr(5), OrganizationStyle: intPtr(5),
			}},
			want: 10, // 3 + 3 + 2.4 + 1.67
		},
		{
			name: "everything matches",
			requester: model.Profile{
				Budget: float64Ptr(500), University: strPtr("LAU"), RoomType: strPtr("Double"),
				PersonalityAnswers: model.JSONStringMap{QuestionSocial: "quiet", QuestionStudy: "alone", QuestionPreferredArea: "Hamra"},
				BoostProfile:       sameBoost(),
			},
			candidate: model.Profile{
				Budget: float64Ptr(500), University: strPtr("LAU"), RoomType: strPtr("Double"),
				PersonalityAnswers: model.JSONStringMap{QuestionSocial: "Quiet", QuestionStudy: "Alone", QuestionPreferredArea: "hamra"},
				BoostProfile:       sameBoost(),
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(rubric, tt.requester, tt.candidate); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_Dorm(t *testing.T) {
	rubric := DormRubric()
	requester := model.Profile{
		Budget:     float64Ptr(450),
		University: strPtr("AUB"),
		Amenities:  model.JSONArray{"wifi"},
	}

	tests := []struct {
		name string
		dorm model.Dorm
		want int
	}{
		{
			name: "close price same campus with wifi",
			dorm: model.Dorm{Price: float64Ptr(400), University: strPtr("AUB"), Area: strPtr("Hamra"), Amenities: model.JSONArray{"High-speed Internet"}},
			want: 75,
		},
		{
			name: "price outside window",
			dorm: model.Dorm{Price: float64Ptr(300), University: strPtr("AUB")},
			want: 25,
		},
		{
			name: "nothing in common",
			dorm: model.Dorm{Price: float64Ptr(900), University: strPtr("LAU"), Amenities: model.JSONArray{"Gym"}},
			want: 0,
		},
		{
			name: "missing price",
			dorm: model.Dorm{University: strPtr("AUB"), Amenities: model.JSONArray{"WiFi"}},
			want: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(rubric, requester, tt.dorm.AsProfile()); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore_ClampedToMax(t *testing.T) {
	rubric := RoommateRubric()
	rubric.RoomTypePoints = 150

	p := model.Profile{RoomType: strPtr("Single")}
	if got := Score(rubric, p, p); got != MaxScore {
		t.Errorf("Score() = %d, want %d", got, MaxScore)
	}
}

func TestScore_Symmetric(t *testing.T) {
	rubric := RoommateRubric()
	a := model.Profile{Budget: float64Ptr(400), University: strPtr("USJ"), BoostProfile: sameBoost()}
	b := model.Profile{Budget: float64Ptr(470), University: strPtr("USJ"), BoostProfile: &model.BoostProfile{Cleanliness: intPtr(2)}}

	if ab, ba := Score(rubric, a, b), Score(rubric, b, a); ab != ba {
		t.Errorf("Score(a, b) = %d, Score(b, a) = %d", ab, ba)
	}
}

func TestScore_RoommateBudgetDecay(t *testing.T) {
	rubric := RoommateRubric()
	requester := model.Profile{Budget: float64Ptr(1500)}
	scoreAt := func(delta, sign float64) int {
		return Score(rubric, requester, model.Profile{Budget: float64Ptr(1500 + sign*delta)})
	}

	pinned := []struct {
		delta float64
		want  int
	}{
		{delta: 0, want: 25},
		{delta: 20, want: 25},
		{delta: 500, want: 15},
		{delta: 1200, want: 1},
		{delta: 1240, want: 0},
		{delta: 1250, want: 0},
		{delta: 1400, want: 0},
	}
	for _, tt := range pinned {
		for _, sign := range []float64{1, -1} {
			if got := scoreAt(tt.delta, sign); got != tt.want {
				t.Errorf("Score() at difference %+.0f = %d, want %d", sign*tt.delta, got, tt.want)
			}
		}
	}

	prev := scoreAt(0, 1)
	for delta := 10.0; delta <= 1400; delta += 10 {
		got := scoreAt(delta, 1)
		if got > prev {
			t.Fatalf("Score() rose from %d to %d at difference %.0f", prev, got, delta)
		}
		if delta >= 1250 && got != 0 {
			t.Errorf("Score() at difference %.0f = %d, want 0", delta, got)
		}
		prev = got
	}
}
