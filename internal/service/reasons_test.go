package service

import (
	"reflect"
	"testing"

	"roomy/internal/model"
)

func TestReasons_Roommate(t *testing.T) {
	rubric := RoommateRubric()

	tests := []struct {
		name      string
		requester model.Profile
		candidate model.Profile
		want      []string
	}{
		{
			name:      "budget room type university",
			requester: model.Profile{Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single")},
			candidate: model.Profile{Budget: float64Ptr(520), University: strPtr("AUB"), RoomType: strPtr("Single")},
			want:      []string{"Compatible budget range", "Both prefer Single", "Same university: AUB"},
		},
		{
			name:      "one budget wording below 200",
			requester: model.Profile{Budget: float64Ptr(500)},
			candidate: model.Profile{Budget: float64Ptr(650)},
			want:      []string{"Compatible budget range"},
		},
		{
			name:      "budget gap too wide for a reason",
			requester: model.Profile{Budget: float64Ptr(500), University: strPtr("AUB")},
			candidate: model.Profile{Budget: float64Ptr(750), University: strPtr("aub")},
			want:      []string{"Same university: AUB"},
		},
		{
			name:      "personality",
			requester: model.Profile{PersonalityAnswers: model.JSONStringMap{QuestionSocial: "Quiet", QuestionStudy: "Alone"}},
			candidate: model.Profile{PersonalityAnswers: model.JSONStringMap{QuestionSocial: "quiet", QuestionStudy: "alone"}},
			want:      []string{"Similar personality: Quiet", "Same study style: Alone"},
		},
		{
			name: "truncated to three",
			requester: model.Profile{
				Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single"),
				PersonalityAnswers: model.JSONStringMap{QuestionSocial: "Quiet"},
			},
			candidate: model.Profile{
				Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single"),
				PersonalityAnswers: model.JSONStringMap{QuestionSocial: "Quiet"},
			},
			want: []string{"Compatible budget range", "Both prefer Single", "Same university: AUB"},
		},
		{
			name:      "no overlap",
			requester: model.Profile{University: strPtr("AUB")},
			candidate: model.Profile{University: strPtr("LAU")},
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(rubric, tt.requester, tt.candidate)
			got := Reasons(rubric, tt.requester, tt.candidate, score)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reasons() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReasons_HighScore(t *testing.T) {
	rubric := RoommateRubric()
	rubric.MaxReasons = 5

	p := model.Profile{Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single"), BoostProfile: sameBoost()}
	score := Score(rubric, p, p)
	if score != 80 {
		t.Fatalf("Score() = %d, want 80", score)
	}

	want := []string{"Compatible budget range", "Both prefer Single", "Same university: AUB", "Excellent compatibility"}
	if got := Reasons(rubric, p, p, score); !reflect.DeepEqual(got, want) {
		t.Errorf("Reasons() = %q, want %q", got, want)
	}
}

func TestReasons_Dorm(t *testing.T) {
	rubric := DormRubric()

	tests := []struct {
		name      string
		requester model.Profile
		dorm      model.Dorm
		want      []string
	}{
		{
			name:      "filler when nothing matches",
			requester: model.Profile{},
			dorm:      model.Dorm{Price: float64Ptr(400)},
			want:      []string{"Verified listing", "Great location"},
		},
		{
			name:      "close price campus and amenity",
			requester: model.Profile{Budget: float64Ptr(450), University: strPtr("AUB"), Amenities: model.JSONArray{"wifi"}},
			dorm:      model.Dorm{Price: float64Ptr(400), University: strPtr("AUB"), Amenities: model.JSONArray{"WiFi"}},
			want:      []string{"Price very close to your budget", "Close to AUB", "Has wifi"},
		},
		{
			name:      "compatible price and area",
			requester: model.Profile{Budget: float64Ptr(450), Area: strPtr("Hamra")},
			dorm:      model.Dorm{Price: float64Ptr(300), Area: strPtr("hamra")},
			want:      []string{"Within a compatible price range", "Located in Hamra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := tt.dorm.AsProfile()
			score := Score(rubric, tt.requester, candidate)
			got := Reasons(rubric, tt.requester, candidate, score)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reasons() = %q, want %q", got, tt.want)
			}
		})
	}
}
