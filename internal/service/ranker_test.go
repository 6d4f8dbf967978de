package service

import (
	"testing"

	"roomy/internal/model"
)

func rankIDs(results []model.ScoredCandidate) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func roommatePool() []model.Profile {
	return []model.Profile{
		{ID: "far", Name: strPtr("Rami Haddad"), Budget: float64Ptr(1500), University: strPtr("LAU"), RoomType: strPtr("Double")},
		{ID: "best", Name: strPtr("Lea Khoury"), Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single"),
			PersonalityAnswers: model.JSONStringMap{QuestionSocial: "Quiet"}},
		{ID: "tie-a", Name: strPtr("Nour Saleh"), Budget: float64Ptr(600), University: strPtr("AUB")},
		{ID: "tie-b", Name: strPtr("Karim Nassar"), Budget: float64Ptr(400), University: strPtr("AUB")},
		{ID: "unknown"},
	}
}

func TestRanker_OrderAndTies(t *testing.T) {
	ranker := NewRanker(RoommateRubric(), 10)
	requester := model.Profile{Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single")}

	results := ranker.Rank(requester, roommatePool(), nil, 0)

	want := []string{"best", "tie-a", "tie-b", "far", "unknown"}
	if got := rankIDs(results); !equalIDs(got, want) {
		t.Fatalf("Rank() order = %v, want %v", got, want)
	}
	if results[1].Score != results[2].Score {
		t.Errorf("tie scores differ: %d vs %d", results[1].Score, results[2].Score)
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Score < results[i].Score {
			t.Errorf("results not sorted at %d: %d < %d", i, results[i-1].Score, results[i].Score)
		}
	}
}

func TestRanker_EmptyRequesterKeepsInputOrder(t *testing.T) {
	ranker := NewRanker(RoommateRubric(), 10)
	pool := roommatePool()

	results := ranker.Rank(model.Profile{}, pool, nil, 0)

	want := []string{"far", "best", "tie-a", "tie-b", "unknown"}
	if got := rankIDs(results); !equalIDs(got, want) {
		t.Errorf("Rank() order = %v, want %v", got, want)
	}
	for _, r := range results {
		if r.Score != 0 {
			t.Errorf("candidate %s score = %d, want 0", r.ID, r.Score)
		}
	}
}

func TestRanker_Filters(t *testing.T) {
	ranker := NewRanker(RoommateRubric(), 10)
	requester := model.Profile{Budget: float64Ptr(500), University: strPtr("AUB")}

	tests := []struct {
		name    string
		filters *model.FilterSpec
		want    []string
	}{
		{
			name:    "budget range is inclusive",
			filters: &model.FilterSpec{BudgetMin: float64Ptr(400), BudgetMax: float64Ptr(500)},
			want:    []string{"best", "tie-b"},
		},
		{
			name:    "university",
			filters: &model.FilterSpec{University: strPtr("lau")},
			want:    []string{"far"},
		},
		{
			name:    "room type",
			filters: &model.FilterSpec{RoomType: strPtr("Single")},
			want:    []string{"best"},
		},
		{
			name:    "personality tag",
			filters: &model.FilterSpec{Personality: strPtr("quiet")},
			want:    []string{"best"},
		},
		{
			name:    "name substring case-insensitive",
			filters: &model.FilterSpec{Name: strPtr("KHOU")},
			want:    []string{"best"},
		},
		{
			name:    "conjunction",
			filters: &model.FilterSpec{University: strPtr("AUB"), BudgetMax: float64Ptr(450)},
			want:    []string{"tie-b"},
		},
		{
			name:    "empty filter values are inactive",
			filters: &model.FilterSpec{University: strPtr("  ")},
			want:    []string{"best", "tie-a", "tie-b", "far", "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rankIDs(ranker.Rank(requester, roommatePool(), tt.filters, 0))
			if !equalIDs(got, tt.want) {
				t.Errorf("Rank() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRanker_FiltersDoNotChangeScores(t *testing.T) {
	ranker := NewRanker(RoommateRubric(), 10)
	requester := model.Profile{Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single")}

	unfiltered := ranker.Rank(requester, roommatePool(), nil, 0)
	filtered := ranker.Rank(requester, roommatePool(), &model.FilterSpec{University: strPtr("AUB")}, 0)

	scores := make(map[string]int)
	for _, r := range unfiltered {
		scores[r.ID] = r.Score
	}
	for _, r := range filtered {
		if r.Score != scores[r.ID] {
			t.Errorf("candidate %s score %d with filter, %d without", r.ID, r.Score, scores[r.ID])
		}
	}
}

func TestRanker_Limit(t *testing.T) {
	requester := model.Profile{Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single")}

	tests := []struct {
		name         string
		defaultLimit int
		limit        int
		want         int
	}{
		{name: "explicit limit", defaultLimit: 10, limit: 2, want: 2},
		{name: "default limit", defaultLimit: 3, limit: 0, want: 3},
		{name: "no limit", defaultLimit: 0, limit: 0, want: 5},
		{name: "limit above pool", defaultLimit: 10, limit: 50, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranker := NewRanker(RoommateRubric(), tt.defaultLimit)
			results := ranker.Rank(requester, roommatePool(), nil, tt.limit)
			if len(results) != tt.want {
				t.Errorf("len(Rank()) = %d, want %d", len(results), tt.want)
			}
			if tt.want > 0 && results[0].ID != "best" {
				t.Errorf("top result = %s, want best", results[0].ID)
			}
		})
	}
}

func TestRanker_ReasonsAttached(t *testing.T) {
	ranker := NewRanker(RoommateRubric(), 10)
	requester := model.Profile{Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single")}

	results := ranker.Rank(requester, roommatePool(), nil, 1)
	if len(results) != 1 {
		t.Fatalf("len(Rank()) = %d, want 1", len(results))
	}
	if len(results[0].Reasons) == 0 || len(results[0].Reasons) > 3 {
		t.Errorf("reasons = %q, want 1..3 entries", results[0].Reasons)
	}
}
