package service

import (
	"context"
	"errors"
	"testing"

	"roomy/internal/model"
)

type fakeDirectory struct {
	profiles    map[string]model.Profile
	order       []string
	listExclude string
	listLimit   int
	requested   []string
}

func (f *fakeDirectory) GetProfile(_ context.Context, userID string) (*model.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeDirectory) GetProfiles(_ context.Context, userIDs []string) ([]model.Profile, error) {
	f.requested = userIDs
	var out []model.Profile
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeDirectory) ListRoommateProfiles(_ context.Context, exclude string, limit int) ([]model.Profile, error) {
	f.listExclude = exclude
	f.listLimit = limit
	var out []model.Profile
	for _, id := range f.order {
		out = append(out, f.profiles[id])
	}
	return out, nil
}

func testDirectory() *fakeDirectory {
	pool := roommatePool()
	d := &fakeDirectory{profiles: map[string]model.Profile{
		"me": {ID: "me", Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single")},
	}}
	d.order = append(d.order, "me")
	for _, p := range pool {
		d.profiles[p.ID] = p
		d.order = append(d.order, p.ID)
	}
	return d
}

func newTestMatch(directory ProfileDirectory, dorms DormCatalog) *MatchService {
	return NewMatchService(directory, dorms, NewRanker(RoommateRubric(), 10), NewRanker(DormRubric(), 3), 4, 100)
}

func TestMatchService_RankRoommates(t *testing.T) {
	ctx := context.Background()

	t.Run("inline candidates never include the requester", func(t *testing.T) {
		svc := newTestMatch(nil, nil)
		requester := model.Profile{ID: "me", Budget: float64Ptr(500), University: strPtr("AUB"), RoomType: strPtr("Single")}
		candidates := append([]model.Profile{requester}, roommatePool()...)

		resp, err := svc.RankRoommates(ctx, &model.MatchRequest{Requester: &requester, Candidates: candidates, Limit: 50})
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range resp.Results {
			if r.ID == "me" {
				t.Fatal("requester ranked against itself")
			}
		}
		if resp.Considered != len(roommatePool()) || resp.Variant != VariantRoommate {
			t.Errorf("considered = %d, variant = %q", resp.Considered, resp.Variant)
		}
		if got, want := rankIDs(resp.Results), []string{"best", "tie-a", "tie-b", "far"}; !equalIDs(got, want) {
			t.Errorf("results = %v, want %v (capped at 4)", got, want)
		}
	})

	t.Run("stored requester and pool", func(t *testing.T) {
		dir := testDirectory()
		svc := newTestMatch(dir, nil)

		resp, err := svc.RankRoommates(ctx, &model.MatchRequest{UserID: strPtr("me"), Limit: 2})
		if err != nil {
			t.Fatal(err)
		}
		if dir.listExclude != "me" || dir.listLimit != 100 {
			t.Errorf("pool query exclude=%q limit=%d", dir.listExclude, dir.listLimit)
		}
		if got, want := rankIDs(resp.Results), []string{"best", "tie-a"}; !equalIDs(got, want) {
			t.Errorf("results = %v, want %v", got, want)
		}
	})

	t.Run("candidate ids", func(t *testing.T) {
		dir := testDirectory()
		svc := newTestMatch(dir, nil)

		resp, err := svc.RankRoommates(ctx, &model.MatchRequest{UserID: strPtr("me"), CandidateIDs: []string{"far", "me", "tie-b"}})
		if err != nil {
			t.Fatal(err)
		}
		if got, want := rankIDs(resp.Results), []string{"tie-b", "far"}; !equalIDs(got, want) {
			t.Errorf("results = %v, want %v", got, want)
		}
	})

	t.Run("unknown requester", func(t *testing.T) {
		svc := newTestMatch(testDirectory(), nil)
		_, err := svc.RankRoommates(ctx, &model.MatchRequest{UserID: strPtr("ghost")})
		if !errors.Is(err, ErrProfileNotFound) {
			t.Errorf("error = %v, want ErrProfileNotFound", err)
		}
	})

	t.Run("no candidate source", func(t *testing.T) {
		svc := newTestMatch(nil, nil)
		_, err := svc.RankRoommates(ctx, &model.MatchRequest{Requester: &model.Profile{}})
		if !errors.Is(err, ErrNoCandidateSource) {
			t.Errorf("error = %v, want ErrNoCandidateSource", err)
		}
	})
}

func TestMatchService_RankDorms(t *testing.T) {
	ctx := context.Background()
	requester := model.Profile{Budget: float64Ptr(450), University: strPtr("AUB"), Amenities: model.JSONArray{"wifi"}}

	t.Run("catalog with budget ceiling", func(t *testing.T) {
		catalog := testCatalog()
		svc := newTestMatch(nil, catalog)

		resp, err := svc.RankDorms(ctx, &model.MatchRequest{
			Requester: &requester,
			Filters:   &model.FilterSpec{BudgetMax: float64Ptr(450)},
		})
		if err != nil {
			t.Fatal(err)
		}
		if catalog.lastQuery.PriceMax == nil || *catalog.lastQuery.PriceMax != 450 || catalog.lastQuery.Limit != 100 {
			t.Errorf("catalog query = %+v", catalog.lastQuery)
		}
		if got, want := rankIDs(resp.Results), []string{"1", "4", "2"}; !equalIDs(got, want) {
			t.Errorf("results = %v, want %v", got, want)
		}
		if resp.Variant != VariantDorm {
			t.Errorf("variant = %q", resp.Variant)
		}
	})

	t.Run("query orders ties by similarity", func(t *testing.T) {
		wifiOnly := model.Profile{Amenities: model.JSONArray{"wifi"}}
		tests := []struct {
			query string
			want  []string
		}{
			{query: "", want: []string{"1", "3", "4"}},
			{query: "bright room with a balcony", want: []string{"4", "3", "1"}},
		}
		for _, tt := range tests {
			catalog := testCatalog()
			catalog.similarity = map[int64]float64{1: 0.1, 2: 0.95, 3: 0.6, 4: 0.9}
			embedder := &fakeEmbedder{}
			svc := newTestMatch(nil, catalog)
			svc.UseEmbedder(embedder)

			resp, err := svc.RankDorms(ctx, &model.MatchRequest{Requester: &wifiOnly, Query: tt.query, Limit: 3})
			if err != nil {
				t.Fatal(err)
			}
			if got := rankIDs(resp.Results); !equalIDs(got, tt.want) {
				t.Errorf("query %q: results = %v, want %v", tt.query, got, tt.want)
			}
			if wantCalls := tt.query != ""; (len(embedder.texts) == 1) != wantCalls {
				t.Errorf("query %q: embedder calls = %d", tt.query, len(embedder.texts))
			}
		}
	})

	t.Run("inline listings", func(t *testing.T) {
		svc := newTestMatch(nil, nil)
		listings := []model.Profile{
			{ID: "a", Budget: float64Ptr(1000)},
			{ID: "b", Budget: float64Ptr(470), University: strPtr("AUB")},
		}

		resp, err := svc.RankDorms(ctx, &model.MatchRequest{Requester: &requester, Candidates: listings})
		if err != nil {
			t.Fatal(err)
		}
		if got, want := rankIDs(resp.Results), []string{"b", "a"}; !equalIDs(got, want) {
			t.Errorf("results = %v, want %v", got, want)
		}
		if resp.Results[0].Score != 55 {
			t.Errorf("score = %d, want 55", resp.Results[0].Score)
		}
	})

	t.Run("no catalog", func(t *testing.T) {
		svc := newTestMatch(nil, nil)
		if _, err := svc.RankDorms(ctx, &model.MatchRequest{Requester: &requester}); !errors.Is(err, ErrNoCandidateSource) {
			t.Errorf("error = %v, want ErrNoCandidateSource", err)
		}
	})
}
