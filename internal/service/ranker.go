package service

import (
	"sort"
	"strings"

	"roomy/internal/model"
)

// Ranker scores, filters and orders candidates under one rubric
type Ranker struct {
	rubric       model.Rubric
	defaultLimit int
}

// NewRanker creates a new ranker. defaultLimit applies when a call passes no
// limit; zero or less means no truncation.
func NewRanker(rubric model.Rubric, defaultLimit int) *Ranker {
	return &Ranker{
		rubric:       rubric,
		defaultLimit: defaultLimit,
	}
}

// Rubric returns the policy the ranker scores with
func (r *Ranker) Rubric() model.Rubric {
	return r.rubric
}

// DefaultLimit returns the top-N used when a call passes no limit
func (r *Ranker) DefaultLimit() int {
	return r.defaultLimit
}

// Rank scores every candidate against the requester, keeps the ones passing
// all active filters, and returns them by score descending. Equal scores keep
// their input order.
func (r *Ranker) Rank(
	requester model.Profile,
	candidates []model.Profile,
	filters *model.FilterSpec,
	limit int,
) []model.ScoredCandidate {
	req := normalize(requester)
	results := make([]model.ScoredCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		cand := normalize(candidate)

		// Filters look at raw attributes, never at the score.
		score := clampScore(rawScore(r.rubric, req, cand))
		reasons := generateReasons(r.rubric, req, cand, score)

		if !passesFilters(cand, filters) {
			continue
		}

		results = append(results, model.ScoredCandidate{
			Profile: candidate,
			Score:   score,
			Reasons: reasons,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit <= 0 {
		limit = r.defaultLimit
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

// passesFilters applies every active filter as a conjunction. A candidate
// missing the attribute an active filter looks at does not pass it.
func passesFilters(c normalizedProfile, f *model.FilterSpec) bool {
	if f == nil {
		return true
	}

	if f.BudgetMin != nil && (c.budget == nil || *c.budget < *f.BudgetMin) {
		return false
	}
	if f.BudgetMax != nil && (c.budget == nil || *c.budget > *f.BudgetMax) {
		return false
	}
	if want, _ := foldPtr(f.University); want != "" && c.university != want {
		return false
	}
	if want, _ := foldPtr(f.RoomType); want != "" && c.roomType != want {
		return false
	}
	if want, _ := foldPtr(f.Personality); want != "" && c.social != want {
		return false
	}
	if want, _ := foldPtr(f.Area); want != "" && c.area != want {
		return false
	}
	if want, _ := foldPtr(f.Name); want != "" && !strings.Contains(c.name, want) {
		return false
	}

	return true
}
