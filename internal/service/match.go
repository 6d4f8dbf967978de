package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"roomy/internal/model"
)

// ProfileDirectory loads stored roommate profiles
type ProfileDirectory interface {
	GetProfile(ctx context.Context, userID string) (*model.Profile, error)
	GetProfiles(ctx context.Context, userIDs []string) ([]model.Profile, error)
	ListRoommateProfiles(ctx context.Context, excludeUserID string, limit int) ([]model.Profile, error)
}

// MatchService handles ranking requests for roommates and dorms
type MatchService struct {
	directory  ProfileDirectory
	dorms      DormCatalog
	roommates  *Ranker
	dormRanker *Ranker
	maxLimit   int
	poolLimit  int
	embedder   QueryEmbedder
}

// NewMatchService creates a new match service. directory and dorms may be
// nil when every request carries its candidates inline.
func NewMatchService(
	directory ProfileDirectory,
	dorms DormCatalog,
	roommates *Ranker,
	dormRanker *Ranker,
	maxLimit, poolLimit int,
) *MatchService {
	return &MatchService{
		directory:  directory,
		dorms:      dorms,
		roommates:  roommates,
		dormRanker: dormRanker,
		maxLimit:   maxLimit,
		poolLimit:  poolLimit,
	}
}

// UseEmbedder enables similarity ordering of catalog dorms for requests
// carrying a query
func (s *MatchService) UseEmbedder(e QueryEmbedder) {
	s.embedder = e
}

// RankRoommates ranks roommate candidates for a requester
func (s *MatchService) RankRoommates(ctx context.Context, req *model.MatchRequest) (*model.MatchResponse, error) {
	startTime := time.Now()

	requester, err := s.resolveRequester(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		if s.directory == nil {
			return nil, ErrNoCandidateSource
		}
		if len(req.CandidateIDs) > 0 {
			candidates, err = s.directory.GetProfiles(ctx, req.CandidateIDs)
		} else {
			candidates, err = s.directory.ListRoommateProfiles(ctx, requester.ID, s.poolLimit)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load candidates: %w", err)
		}
	}
	candidates = withoutRequester(candidates, requester.ID)

	results := s.roommates.Rank(requester, candidates, req.Filters, s.capLimit(req.Limit))
	took := time.Since(startTime).Milliseconds()

	log.Printf("[DEBUG] Ranked %d roommate candidates, returning %d (%dms)", len(candidates), len(results), took)

	return &model.MatchResponse{
		Results:    results,
		Considered: len(candidates),
		Variant:    VariantRoommate,
		Took:       took,
	}, nil
}

// RankDorms ranks dorm listings for a requester. Listings come inline as
// profiles or from the catalog, where a budget ceiling is pushed down.
func (s *MatchService) RankDorms(ctx context.Context, req *model.MatchRequest) (*model.MatchResponse, error) {
	startTime := time.Now()

	requester, err := s.resolveRequester(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		if s.dorms == nil {
			return nil, ErrNoCandidateSource
		}
		q := model.DormQuery{Limit: s.poolLimit, Near: nearestTo(ctx, s.embedder, req.Query)}
		if req.Filters != nil {
			q.PriceMax = req.Filters.BudgetMax
		}
		dorms, err := s.dorms.ListDorms(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to load dorms: %w", err)
		}
		candidates = make([]model.Profile, len(dorms))
		for i, d := range dorms {
			candidates[i] = d.AsProfile()
		}
	}

	results := s.dormRanker.Rank(requester, candidates, req.Filters, s.capLimit(req.Limit))
	took := time.Since(startTime).Milliseconds()

	log.Printf("[DEBUG] Ranked %d dorms, returning %d (%dms)", len(candidates), len(results), took)

	return &model.MatchResponse{
		Results:    results,
		Considered: len(candidates),
		Variant:    VariantDorm,
		Took:       took,
	}, nil
}

// resolveRequester prefers the inline profile, then the stored one. With
// neither, the requester is empty and ranking keeps input order.
func (s *MatchService) resolveRequester(ctx context.Context, req *model.MatchRequest) (model.Profile, error) {
	if req.Requester != nil {
		requester := *req.Requester
		if requester.ID == "" && req.UserID != nil {
			requester.ID = *req.UserID
		}
		return requester, nil
	}
	if req.UserID == nil || *req.UserID == "" {
		return model.Profile{}, nil
	}
	if s.directory == nil {
		return model.Profile{}, ErrNoCandidateSource
	}

	profile, err := s.directory.GetProfile(ctx, *req.UserID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to load requester: %w", err)
	}
	if profile == nil {
		return model.Profile{}, ErrProfileNotFound
	}
	return *profile, nil
}

// capLimit keeps a requested limit within the configured maximum. Zero means
// the ranker default.
func (s *MatchService) capLimit(limit int) int {
	if s.maxLimit > 0 && limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func withoutRequester(candidates []model.Profile, requesterID string) []model.Profile {
	if requesterID == "" {
		return candidates
	}
	out := make([]model.Profile, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != requesterID {
			out = append(out, c)
		}
	}
	return out
}
