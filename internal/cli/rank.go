package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"roomy/internal/config"
	"roomy/internal/model"
	"roomy/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates from a JSON file",
	Long: `Rank candidates against a requester with the roommate or dorm rubric.

The input is the body of a match request:
  {"requester": {...}, "candidates": [{...}], "filters": {...}, "limit": 5}

Examples:
  roomyctl rank --input request.json                    # Roommate ranking as a table
  roomyctl rank --input request.json --variant dorm     # Dorm ranking
  cat request.json | roomyctl rank --input - -o json    # Read stdin, print JSON`,
	RunE: runRank,
}

var (
	rankInput   string
	rankVariant string
	rankTop     int
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankInput, "input", "-", "match request file, - for stdin")
	rankCmd.Flags().StringVar(&rankVariant, "variant", service.VariantRoommate, "rubric variant (roommate, dorm)")
	rankCmd.Flags().IntVar(&rankTop, "top", 0, "number of results (default: 10 roommates, 3 dorms)")
}

func runRank(cmd *cobra.Command, args []string) error {
	req, err := readMatchRequest(cmd.InOrStdin(), rankInput)
	if err != nil {
		return err
	}

	ranker, err := rankerFor(rankVariant)
	if err != nil {
		return err
	}

	requester := model.Profile{}
	if req.Requester != nil {
		requester = *req.Requester
	}
	// Rows need an id to be told apart in the output.
	for i := range req.Candidates {
		if req.Candidates[i].ID == "" {
			req.Candidates[i].ID = uuid.NewString()
		}
	}

	limit := req.Limit
	if rankTop > 0 {
		limit = rankTop
	}
	results := ranker.Rank(requester, req.Candidates, req.Filters, limit)

	return writeOutput(cmd.OutOrStdout(), outputFmt, &model.MatchResponse{
		Results:    results,
		Considered: len(req.Candidates),
		Variant:    ranker.Rubric().Name,
	})
}

func readMatchRequest(stdin io.Reader, path string) (*model.MatchRequest, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var req model.MatchRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse match request: %w", err)
	}
	return &req, nil
}

// rankerFor builds the ranker of a variant, applying rubric overrides
func rankerFor(variant string) (*service.Ranker, error) {
	roommate, dorm, err := config.LoadRubrics(rubricPath, service.RoommateRubric(), service.DormRubric())
	if err != nil {
		return nil, err
	}

	switch variant {
	case service.VariantRoommate:
		return service.NewRanker(roommate, 10), nil
	case service.VariantDorm:
		return service.NewRanker(dorm, 3), nil
	default:
		return nil, fmt.Errorf("unknown variant: %s (use roommate or dorm)", variant)
	}
}
