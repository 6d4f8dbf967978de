package cli

import (
	"strings"

	"roomy/internal/model"
	"roomy/internal/service"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <message>",
	Short: "Show the filters a chat message resolves to",
	Long: `Sanitize a chat message and run the filter extraction rules on it.

Prior session context can be given with flags to see how the message merges
with it.

Examples:
  roomyctl extract "I want dorms under $450 near AUB with wifi"
  roomyctl extract "something cheaper" --budget 450
  roomyctl extract "a single room in Hamra" -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

var (
	extractBudget     int
	extractUniversity string
	extractArea       string
	extractRoomType   string
	extractAmenity    string
	extractMaxLength  int
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().IntVar(&extractBudget, "budget", 0, "budget carried from earlier turns")
	extractCmd.Flags().StringVar(&extractUniversity, "university", "", "university carried from earlier turns")
	extractCmd.Flags().StringVar(&extractArea, "area", "", "area carried from earlier turns")
	extractCmd.Flags().StringVar(&extractRoomType, "room-type", "", "room type carried from earlier turns")
	extractCmd.Flags().StringVar(&extractAmenity, "amenity", "", "amenity carried from earlier turns")
	extractCmd.Flags().IntVar(&extractMaxLength, "max-length", 500, "maximum message length")
}

// ExtractResult is the output of the extract command
type ExtractResult struct {
	Sanitized string                   `json:"sanitized"`
	Filters   model.ChatFilters        `json:"filters"`
	Learned   model.LearnedPreferences `json:"learned"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	message := strings.Join(args, " ")
	if err := service.ValidateMessage(message, extractMaxLength); err != nil {
		return err
	}
	sanitized := service.SanitizeMessage(message, extractMaxLength)

	filters, learned := service.ResolveFilters(sanitized, priorContext(), nil)

	return writeOutput(cmd.OutOrStdout(), outputFmt, &ExtractResult{
		Sanitized: sanitized,
		Filters:   filters,
		Learned:   learned,
	})
}

func priorContext() model.ChatFilters {
	var prior model.ChatFilters
	if extractBudget > 0 {
		budget := extractBudget
		prior.Budget = &budget
	}
	prior.University = nonEmpty(extractUniversity)
	prior.Area = nonEmpty(extractArea)
	prior.RoomType = nonEmpty(extractRoomType)
	prior.Amenity = nonEmpty(extractAmenity)
	return prior
}

func nonEmpty(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
