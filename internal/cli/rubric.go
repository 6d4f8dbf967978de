package cli

import (
	"fmt"

	"roomy/internal/config"
	"roomy/internal/service"

	"github.com/spf13/cobra"
)

var rubricCmd = &cobra.Command{
	Use:   "rubric",
	Short: "Print the effective scoring rubrics",
	Long: `Print the roommate and dorm rubrics after applying the --rubric override file.

Examples:
  roomyctl rubric                          # Built-in rubrics
  roomyctl rubric --rubric rubric.toml     # Check an override file`,
	RunE: runRubric,
}

func init() {
	rootCmd.AddCommand(rubricCmd)
}

func runRubric(cmd *cobra.Command, args []string) error {
	roommate, dorm, err := config.LoadRubrics(rubricPath, service.RoommateRubric(), service.DormRubric())
	if err != nil {
		return fmt.Errorf("invalid rubric file: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), outputFmt, []rubricView{
		{Variant: roommate.Name, Rubric: roommate},
		{Variant: dorm.Name, Rubric: dorm},
	})
}
