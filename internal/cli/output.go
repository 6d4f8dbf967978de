package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"roomy/internal/model"

	"github.com/olekukonko/tablewriter"
)

// rubricView pairs a rubric with its variant name for output
type rubricView struct {
	Variant string       `json:"variant"`
	Rubric  model.Rubric `json:"rubric"`
}

// writeOutput writes data in the specified format
func writeOutput(w io.Writer, format string, data interface{}) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case "table", "":
		return writeTable(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeTable(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case *model.MatchResponse:
		return matchTable(w, v)
	case *ExtractResult:
		return extractTable(w, v)
	case []rubricView:
		return rubricTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func matchTable(w io.Writer, resp *model.MatchResponse) error {
	if len(resp.Results) == 0 {
		fmt.Fprintf(w, "No candidates matched (%d considered).\n", resp.Considered)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Rank", "ID", "Name", "Score", "Reasons")
	for i, r := range resp.Results {
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			r.ID,
			deref(r.Name),
			strconv.Itoa(r.Score),
			strings.Join(r.Reasons, "; "),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s ranking: %d of %d candidates shown\n", resp.Variant, len(resp.Results), resp.Considered)
	return nil
}

func extractTable(w io.Writer, res *ExtractResult) error {
	fmt.Fprintf(w, "Sanitized: %s\n", res.Sanitized)

	table := tablewriter.NewWriter(w)
	table.Header("Filter", "Value", "Learned")
	rows := [][]string{
		{"budget", formatBudget(res.Filters.Budget), ""},
		{"university", deref(res.Filters.University), ""},
		{"area", deref(res.Filters.Area), learnedMark(res.Learned.Area)},
		{"roomType", deref(res.Filters.RoomType), learnedMark(res.Learned.RoomType)},
		{"amenity", deref(res.Filters.Amenity), learnedMark(res.Learned.Amenity)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func rubricTable(w io.Writer, views []rubricView) error {
	table := tablewriter.NewWriter(w)
	table.Header("Variant", "Budget", "Room type", "University", "Area", "Amenity", "Social", "Study", "Max reasons")
	for _, v := range views {
		r := v.Rubric
		if err := table.Append([]string{
			v.Variant,
			formatPoints(r.BudgetPoints),
			formatPoints(r.RoomTypePoints),
			formatPoints(r.UniversityPoints),
			formatPoints(r.AreaPoints),
			formatPoints(r.AmenityPoints),
			formatPoints(r.SocialPoints),
			formatPoints(r.StudyPoints),
			strconv.Itoa(r.MaxReasons),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatBudget(b *int) string {
	if b == nil {
		return "-"
	}
	return "$" + strconv.Itoa(*b)
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func learnedMark(s *string) string {
	if s == nil {
		return ""
	}
	return "yes"
}
