package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"roomy/internal/model"
)

// rubricFile is the on-disk layout of a rubric override file:
//
//	[roommate]
//	budget_points = 25
//
//	[dorm]
//	amenity_points = 20
type rubricFile struct {
	Roommate model.Rubric `toml:"roommate"`
	Dorm     model.Rubric `toml:"dorm"`
}

// LoadRubrics decodes the TOML file at path over the given defaults. Keys
// absent from the file keep their default values. An empty path returns the
// defaults unchanged.
func LoadRubrics(path string, roommate, dorm model.Rubric) (model.Rubric, model.Rubric, error) {
	if path == "" {
		return roommate, dorm, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return roommate, dorm, fmt.Errorf("failed to read rubric file: %w", err)
	}

	return decodeRubrics(data, roommate, dorm)
}

func decodeRubrics(data []byte, roommate, dorm model.Rubric) (model.Rubric, model.Rubric, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return roommate, dorm, fmt.Errorf("failed to parse rubric file: %w", err)
	}

	file := rubricFile{
		Roommate: withoutListedLists(roommate, raw["roommate"]),
		Dorm:     withoutListedLists(dorm, raw["dorm"]),
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return roommate, dorm, fmt.Errorf("failed to parse rubric file: %w", err)
	}

	// Names are fixed by the variant, not the file.
	file.Roommate.Name = roommate.Name
	file.Dorm.Name = dorm.Name

	if err := checkRubric(file.Roommate); err != nil {
		return roommate, dorm, err
	}
	if err := checkRubric(file.Dorm); err != nil {
		return roommate, dorm, err
	}

	return file.Roommate, file.Dorm, nil
}

// withoutListedLists drops the default lists the file redefines, so a file
// list replaces the default one instead of extending it.
func withoutListedLists(r model.Rubric, section any) model.Rubric {
	table, ok := section.(map[string]any)
	if !ok {
		return r
	}
	if _, ok := table["budget_tiers"]; ok {
		r.BudgetTiers = nil
	}
	if _, ok := table["filler_reasons"]; ok {
		r.FillerReasons = nil
	}
	return r
}

func checkRubric(r model.Rubric) error {
	if r.BudgetDivisor < 0 || r.BudgetWithin < 0 {
		return fmt.Errorf("rubric %s: budget divisor and window must not be negative", r.Name)
	}
	if r.MaxReasons < 0 {
		return fmt.Errorf("rubric %s: max_reasons must not be negative", r.Name)
	}
	return nil
}
