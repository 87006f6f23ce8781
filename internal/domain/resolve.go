package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolved is a scenario ready to run: its final elevation, the progress
// title shown before the analysis starts, and the temp path its flood
// extent is written to.
type Resolved struct {
	Scenario  Scenario
	Elevation float64
	Title     string
	FloodPath string
}

// Resolve computes the final elevation, progress title, and per-scenario
// flood temp path for a scenario. floodOutput is the path of the merged
// final product; the temp path embeds the elevation before its extension
// ("floods.shp" + 12.5 → "floods12_5.shp"). Standard-mode paths also
// embed the surge name and sea level rise: the matrix reaches some
// elevations twice (MHHW+4 and 10yr+0 both flood to 8 ft), so elevation
// alone cannot keep the 28 temp paths apart. The output path is a
// required precondition, not something to default.
func Resolve(s Scenario, floodOutput string) (Resolved, error) {
	if floodOutput == "" {
		return Resolved{}, fmt.Errorf("%w: flood output", ErrMissingOutputPath)
	}

	elev := s.FloodElevation()

	var title string
	if s.Custom() {
		title = fmt.Sprintf("Analyzing flood elevation: %s ft", formatElevation(elev))
	} else {
		title = fmt.Sprintf("Analyzing flood elevation: %s ft (%s, %d)",
			formatElevation(elev), s.SurgeName, s.SeaLevelRise)
	}

	ext := filepath.Ext(floodOutput)
	base := strings.TrimSuffix(floodOutput, ext)
	tag := strings.ReplaceAll(formatElevation(elev), ".", "_")
	if !s.Custom() {
		tag = fmt.Sprintf("%s_%s%d", tag, s.SurgeName, s.SeaLevelRise)
	}

	return Resolved{
		Scenario:  s,
		Elevation: elev,
		Title:     title,
		FloodPath: base + tag + ext,
	}, nil
}

// ResolveAll resolves every scenario against the flood output path and
// verifies the resulting temp paths are distinct before any backend work
// starts.
func ResolveAll(scenarios []Scenario, floodOutput string) ([]Resolved, error) {
	plan := make([]Resolved, len(scenarios))
	for i, s := range scenarios {
		r, err := Resolve(s, floodOutput)
		if err != nil {
			return nil, err
		}
		plan[i] = r
	}
	if err := CheckDistinctPaths(plan); err != nil {
		return nil, err
	}
	return plan, nil
}
