package domain

import (
	"fmt"
	"path/filepath"
)

// Temp-file prefixes for secondary per-scenario artifacts and derived
// output names.
const (
	WetlandsPrefix  = "_wetlands_"
	BuildingsPrefix = "_buildings_"
	OutputPrefix    = "output_"
	MergePrefix     = "_temp_"
)

// TempFilename derives a sibling path by prefixing the basename:
// TempFilename("out/floods12_5.shp", "_wetlands_") →
// "out/_wetlands_floods12_5.shp". The derivation is deterministic so
// intermediate paths are reconstructable when debugging a failed run.
func TempFilename(path, prefix string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, prefix+base)
}

// CheckDistinctPaths verifies no two scenarios in a plan resolved to the
// same flood temp path. Elevation-derived suffixes make paths unique for
// distinct elevations; duplicate elevations are a precondition violation
// reported as ErrNamingCollision, never a silent overwrite.
func CheckDistinctPaths(plan []Resolved) error {
	seen := make(map[string]Resolved, len(plan))
	for _, r := range plan {
		if prev, ok := seen[r.FloodPath]; ok {
			return fmt.Errorf("%w: scenarios %s and %s both resolve to %s",
				ErrNamingCollision, prev.Scenario.Label(), r.Scenario.Label(), r.FloodPath)
		}
		seen[r.FloodPath] = r
	}
	return nil
}
