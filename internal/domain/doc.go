// Package domain models flood-analysis scenarios for tidegate zones of
// influence.
//
// # Elevations
//
// All elevations are in feet. A scenario is one unit of analysis: flood the
// DEM up to a water-surface elevation, clip the inundated area to the zones
// of influence, and intersect it against optional wetland and building
// layers.
//
// # Standard scenarios
//
// The standard matrix crosses four named storm-surge baselines with sea
// level rise from 0 to 6 feet in 1-ft increments:
//
//	MHHW   4.0 ft
//	10yr   8.0 ft
//	50yr   9.6 ft
//	100yr  10.5 ft
//
// yielding 28 scenarios. The final elevation of a standard scenario is the
// surge baseline plus the sea level rise, e.g. 100yr with 2 ft of rise
// floods to 12.5 ft. Surge order is fixed so output ordering is
// reproducible across runs.
//
// # Custom scenarios
//
// A custom run analyzes an explicit list of elevations instead of the
// matrix. A descriptor is either custom or standard, never both.
//
// # Temp-file naming
//
// Each scenario writes its flood extent to a temp path derived from the
// final output path by inserting the elevation before the extension, with
// "." replaced by "_" to stay filesystem- and geodatabase-safe:
//
//	floods.shp + 12.5 ft  →  floods12_5.shp
//
// Standard-mode paths additionally carry the surge name and sea level
// rise, because the matrix reaches some elevations through two different
// surges (MHHW+4 and 10yr+0 both flood to 8 ft):
//
//	floods.shp + 100yr + 2 ft  →  floods12_5_100yr2.shp
//
// Secondary artifacts (impacted wetlands, buildings) prefix the basename:
//
//	floods12_5.shp  →  _wetlands_floods12_5.shp
//
// Distinct elevations therefore never collide. Two scenarios resolving to
// the same temp path would, so [CheckDistinctPaths] rejects such a plan
// before any backend work starts.
package domain
