package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Surge is a named storm-surge baseline with its elevation in feet.
type Surge struct {
	Name      string
	Elevation float64
}

// Surges is the standard storm-surge table. Order is significant: the
// standard matrix is emitted surge-major so output ordering is stable.
var Surges = []Surge{
	{Name: "MHHW", Elevation: 4.0},
	{Name: "10yr", Elevation: 8.0},
	{Name: "50yr", Elevation: 9.6},
	{Name: "100yr", Elevation: 10.5},
}

// Sea level rise range for the standard matrix, in whole feet.
const (
	MinSeaLevelRise = 0
	MaxSeaLevelRise = 6
)

// Scenario describes one unit of flood analysis. Exactly one of the two
// modes holds: custom (Elevation set, surge fields zero) or standard
// (SurgeName set with SurgeElevation and SeaLevelRise, Elevation nil).
type Scenario struct {
	Elevation      *float64 // explicit elevation, custom mode only
	SurgeName      string
	SurgeElevation float64
	SeaLevelRise   int
}

// Custom reports whether the scenario carries an explicit elevation.
func (s Scenario) Custom() bool { return s.Elevation != nil }

// FloodElevation is the water-surface elevation the scenario analyzes:
// the explicit elevation in custom mode, surge baseline plus sea level
// rise in standard mode.
func (s Scenario) FloodElevation() float64 {
	if s.Custom() {
		return *s.Elevation
	}
	return s.SurgeElevation + float64(s.SeaLevelRise)
}

// Label identifies the scenario in errors and logs,
// e.g. "12.5 ft (100yr, slr 2)" or "5.25 ft".
func (s Scenario) Label() string {
	if s.Custom() {
		return fmt.Sprintf("%s ft", formatElevation(s.FloodElevation()))
	}
	return fmt.Sprintf("%s ft (%s, slr %d)", formatElevation(s.FloodElevation()), s.SurgeName, s.SeaLevelRise)
}

// StandardScenarios enumerates the full surge × sea-level-rise matrix,
// surge-major, 28 scenarios in total.
func StandardScenarios() []Scenario {
	scenarios := make([]Scenario, 0, len(Surges)*(MaxSeaLevelRise-MinSeaLevelRise+1))
	for _, surge := range Surges {
		for slr := MinSeaLevelRise; slr <= MaxSeaLevelRise; slr++ {
			scenarios = append(scenarios, Scenario{
				SurgeName:      surge.Name,
				SurgeElevation: surge.Elevation,
				SeaLevelRise:   slr,
			})
		}
	}
	return scenarios
}

// CustomScenarios builds one scenario per explicit elevation, preserving
// input order.
func CustomScenarios(elevations []float64) ([]Scenario, error) {
	if len(elevations) == 0 {
		return nil, fmt.Errorf("%w: at least one elevation is required", ErrInvalidInput)
	}
	scenarios := make([]Scenario, len(elevations))
	for i, e := range elevations {
		elev := e
		scenarios[i] = Scenario{Elevation: &elev}
	}
	return scenarios, nil
}

// ParseElevations converts elevations passed as text (the host hands them
// over as strings) into feet, rejecting non-numeric values.
func ParseElevations(raw []string) ([]float64, error) {
	elevations := make([]float64, 0, len(raw))
	for _, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: elevation %q is not numeric", ErrInvalidInput, s)
		}
		elevations = append(elevations, v)
	}
	return elevations, nil
}

// formatElevation renders an elevation the shortest way that round-trips,
// so 12.5 stays "12.5" and 8 stays "8".
func formatElevation(elev float64) string {
	return strconv.FormatFloat(elev, 'f', -1, 64)
}
