package config

import (
	"fmt"
	"os"

	"github.com/coastalkit/tidegate/internal/domain"
)

// Config is the immutable description of one analysis run, validated once
// at the engine's entry point. Analysis inputs come from CLI flags;
// observability settings come from the environment (see Observability).
type Config struct {
	// Workspace is the directory or geodatabase the analysis runs in.
	Workspace string

	// DEM is the digital elevation model raster.
	DEM string

	// Polygons is the tidegate zones-of-influence layer, with IDColumn
	// naming the field that uniquely identifies each zone.
	Polygons string
	IDColumn string

	// FloodOutput is where the merged flood extents are written.
	FloodOutput string

	// Wetlands and Buildings are optional impact source layers; the
	// corresponding outputs default to an "output_"-prefixed sibling of
	// the source when left empty.
	Wetlands       string
	WetlandOutput  string
	Buildings      string
	BuildingOutput string

	// Elevations selects custom mode when non-empty; otherwise the
	// standard surge × sea-level-rise matrix runs.
	Elevations []float64

	// Overwrite is the scoped overwrite-existing-outputs policy applied
	// for the duration of the run.
	Overwrite bool
}

// Standard reports whether the run evaluates the standard scenario matrix.
func (c *Config) Standard() bool { return len(c.Elevations) == 0 }

// Validate checks the required fields, failing fast before any scenario
// runs.
func (c *Config) Validate() error {
	required := []struct {
		value, name string
	}{
		{c.Workspace, "workspace"},
		{c.DEM, "dem"},
		{c.Polygons, "polygons"},
		{c.IDColumn, "id-column"},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, r.name)
		}
	}
	if c.FloodOutput == "" {
		return fmt.Errorf("%w: flood-output", domain.ErrMissingOutputPath)
	}
	if c.WetlandOutput != "" && c.Wetlands == "" {
		return fmt.Errorf("%w: wetland-output given without a wetlands layer", domain.ErrInvalidInput)
	}
	if c.BuildingOutput != "" && c.Buildings == "" {
		return fmt.Errorf("%w: building-output given without a buildings layer", domain.ErrInvalidInput)
	}
	return nil
}

// Observability holds process-level settings read from the environment.
type Observability struct {
	LogLevel    string
	LogFormat   string
	MetricsAddr string // empty disables the metrics/health HTTP server
}

// LoadObservability reads observability settings from the environment,
// applying defaults where unset.
func LoadObservability() Observability {
	return Observability{
		LogLevel:    envOrDefault("TIDEGATE_LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("TIDEGATE_LOG_FORMAT", "text"),
		MetricsAddr: os.Getenv("TIDEGATE_METRICS_ADDR"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
