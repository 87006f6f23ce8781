package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastalkit/tidegate/internal/domain"
)

func validConfig() *Config {
	return &Config{
		Workspace:   "/data/analysis.gdb",
		DEM:         "dem",
		Polygons:    "zones",
		IDColumn:    "GATE_ID",
		FloodOutput: "floods.shp",
		Overwrite:   true,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing required fields", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*Config)
		}{
			{"workspace", func(c *Config) { c.Workspace = "" }},
			{"dem", func(c *Config) { c.DEM = "" }},
			{"polygons", func(c *Config) { c.Polygons = "" }},
			{"id-column", func(c *Config) { c.IDColumn = "" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				cfg := validConfig()
				tc.mutate(cfg)
				err := cfg.Validate()
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Contains(t, err.Error(), tc.name)
			})
		}
	})

	t.Run("missing flood output", func(t *testing.T) {
		cfg := validConfig()
		cfg.FloodOutput = ""
		require.ErrorIs(t, cfg.Validate(), domain.ErrMissingOutputPath)
	})

	t.Run("impact output without source layer", func(t *testing.T) {
		cfg := validConfig()
		cfg.WetlandOutput = "wetlands_out.shp"
		require.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput)

		cfg = validConfig()
		cfg.BuildingOutput = "buildings_out.shp"
		require.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput)
	})

	t.Run("mode selection", func(t *testing.T) {
		cfg := validConfig()
		assert.True(t, cfg.Standard())
		cfg.Elevations = []float64{3.5}
		assert.False(t, cfg.Standard())
	})
}

func TestLoadObservability(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		obs := LoadObservability()
		assert.Equal(t, "info", obs.LogLevel)
		assert.Equal(t, "text", obs.LogFormat)
		assert.Empty(t, obs.MetricsAddr)
	})

	t.Run("custom env", func(t *testing.T) {
		t.Setenv("TIDEGATE_LOG_LEVEL", "debug")
		t.Setenv("TIDEGATE_LOG_FORMAT", "json")
		t.Setenv("TIDEGATE_METRICS_ADDR", ":9090")

		obs := LoadObservability()
		assert.Equal(t, "debug", obs.LogLevel)
		assert.Equal(t, "json", obs.LogFormat)
		assert.Equal(t, ":9090", obs.MetricsAddr)
	})
}
