package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScenarios(t *testing.T) {
	scenarios := StandardScenarios()

	require.Len(t, scenarios, 28)

	for i, s := range scenarios {
		assert.Nil(t, s.Elevation, "scenario %d should have no explicit elevation", i)
		assert.False(t, s.Custom())
	}

	// Surge-major ordering: all seven MHHW scenarios first, slr ascending.
	for slr := 0; slr <= 6; slr++ {
		assert.Equal(t, "MHHW", scenarios[slr].SurgeName)
		assert.Equal(t, 4.0, scenarios[slr].SurgeElevation)
		assert.Equal(t, slr, scenarios[slr].SeaLevelRise)
	}
	assert.Equal(t, "10yr", scenarios[7].SurgeName)
	assert.Equal(t, "50yr", scenarios[14].SurgeName)
	assert.Equal(t, "100yr", scenarios[21].SurgeName)
	assert.Equal(t, 6, scenarios[27].SeaLevelRise)
	assert.Equal(t, 16.5, scenarios[27].FloodElevation())
}

func TestCustomScenarios(t *testing.T) {
	t.Run("preserves input order", func(t *testing.T) {
		scenarios, err := CustomScenarios([]float64{3.5, 4.0})
		require.NoError(t, err)
		require.Len(t, scenarios, 2)

		assert.Equal(t, 3.5, scenarios[0].FloodElevation())
		assert.Equal(t, 4.0, scenarios[1].FloodElevation())
		for _, s := range scenarios {
			assert.True(t, s.Custom())
			assert.Empty(t, s.SurgeName)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := CustomScenarios(nil)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("descriptors are independent", func(t *testing.T) {
		scenarios, err := CustomScenarios([]float64{1.0, 2.0})
		require.NoError(t, err)
		assert.NotSame(t, scenarios[0].Elevation, scenarios[1].Elevation)
	})
}

func TestParseElevations(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := ParseElevations([]string{"3.5", " 4.0", "10"})
		require.NoError(t, err)
		if diff := cmp.Diff([]float64{3.5, 4.0, 10}, got); diff != "" {
			t.Errorf("elevations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("non-numeric", func(t *testing.T) {
		_, err := ParseElevations([]string{"3.5", "high tide"})
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "high tide")
	})
}

func TestScenarioLabel(t *testing.T) {
	elev := 5.25
	assert.Equal(t, "5.25 ft", Scenario{Elevation: &elev}.Label())

	standard := Scenario{SurgeName: "100yr", SurgeElevation: 10.5, SeaLevelRise: 2}
	assert.Equal(t, "12.5 ft (100yr, slr 2)", standard.Label())
}
