package exttool

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastalkit/tidegate/internal/engine"
)

func TestRenderCommand(t *testing.T) {
	t.Run("expands fields", func(t *testing.T) {
		got, err := renderCommand("flood-extent",
			"wbt_flood --dem={{.DEM}} --level={{.Elevation}} -o {{.Output}}",
			map[string]any{"DEM": "dem.tif", "Elevation": 12.5, "Output": "out.shp"})
		require.NoError(t, err)
		assert.Equal(t, "wbt_flood --dem=dem.tif --level=12.5 -o out.shp", got)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := renderCommand("impact", "tool {{.Missing}}", map[string]any{"Flood": "f.shp"})
		require.Error(t, err)
	})

	t.Run("malformed template", func(t *testing.T) {
		_, err := renderCommand("impact", "tool {{.Flood", nil)
		require.Error(t, err)
	})
}

func TestBackend_RunsConfiguredCommand(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	b := New(Commands{
		FloodExtent: "printf '%s' {{.Elevation}} > " + marker,
	}, slog.Default())

	lyr, err := b.ComputeFloodExtent(context.Background(), "dem.tif", "zones.shp", "ZoneID", 12.5, "floods12_5.shp")
	require.NoError(t, err)
	assert.Equal(t, "floods12_5.shp", lyr.DataSource())

	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(content))
}

func TestBackend_CommandFailureIncludesOutput(t *testing.T) {
	b := New(Commands{
		AddField: "echo 'field already locked' >&2; exit 3",
	}, slog.Default())

	err := b.AddField(context.Background(), "floods.shp", engine.Field{Name: "surge", Value: "100yr"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add-field command failed")
	assert.Contains(t, err.Error(), "field already locked")
}

func TestBackend_UnconfiguredOperation(t *testing.T) {
	b := New(Commands{}, slog.Default())

	err := b.Concatenate(context.Background(), "out.shp", "a.shp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no concatenate command configured")
}

func TestBackend_DeleteArtifactsFallsBackToFilesystem(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.shp")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o644))

	b := New(Commands{}, slog.Default())
	require.NoError(t, b.DeleteArtifacts(context.Background(), a))
	assert.NoFileExists(t, a)
}

func TestDirScope_EnterAndRestore(t *testing.T) {
	start, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(start) })

	workspace := t.TempDir()
	scope := NewDirScope(slog.Default())

	restore, err := scope.Enter(workspace, true)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, resolveSymlinks(t, workspace), resolveSymlinks(t, wd))
	assert.Equal(t, "true", os.Getenv(overwriteEnv))

	restore()

	wd, err = os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, start, wd)
	_, set := os.LookupEnv(overwriteEnv)
	assert.False(t, set, "overwrite env restored to unset")
}

func TestDirScope_EnterMissingWorkspace(t *testing.T) {
	scope := NewDirScope(slog.Default())
	_, err := scope.Enter(filepath.Join(t.TempDir(), "missing"), false)
	require.Error(t, err)
}

// resolveSymlinks normalizes macOS /private/var tmp paths.
func resolveSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}
