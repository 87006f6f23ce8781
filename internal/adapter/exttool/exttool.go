// Package exttool implements the engine's GIS collaborators by driving
// operator-configured external command-line tools (GDAL/OGR, WhiteboxTools
// or equivalents) through the shell. One command template per operation;
// the template is expanded with the operation's inputs and run via
// "sh -c". Raster hydrology and file-format handling stay inside the
// external tools.
package exttool

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"github.com/coastalkit/tidegate/internal/engine"
)

// Commands holds one shell command template per backend operation.
// Templates reference the operation's inputs by field name, e.g.
//
//	flood-extent: wbt_flood --dem={{.DEM}} --zones={{.Polygons}} --level={{.Elevation}} -o {{.Output}}
//
// An empty template makes the corresponding operation fail with a
// configuration error when first used. Delete may stay empty: artifacts
// are then removed from the filesystem directly.
type Commands struct {
	FloodExtent string // fields: DEM, Polygons, IDColumn, Elevation, Output
	Impact      string // fields: Flood, IDColumn, Wetlands, WetlandsOutput, Buildings, BuildingsOutput, Cleanup
	AddField    string // fields: Layer, Field, Value, MaxLength
	Concatenate string // fields: Output, Layers (space-joined)
	SpatialJoin string // fields: Output, Merged, Baseline
	Delete      string // fields: Path
}

// Backend implements engine.Hydrology, engine.ImpactAssessor,
// engine.AttributeWriter, and engine.GeoStore over external commands.
type Backend struct {
	cmds   Commands
	logger *slog.Logger
}

// New creates a Backend from the given command templates.
func New(cmds Commands, logger *slog.Logger) *Backend {
	return &Backend{cmds: cmds, logger: logger}
}

// layer is an opaque handle whose data source is the output path the
// external tool wrote to.
type layer string

func (l layer) DataSource() string { return string(l) }

func (b *Backend) ComputeFloodExtent(ctx context.Context, dem, polygons, idColumn string, elevationFeet float64, outputPath string) (engine.Layer, error) {
	err := b.run(ctx, "flood-extent", b.cmds.FloodExtent, map[string]any{
		"DEM":       dem,
		"Polygons":  polygons,
		"IDColumn":  idColumn,
		"Elevation": elevationFeet,
		"Output":    outputPath,
	})
	if err != nil {
		return nil, err
	}
	return layer(outputPath), nil
}

func (b *Backend) AssessImpact(ctx context.Context, req engine.ImpactRequest) (engine.ImpactResult, error) {
	err := b.run(ctx, "impact", b.cmds.Impact, map[string]any{
		"Flood":           req.FloodPath,
		"IDColumn":        req.IDColumn,
		"Wetlands":        req.WetlandsPath,
		"WetlandsOutput":  req.WetlandsOutput,
		"Buildings":       req.BuildingsPath,
		"BuildingsOutput": req.BuildingsOutput,
		"Cleanup":         req.Cleanup,
	})
	if err != nil {
		return engine.ImpactResult{}, err
	}

	result := engine.ImpactResult{Flood: layer(req.FloodPath)}
	if req.WetlandsPath != "" {
		result.Wetland = layer(req.WetlandsOutput)
	}
	if req.BuildingsPath != "" {
		result.Building = layer(req.BuildingsOutput)
	}
	return result, nil
}

// AddField tags a layer with one attribute. Idempotence per field name is
// delegated to the configured tool (e.g. ogrinfo's ALTER TABLE ... ADD
// COLUMN IF NOT EXISTS).
func (b *Backend) AddField(ctx context.Context, lyr string, field engine.Field) error {
	return b.run(ctx, "add-field", b.cmds.AddField, map[string]any{
		"Layer":     lyr,
		"Field":     field.Name,
		"Value":     fmt.Sprintf("%v", field.Value),
		"MaxLength": field.MaxLength,
	})
}

func (b *Backend) Concatenate(ctx context.Context, outputPath string, layers ...string) error {
	return b.run(ctx, "concatenate", b.cmds.Concatenate, map[string]any{
		"Output": outputPath,
		"Layers": strings.Join(layers, " "),
	})
}

func (b *Backend) SpatialJoin(ctx context.Context, outputPath, merged, baseline string) error {
	return b.run(ctx, "spatial-join", b.cmds.SpatialJoin, map[string]any{
		"Output":   outputPath,
		"Merged":   merged,
		"Baseline": baseline,
	})
}

// DeleteArtifacts removes intermediate artifacts, via the Delete command
// when configured and the filesystem otherwise.
func (b *Backend) DeleteArtifacts(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		if b.cmds.Delete != "" {
			if err := b.run(ctx, "delete", b.cmds.Delete, map[string]any{"Path": p}); err != nil {
				return err
			}
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("delete %s: %w", p, err)
		}
	}
	return nil
}

// run expands a command template and executes it through the shell,
// returning stderr/stdout context on failure.
func (b *Backend) run(ctx context.Context, name, tmpl string, data map[string]any) error {
	if tmpl == "" {
		return fmt.Errorf("no %s command configured", name)
	}

	cmdline, err := renderCommand(name, tmpl, data)
	if err != nil {
		return err
	}

	b.logger.Debug("running external tool", "operation", name, "command", cmdline)
	out, err := exec.CommandContext(ctx, "sh", "-c", cmdline).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s command failed: %w: %s", name, err, lastLines(out, 5))
	}
	return nil
}

func renderCommand(name, tmpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse %s command template: %w", name, err)
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("expand %s command template: %w", name, err)
	}
	return buf.String(), nil
}

// lastLines trims tool output to its tail so errors stay readable.
func lastLines(out []byte, n int) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
