// Command tidegate runs flood-impact analyses over tidegate zones of
// influence: custom water-surface elevations, the standard storm-surge ×
// sea-level-rise scenario matrix, or a dry-run plan of either.
//
// The heavy GIS work (flood extent, intersection, merge) is delegated to
// external command-line tools configured per operation, e.g.:
//
//	tidegate standard \
//	  --workspace /data/run1 --dem dem.tif --polygons zones.shp \
//	  --id-column GATE_ID --flood-output floods.shp \
//	  --flood-extent-cmd 'wbt_flood --dem={{.DEM}} --zones={{.Polygons}} --level={{.Elevation}} -o {{.Output}}' \
//	  --impact-cmd '...' --add-field-cmd '...' --concatenate-cmd '...' --spatial-join-cmd '...'
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coastalkit/tidegate/internal/adapter/exttool"
	"github.com/coastalkit/tidegate/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// flags collects every CLI option; each invocation builds its immutable
// config.Config from it after flag parsing.
type flags struct {
	workspace      string
	dem            string
	polygons       string
	idColumn       string
	floodOutput    string
	wetlands       string
	wetlandOutput  string
	buildings      string
	buildingOutput string
	elevations     []string
	overwrite      bool

	cmds exttool.Commands
}

func (f *flags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.workspace, "workspace", "", "directory or geodatabase the analysis runs in")
	fs.StringVar(&f.dem, "dem", "", "digital elevation model raster")
	fs.StringVar(&f.polygons, "polygons", "", "tidegate zones-of-influence layer")
	fs.StringVar(&f.idColumn, "id-column", "", "field uniquely identifying each zone of influence")
	fs.StringVar(&f.floodOutput, "flood-output", "", "output path for merged flood extents")
	fs.StringVar(&f.wetlands, "wetlands", "", "optional wetlands source layer")
	fs.StringVar(&f.wetlandOutput, "wetland-output", "", "output path for impacted wetlands (default: output_-prefixed source)")
	fs.StringVar(&f.buildings, "buildings", "", "optional building-footprints source layer")
	fs.StringVar(&f.buildingOutput, "building-output", "", "output path for impacted buildings (default: output_-prefixed source)")
	fs.BoolVar(&f.overwrite, "overwrite", true, "allow overwriting existing outputs for the duration of the run")

	fs.StringVar(&f.cmds.FloodExtent, "flood-extent-cmd", "", "command template computing one flood extent")
	fs.StringVar(&f.cmds.Impact, "impact-cmd", "", "command template intersecting a flood extent against impact layers")
	fs.StringVar(&f.cmds.AddField, "add-field-cmd", "", "command template adding an attribute field to a layer")
	fs.StringVar(&f.cmds.Concatenate, "concatenate-cmd", "", "command template merging layers into one output")
	fs.StringVar(&f.cmds.SpatialJoin, "spatial-join-cmd", "", "command template spatially joining merged results to a baseline")
	fs.StringVar(&f.cmds.Delete, "delete-cmd", "", "command template deleting an intermediate artifact (default: filesystem removal)")
}

func (f *flags) registerElevations(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.elevations, "elevation", nil, "water-surface elevation in feet (repeatable)")
}

// analysisConfig builds the run configuration. elevations stays empty for
// standard mode.
func (f *flags) analysisConfig(elevations []float64) *config.Config {
	return &config.Config{
		Workspace:      f.workspace,
		DEM:            f.dem,
		Polygons:       f.polygons,
		IDColumn:       f.idColumn,
		FloodOutput:    f.floodOutput,
		Wetlands:       f.wetlands,
		WetlandOutput:  f.wetlandOutput,
		Buildings:      f.buildings,
		BuildingOutput: f.buildingOutput,
		Elevations:     elevations,
		Overwrite:      f.overwrite,
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tidegate",
		Short:         "Flood-impact scenario analysis for tidegate zones of influence",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newFloodCmd(), newStandardCmd(), newPlanCmd())
	return root
}
