package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/coastalkit/tidegate/internal/domain"
)

func newPlanCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the resolved scenario table without running anything",
		Long: `Resolves the scenario list (custom with --elevation, standard without)
against --flood-output and prints each scenario's elevation and temp path.
No external tool is invoked; useful for checking a run before committing
hours of processing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var scenarios []domain.Scenario
			if len(f.elevations) > 0 {
				elevations, err := domain.ParseElevations(f.elevations)
				if err != nil {
					return err
				}
				scenarios, err = domain.CustomScenarios(elevations)
				if err != nil {
					return err
				}
			} else {
				scenarios = domain.StandardScenarios()
			}

			plan, err := domain.ResolveAll(scenarios, f.floodOutput)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tELEVATION\tSURGE\tSLR\tTEMP PATH")
			for i, r := range plan {
				surge, slr := "-", "-"
				if !r.Scenario.Custom() {
					surge = r.Scenario.SurgeName
					slr = fmt.Sprintf("%d", r.Scenario.SeaLevelRise)
				}
				fmt.Fprintf(w, "%d\t%g ft\t%s\t%s\t%s\n", i+1, r.Elevation, surge, slr, r.FloodPath)
			}
			return w.Flush()
		},
	}
	f.register(cmd)
	f.registerElevations(cmd)
	return cmd
}
