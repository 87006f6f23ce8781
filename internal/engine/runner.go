package engine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/coastalkit/tidegate/internal/config"
	"github.com/coastalkit/tidegate/internal/domain"
	"github.com/coastalkit/tidegate/internal/observability"
)

// Scenario attribute fields written onto output layers.
const (
	fieldFloodElev = "flood_elev"
	fieldSurge     = "surge"
	fieldSLR       = "slr"

	surgeFieldLength = 10
)

// ScenarioResult is the outcome of one scenario: the flood-extent layer
// plus the impacted wetland and building layers when those sources were
// supplied.
type ScenarioResult struct {
	Flood    Layer
	Wetland  Layer // nil without a wetlands source
	Building Layer // nil without a buildings source
}

// Runner executes one scenario end to end: flood extent, scenario
// tagging, impact assessment, and tagging of the wetlands result.
type Runner struct {
	backend Backend
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewRunner creates a Runner over the given backend.
func NewRunner(backend Backend, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Runner {
	return &Runner{backend: backend, logger: logger, metrics: metrics, clock: clock}
}

// Run analyzes one resolved scenario. Intermediate artifacts are kept in
// place; cleanup belongs to aggregation, after the merge has provably
// succeeded. Backend failures wrap into BackendError carrying the
// scenario identity and abort the scenario.
func (r *Runner) Run(ctx context.Context, resolved domain.Resolved, cfg *config.Config) (ScenarioResult, error) {
	r.header(resolved.Title)
	label := resolved.Scenario.Label()
	start := r.clock.Now()

	flood, err := r.backend.Hydrology.ComputeFloodExtent(
		ctx, cfg.DEM, cfg.Polygons, cfg.IDColumn, resolved.Elevation, resolved.FloodPath,
	)
	if err != nil {
		r.metrics.BackendFailures.WithLabelValues("flood-extent").Inc()
		return ScenarioResult{}, &domain.BackendError{Stage: "flood-extent", Scenario: label, Err: err}
	}

	if err := r.tagScenario(ctx, flood.DataSource(), resolved); err != nil {
		return ScenarioResult{}, err
	}

	wetlandsOut := domain.TempFilename(resolved.FloodPath, domain.WetlandsPrefix)
	buildingsOut := domain.TempFilename(resolved.FloodPath, domain.BuildingsPrefix)

	impact, err := r.backend.Impact.AssessImpact(ctx, ImpactRequest{
		FloodPath:       resolved.FloodPath,
		IDColumn:        cfg.IDColumn,
		WetlandsPath:    cfg.Wetlands,
		WetlandsOutput:  wetlandsOut,
		BuildingsPath:   cfg.Buildings,
		BuildingsOutput: buildingsOut,
		Cleanup:         false,
	})
	if err != nil {
		r.metrics.BackendFailures.WithLabelValues("impact").Inc()
		return ScenarioResult{}, &domain.BackendError{Stage: "impact", Scenario: label, Err: err}
	}

	if impact.Wetland != nil {
		if err := r.tagScenario(ctx, impact.Wetland.DataSource(), resolved); err != nil {
			return ScenarioResult{}, err
		}
	}

	r.metrics.ScenariosCompleted.Inc()
	r.metrics.ScenarioDuration.Observe(r.clock.Since(start).Seconds())
	r.logger.Info("scenario complete",
		"scenario", label,
		"flood_layer", impact.Flood.DataSource(),
		"duration", r.clock.Since(start),
	)

	return ScenarioResult{
		Flood:    impact.Flood,
		Wetland:  impact.Wetland,
		Building: impact.Building,
	}, nil
}

// tagScenario writes the scenario attributes onto a layer: flood_elev
// always, surge and slr only in standard mode. The AttributeWriter
// contract makes re-adding an existing field a no-op.
func (r *Runner) tagScenario(ctx context.Context, layer string, resolved domain.Resolved) error {
	fields := []Field{
		{Name: fieldFloodElev, Value: resolved.Elevation},
	}
	if !resolved.Scenario.Custom() {
		fields = append(fields,
			Field{Name: fieldSurge, Value: resolved.Scenario.SurgeName, MaxLength: surgeFieldLength},
			Field{Name: fieldSLR, Value: resolved.Scenario.SeaLevelRise},
		)
	}

	for _, f := range fields {
		r.logger.Info("adding field to output", "layer", layer, "field", f.Name)
		if err := r.backend.Attributes.AddField(ctx, layer, f); err != nil {
			r.metrics.BackendFailures.WithLabelValues("tagging").Inc()
			return &domain.BackendError{Stage: "tagging", Scenario: resolved.Scenario.Label(), Err: err}
		}
	}
	return nil
}

// header emits the scenario title as an underlined progress banner.
// Logging is best effort and never fatal.
func (r *Runner) header(title string) {
	r.logger.Info(title + "\n" + strings.Repeat("-", len(title)))
}
