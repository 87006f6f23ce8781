package engine_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/coastalkit/tidegate/internal/engine"
)

// fakeLayer is an opaque layer handle backed by a plain path.
type fakeLayer struct{ path string }

func (l fakeLayer) DataSource() string { return l.path }

type floodCall struct {
	dem, polygons, idColumn string
	elevation               float64
	output                  string
}

type concatCall struct {
	output string
	layers []string
}

type joinCall struct {
	output, merged, baseline string
}

type enterCall struct {
	path      string
	overwrite bool
}

// fakeBackend implements every engine collaborator and records calls so
// tests can assert on ordering, cleanup, and scope-release behavior.
type fakeBackend struct {
	floodCalls  []floodCall
	impactCalls []engine.ImpactRequest
	fields      map[string][]engine.Field
	concatCalls []concatCall
	joinCalls   []joinCall
	deleted     []string
	enterCalls  []enterCall
	restored    int

	failFloodAt  int // 1-based call index that fails; 0 never fails
	failImpact   bool
	failAddField bool
	failConcat   bool
	failJoin     bool
	failEnter    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{fields: make(map[string][]engine.Field)}
}

func (f *fakeBackend) backend() engine.Backend {
	return engine.Backend{
		Hydrology:  f,
		Impact:     f,
		Attributes: f,
		Store:      f,
		Workspace:  f,
	}
}

func (f *fakeBackend) ComputeFloodExtent(_ context.Context, dem, polygons, idColumn string, elevationFeet float64, outputPath string) (engine.Layer, error) {
	f.floodCalls = append(f.floodCalls, floodCall{dem, polygons, idColumn, elevationFeet, outputPath})
	if f.failFloodAt > 0 && len(f.floodCalls) == f.failFloodAt {
		return nil, fmt.Errorf("raster processing failed at %g ft", elevationFeet)
	}
	return fakeLayer{path: outputPath}, nil
}

func (f *fakeBackend) AssessImpact(_ context.Context, req engine.ImpactRequest) (engine.ImpactResult, error) {
	f.impactCalls = append(f.impactCalls, req)
	if f.failImpact {
		return engine.ImpactResult{}, errors.New("intersect failed")
	}
	result := engine.ImpactResult{Flood: fakeLayer{path: req.FloodPath}}
	if req.WetlandsPath != "" {
		result.Wetland = fakeLayer{path: req.WetlandsOutput}
	}
	if req.BuildingsPath != "" {
		result.Building = fakeLayer{path: req.BuildingsOutput}
	}
	return result, nil
}

func (f *fakeBackend) AddField(_ context.Context, layer string, field engine.Field) error {
	if f.failAddField {
		return errors.New("schema lock")
	}
	f.fields[layer] = append(f.fields[layer], field)
	return nil
}

func (f *fakeBackend) Concatenate(_ context.Context, outputPath string, layers ...string) error {
	if f.failConcat {
		return errors.New("merge failed")
	}
	f.concatCalls = append(f.concatCalls, concatCall{output: outputPath, layers: append([]string(nil), layers...)})
	return nil
}

func (f *fakeBackend) SpatialJoin(_ context.Context, outputPath, merged, baseline string) error {
	if f.failJoin {
		return errors.New("join failed")
	}
	f.joinCalls = append(f.joinCalls, joinCall{output: outputPath, merged: merged, baseline: baseline})
	return nil
}

func (f *fakeBackend) DeleteArtifacts(_ context.Context, paths ...string) error {
	f.deleted = append(f.deleted, paths...)
	return nil
}

func (f *fakeBackend) Enter(path string, overwrite bool) (func(), error) {
	if f.failEnter {
		return nil, errors.New("workspace locked")
	}
	f.enterCalls = append(f.enterCalls, enterCall{path: path, overwrite: overwrite})
	return func() { f.restored++ }, nil
}

// fieldNames extracts the field names tagged onto a layer, in order.
func (f *fakeBackend) fieldNames(layer string) []string {
	names := make([]string, 0, len(f.fields[layer]))
	for _, fld := range f.fields[layer] {
		names = append(names, fld.Name)
	}
	return names
}
