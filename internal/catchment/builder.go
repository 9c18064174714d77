package catchment

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/catchmap/catchmap/internal/feature"
	"github.com/catchmap/catchmap/internal/geometry"
	"github.com/catchmap/catchmap/internal/graphhopper"
)

// Outcome classifies a finished run. The two zero-feature outcomes are
// deliberately distinct from each other and from fatal errors, so callers
// can give different guidance for each.
type Outcome int

const (
	// OutcomeGenerated means at least one catchment was produced.
	OutcomeGenerated Outcome = iota
	// OutcomeEmptyInput means the starting point collection was empty.
	OutcomeEmptyInput
	// OutcomeNoIsochrones means every point failed with the skippable
	// no-road-network class, producing no usable output.
	OutcomeNoIsochrones
)

// Result is the terminal state of a successful (non-fatal) run.
type Result struct {
	// Collection holds the produced catchment records, in fetch order, or
	// one merged record per group when merging is configured.
	Collection *feature.Collection
	// Outcome classifies the run.
	Outcome Outcome
	// FailedCount is the number of point/bucket pairs that produced no
	// isochrone: points*buckets minus the final feature count.
	FailedCount int
	// OutputFile is the path of the persisted GeoJSON file, when written.
	OutputFile string
}

// BuilderConfig holds the collaborators for a catchment run.
type BuilderConfig struct {
	// Options is the run configuration (required, must pass IsSet).
	Options Options

	// Fetcher performs the isochrone requests. If nil, a GraphHopper client
	// for Options.URL with a resilient transport is used.
	Fetcher graphhopper.Fetcher

	// Logger for pipeline progress and failures.
	Logger zerolog.Logger

	// OnProgress, when set, receives the completed-points fraction in
	// [0, 1] after every point.
	OnProgress func(fraction float64)
}

// Builder runs the catchment pipeline as one single-writer background unit:
// resolve boundaries, fetch isochrones point by point, clip and accumulate
// records, then optionally merge. The builder itself owns all mutable state
// until Run returns; the returned Result is immutable.
type Builder struct {
	opts       Options
	fetcher    graphhopper.Fetcher
	logger     zerolog.Logger
	onProgress func(float64)

	base map[string][]string
}

// NewBuilder validates the options and prepares a run.
func NewBuilder(cfg BuilderConfig) (*Builder, error) {
	if !cfg.Options.IsSet() {
		return nil, ErrOptionsIncomplete
	}
	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = graphhopper.NewClient(graphhopper.ClientConfig{
			BaseURL: cfg.Options.URL,
			Logger:  cfg.Logger,
		})
	}
	return &Builder{
		opts:       cfg.Options,
		fetcher:    fetcher,
		logger:     cfg.Logger,
		onProgress: cfg.OnProgress,
		base:       cfg.Options.baseParams(),
	}, nil
}

// Run executes the pipeline. It returns a Result for every non-fatal
// conclusion, including the two zero-feature outcomes and cancellation
// (partial results are kept when cancelled). A fatal fetch failure aborts
// the whole run: partial results are discarded and the classified error is
// returned instead.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	points := b.opts.sourcePoints()
	boundaries := resolveBoundaries(points, b.boundaryPolygons())

	collection := &feature.Collection{Name: b.opts.Name()}

	b.logger.Info().
		Int("points", len(points)).
		Int("buckets", b.opts.bucketCount()).
		Str("run", collection.Name).
		Msg("starting isochrone fetch")

	for idx, point := range points {
		isochrones, err := b.fetchBucketed(ctx, point)
		if err != nil {
			b.logger.Error().Err(err).Msg("isochrone fetch failed, aborting run")
			return nil, err
		}
		for _, iso := range isochrones {
			collection.Append(b.buildRecord(iso, point, boundaries[idx]))
		}

		if idx > 0 && idx%10 == 0 {
			b.logger.Info().
				Int("fetched", idx).
				Int("total", len(points)).
				Msg("isochrone fetch progress")
		}
		if b.onProgress != nil {
			b.onProgress(float64(idx+1) / float64(len(points)))
		}
		if ctx.Err() != nil {
			b.logger.Warn().
				Int("fetched", idx+1).
				Int("total", len(points)).
				Msg("run cancelled, keeping isochrones fetched so far")
			break
		}
	}

	if b.opts.MergeField != "" {
		b.merge(collection)
	}

	count := collection.Len()
	failed := b.opts.bucketCount()*len(points) - count
	b.logger.Info().Int("isochrones", count).Msg("isochrone generation finished")
	b.logger.Info().Int("failed", failed).Msg("isochrones that could not be generated")

	result := &Result{
		Collection:  collection,
		FailedCount: failed,
	}
	switch {
	case len(points) == 0:
		result.Outcome = OutcomeEmptyInput
	case count == 0:
		result.Outcome = OutcomeNoIsochrones
	default:
		result.Outcome = OutcomeGenerated
		result.OutputFile = b.writeOutput(collection)
	}
	return result, nil
}

// fetchBucketed fetches the isochrone bands for one point. Multi-point
// geometries are decomposed and fetched coordinate by coordinate. A
// bad-request failure (no road network near the coordinate) is logged and
// skipped; any other failure is fatal and propagated.
func (b *Builder) fetchBucketed(ctx context.Context, point *feature.Feature) ([]graphhopper.Isochrone, error) {
	walking := b.walkingDistanceFor(point)

	var isochrones []graphhopper.Isochrone
	for _, pt := range geometry.Points(point.Geometry) {
		params := b.pointParams(pt, walking)
		fetched, err := b.fetcher.FetchIsochrones(ctx, params)
		if err != nil {
			if graphhopper.IsBadRequest(err) {
				b.logger.Warn().
					Str("point", params.Get("point")).
					Str("reason", errMessage(err)).
					Msg("request failed for point, skipping")
				continue
			}
			return nil, err
		}
		isochrones = append(isochrones, fetched...)
	}
	return isochrones, nil
}

// boundaryPolygons returns the boundary features, or nil when unconfigured.
func (b *Builder) boundaryPolygons() []*feature.Feature {
	if b.opts.Boundaries == nil {
		return nil
	}
	return b.opts.Boundaries.Features
}

// writeOutput persists the collection as GeoJSON when configured. Write
// failures are logged, never fatal: the in-memory result stands either way.
func (b *Builder) writeOutput(collection *feature.Collection) string {
	if !b.opts.WriteToDirectory || b.opts.Directory == "" {
		return ""
	}
	path := filepath.Join(b.opts.Directory, collection.Name+".geojson")
	if err := collection.WriteFile(path); err != nil {
		b.logger.Error().Err(err).Str("path", path).Msg("could not save result file")
		return ""
	}
	b.logger.Info().Str("path", path).Msg("saved result file")
	return path
}

// errMessage unwraps the message of a classified fetch error.
func errMessage(err error) string {
	var ghErr *graphhopper.Error
	if errors.As(err, &ghErr) {
		return ghErr.Message
	}
	return err.Error()
}
