// Package store persists catchment run results.
package store

import (
	"time"
)

// Run is one recorded catchment generation run: its configuration summary,
// outcome, and the produced GeoJSON result.
type Run struct {
	// ID is the unique run identifier.
	ID string

	// Name is the human-readable run name derived from the options.
	Name string

	// Profile is the travel profile used.
	Profile string

	// Distance and Unit record the requested limit.
	Distance int
	Unit     string

	// Buckets is the number of bands requested per point.
	Buckets int

	// PointCount is the number of source points.
	PointCount int

	// FeatureCount is the number of produced catchment records.
	FeatureCount int

	// FailedCount is the number of point/bucket pairs without a result.
	FailedCount int

	// Outcome is the terminal classification: "generated", "empty_input"
	// or "no_isochrones".
	Outcome string

	// Result is the produced feature collection as GeoJSON. Empty for the
	// zero-feature outcomes.
	Result []byte

	// CreatedAt is when the run finished.
	CreatedAt time.Time
}
