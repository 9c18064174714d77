// Package catchment implements the isochrone catchment pipeline: for a set
// of origin points it fetches reachable-area polygons from a GraphHopper
// instance, clips them against containment boundaries, and optionally merges
// per-point isochrones into unified multi-point catchments.
package catchment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/catchmap/catchmap/internal/feature"
)

// ErrOptionsIncomplete is returned when a run is attempted without the
// required options. Callers are expected to check Options.IsSet first.
var ErrOptionsIncomplete = errors.New("catchment options incomplete: url, points, distance, unit and profile are required")

// Unit selects whether the configured distance is meters or minutes.
type Unit string

const (
	// UnitMeters requests a fixed-travel-distance isochrone.
	UnitMeters Unit = "meters"
	// UnitMinutes requests a fixed-travel-time isochrone.
	UnitMinutes Unit = "minutes"
)

// Profile is the GraphHopper travel profile used for routing.
type Profile string

// Common travel profiles. Any profile configured on the GraphHopper
// instance is accepted.
const (
	ProfileWalking Profile = "foot"
	ProfileCycling Profile = "bike"
	ProfileDriving Profile = "car"
)

// WalkingSpeedKmh is the assumed walking speed used when converting a fixed
// walking distance into travel time for the minutes unit.
const WalkingSpeedKmh = 5.0

// Options is the immutable input bundle for one catchment run.
type Options struct {
	// URL is the GraphHopper instance to query (required).
	URL string

	// APIKey is sent as the "key" parameter when non-empty.
	APIKey string

	// Points is the source point collection (required).
	Points *feature.Collection

	// Boundaries is the optional containment polygon collection. Isochrones
	// of points inside one or more boundary polygons are clipped to them.
	Boundaries *feature.Collection

	// SelectedOnly restricts the run to the points listed in SelectedIDs.
	SelectedOnly bool
	SelectedIDs  []string

	// MergeField, when non-empty, merges isochrones sharing this attribute
	// value (and the same distance) into one catchment per group.
	MergeField string

	// WalkingField, when non-empty, names a per-point attribute holding a
	// fixed last-mile walking distance in meters, subtracted from the limit
	// before the fetch.
	WalkingField string

	// Distance is the target distance or time value (required, > 0).
	Distance int

	// Unit selects meters or minutes (required).
	Unit Unit

	// Buckets is the number of concentric bands to request per point.
	// Values below 1 are treated as 1.
	Buckets int

	// Profile is the travel profile (required).
	Profile Profile

	// WriteToDirectory enables writing the result collection as GeoJSON to
	// Directory after a successful run.
	WriteToDirectory bool
	Directory        string
}

// IsSet reports whether all required options are present. Orchestration must
// not start on incomplete options.
func (o Options) IsSet() bool {
	return o.URL != "" && o.Points != nil && o.Distance > 0 && o.Unit != "" && o.Profile != ""
}

// bucketCount returns the effective bucket count, at least 1.
func (o Options) bucketCount() int {
	if o.Buckets < 1 {
		return 1
	}
	return o.Buckets
}

// sourcePoints returns the points included in the run: the selected subset
// when SelectedOnly is set, otherwise all points in input order.
func (o Options) sourcePoints() []*feature.Feature {
	if o.Points == nil {
		return nil
	}
	if o.SelectedOnly {
		return o.Points.Select(o.SelectedIDs)
	}
	return o.Points.Features
}

// Name builds a human-readable run name from the options, used as the
// result collection name and the persisted output file name.
func (o Options) Name() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s ", o.Distance, o.Unit)
	if o.WalkingField != "" {
		b.WriteString("with added walking distance ")
	}
	// isochrones are computed to the point, not from it
	b.WriteString("to ")
	if o.SelectedOnly {
		b.WriteString("selected ")
	}
	if o.Points != nil && o.Points.Name != "" {
		b.WriteString(o.Points.Name)
	} else {
		b.WriteString("points")
	}
	if o.Unit == UnitMinutes {
		fmt.Fprintf(&b, " by %s", o.Profile)
	}
	if o.Boundaries != nil {
		name := o.Boundaries.Name
		if name == "" {
			name = "boundaries"
		}
		fmt.Fprintf(&b, " limited by %s", name)
	}
	if o.MergeField != "" {
		fmt.Fprintf(&b, " combined by %s", o.MergeField)
	}
	return b.String()
}
