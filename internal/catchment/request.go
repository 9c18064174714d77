package catchment

import (
	"net/url"
	"strconv"

	"github.com/ctessum/geom"

	"github.com/catchmap/catchmap/internal/feature"
)

// baseParams builds the parameter set shared by every fetch of a run.
// Exactly one of distance_limit/time_limit is active; the other carries the
// service's -1 "unused" sentinel. reverse_flow is always true: catchments
// are the areas from which the point can be reached, not the other way
// around.
func (o Options) baseParams() url.Values {
	params := url.Values{}
	params.Set("profile", string(o.Profile))
	params.Set("buckets", strconv.Itoa(o.bucketCount()))
	params.Set("reverse_flow", "true")
	if o.APIKey != "" {
		params.Set("key", o.APIKey)
	}
	if o.Unit == UnitMeters {
		params.Set("distance_limit", strconv.Itoa(o.Distance))
		params.Set("time_limit", "-1")
	} else {
		// the service expects seconds
		params.Set("time_limit", strconv.Itoa(60*o.Distance))
	}
	return params
}

// pointParams specializes the base parameters for one coordinate, applying
// the walking-distance adjustment when configured. The walking distance is
// a fixed last-mile leg in meters already consumed before reaching the road
// network, so it is subtracted from the limit: directly for meters, at
// WalkingSpeedKmh for minutes. Limits clamp at 0 rather than erroring.
func (b *Builder) pointParams(pt geom.Point, walkingDistance float64) url.Values {
	params := url.Values{}
	for k, v := range b.base {
		params[k] = append([]string(nil), v...)
	}
	params.Set("point", formatPoint(pt))

	if walkingDistance == 0 {
		return params
	}

	if b.opts.Unit == UnitMeters {
		distance := b.opts.Distance - int(walkingDistance)
		if distance < 0 {
			distance = 0
		}
		b.logger.Info().
			Float64("walking_distance_m", walkingDistance).
			Int("distance_limit_m", distance).
			Msg("adjusted isochrone distance for walking leg")
		params.Set("distance_limit", strconv.Itoa(distance))
	} else {
		// walking distance in meters converted to seconds at walking speed
		seconds := int(float64(60*b.opts.Distance) - walkingDistance/(WalkingSpeedKmh*1000/3600))
		if seconds < 0 {
			seconds = 0
		}
		b.logger.Info().
			Float64("walking_distance_m", walkingDistance).
			Int("time_limit_s", seconds).
			Msg("adjusted isochrone time for walking leg")
		params.Set("time_limit", strconv.Itoa(seconds))
	}
	return params
}

// formatPoint renders a coordinate as the "lat,lon" pair the service expects.
func formatPoint(pt geom.Point) string {
	return strconv.FormatFloat(pt.Y, 'f', -1, 64) + "," + strconv.FormatFloat(pt.X, 'f', -1, 64)
}

// walkingDistanceFor reads the configured walking-distance attribute from a
// point. Missing or non-numeric values mean no adjustment.
func (b *Builder) walkingDistanceFor(f *feature.Feature) float64 {
	if b.opts.WalkingField == "" {
		return 0
	}
	v, ok := f.Attribute(b.opts.WalkingField)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	default:
		return 0
	}
}
