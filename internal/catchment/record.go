package catchment

import (
	"github.com/ctessum/geom"

	"github.com/catchmap/catchmap/internal/feature"
	"github.com/catchmap/catchmap/internal/geometry"
	"github.com/catchmap/catchmap/internal/graphhopper"
)

// Result field names. Origin ids are stored as strings so merged records can
// carry several of them.
const (
	// FieldOriginID holds the id(s) of the originating point(s).
	FieldOriginID = "original_fid"
	// FieldDistance holds the isochrone distance derived from the bucket.
	FieldDistance = "isochrone_distance"
	// FieldBoundaryIDs holds the ids of the clipping boundary polygons.
	FieldBoundaryIDs = "boundary_fids"
)

// buildRecord converts one fetched isochrone band into a result record.
//
// The distance value is derived from the 0-based bucket index:
// (bucket+1) * (distance / buckets). Attributes are either a full copy of
// the point's attributes (its id moving into the origin-id field), or, when
// merging, just the id and the grouping attribute, since merged catchments
// cannot keep per-point values. When the point has a resolved boundary the
// isochrone is clipped to it, keeping area parts only; a clip that removes
// all area still yields a record with empty geometry, so the failure
// accounting stays visible in the feature count.
func (b *Builder) buildRecord(iso graphhopper.Isochrone, point *feature.Feature, boundary *Boundary) *feature.Feature {
	distance := float64(iso.Bucket+1) * (float64(b.opts.Distance) / float64(b.opts.bucketCount()))

	record := &feature.Feature{}
	record.SetAttribute(FieldOriginID, point.ID)
	if b.opts.MergeField != "" {
		if b.opts.MergeField != feature.IDField {
			value, _ := point.Attribute(b.opts.MergeField)
			record.SetAttribute(b.opts.MergeField, value)
		}
	} else {
		for _, a := range point.Attributes {
			record.SetAttribute(a.Name, a.Value)
		}
	}
	record.SetAttribute(FieldDistance, distance)

	isochrone := geom.MultiPolygon{iso.Polygon}
	if boundary != nil {
		record.SetAttribute(FieldBoundaryIDs, boundary.IDString())
		isochrone = geometry.Intersect(boundary.Geometry(), isochrone)
	} else {
		record.SetAttribute(FieldBoundaryIDs, "")
	}
	record.Geometry = isochrone
	return record
}
