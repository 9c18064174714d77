package catchment

import (
	"sort"
	"strings"

	"github.com/ctessum/geom"

	"github.com/catchmap/catchmap/internal/feature"
	"github.com/catchmap/catchmap/internal/geometry"
)

// Boundary is the resolved containment constraint for one point: the
// combined geometry of every boundary polygon the point touches, and the
// ids of the contributing polygons. A nil Boundary means the point is not
// constrained.
type Boundary struct {
	ids  []string
	geom geom.Polygonal
}

// IDString returns the sorted, comma-joined contributing polygon ids.
func (b *Boundary) IDString() string {
	ids := append([]string(nil), b.ids...)
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// Geometry returns the effective boundary geometry.
func (b *Boundary) Geometry() geom.Polygonal {
	return b.geom
}

// resolveBoundaries computes one Boundary per point, in point order.
//
// A point inside multiple boundary polygons is constrained by all of them,
// i.e. their intersection: only the overlap counts as the effective
// boundary. The first matching polygon seeds the boundary; each further
// match narrows the geometry and contributes its id. Intersection can leave
// line or point remnants, which are dropped so the boundary stays a clean
// multi-polygon.
func resolveBoundaries(points []*feature.Feature, polygons []*feature.Feature) []*Boundary {
	boundaries := make([]*Boundary, len(points))
	if len(polygons) == 0 {
		return boundaries
	}
	for i, point := range points {
		var boundary *Boundary
		for _, polygon := range polygons {
			pg, ok := polygon.Geometry.(geom.Polygonal)
			if !ok || !geometry.Contains(pg, point.Geometry) {
				continue
			}
			if boundary == nil {
				boundary = &Boundary{
					ids:  []string{polygon.ID},
					geom: pg,
				}
				continue
			}
			boundary.geom = geometry.Intersect(boundary.geom, pg)
			boundary.ids = append(boundary.ids, polygon.ID)
		}
		boundaries[i] = boundary
	}
	return boundaries
}
