// Package geometry provides the planar polygon algebra used by the catchment
// pipeline: intersection, union, and reassembly of boolean-operation output
// into well-formed multi-polygons.
package geometry

import (
	"github.com/ctessum/geom"
)

// Intersect computes the intersection of two polygonal geometries.
// The result is always a multi-polygon; degenerate output (shared edges,
// touching corners) is dropped so that only 2D area parts remain.
func Intersect(a, b geom.Polygonal) geom.MultiPolygon {
	return AreaParts(a.Intersection(b))
}

// Union combines two polygonal geometries into one multi-polygon.
// A union that degenerates to a single polygon is normalized into a
// single-element multi-polygon, so the output type is stable.
func Union(a, b geom.Polygonal) geom.MultiPolygon {
	return AreaParts(a.Union(b))
}

// AreaParts extracts the polygonal parts of an arbitrary geometry, discarding
// points and lines. Non-area geometries yield an empty multi-polygon.
func AreaParts(g geom.Geom) geom.MultiPolygon {
	switch t := g.(type) {
	case geom.Polygon:
		return Partition(t)
	case geom.MultiPolygon:
		out := geom.MultiPolygon{}
		for _, p := range t {
			out = append(out, Partition(p)...)
		}
		return out
	case geom.GeometryCollection:
		out := geom.MultiPolygon{}
		for _, sub := range t {
			out = append(out, AreaParts(sub)...)
		}
		return out
	default:
		return geom.MultiPolygon{}
	}
}

// Partition reassembles the rings of a polygon into a multi-polygon where
// each element holds one outer ring followed by the holes it contains.
// Boolean operations return all rings in a single flat polygon, so disjoint
// pieces and holes have to be told apart by containment depth: rings inside
// an even number of other rings are shells, the rest are holes assigned to
// their immediate parent shell.
func Partition(p geom.Polygon) geom.MultiPolygon {
	var rings [][]geom.Point
	for _, r := range p {
		if len(r) >= 3 && ringArea(r) != 0 {
			rings = append(rings, r)
		}
	}
	if len(rings) == 0 {
		return geom.MultiPolygon{}
	}

	type ringInfo struct {
		ring  []geom.Point
		depth int
		area  float64
	}
	infos := make([]ringInfo, len(rings))
	for i, r := range rings {
		infos[i] = ringInfo{ring: r, area: ringArea(r)}
		for j, other := range rings {
			if i == j {
				continue
			}
			if ringContains(other, r[0]) {
				infos[i].depth++
			}
		}
	}

	var out geom.MultiPolygon
	shellIndex := make(map[int]int)
	for i := range infos {
		if infos[i].depth%2 == 0 {
			shellIndex[i] = len(out)
			out = append(out, geom.Polygon{infos[i].ring})
		}
	}
	for i := range infos {
		if infos[i].depth%2 == 0 {
			continue
		}
		parent := -1
		parentArea := 0.0
		for j := range infos {
			if infos[j].depth%2 != 0 || !ringContains(infos[j].ring, infos[i].ring[0]) {
				continue
			}
			if parent == -1 || infos[j].area < parentArea {
				parent = j
				parentArea = infos[j].area
			}
		}
		if parent >= 0 {
			idx := shellIndex[parent]
			out[idx] = append(out[idx], infos[i].ring)
		}
	}
	return out
}

// Contains reports whether a point or multi-point geometry touches a
// polygonal geometry. Points on the polygon edge count as contained.
func Contains(p geom.Polygonal, pt geom.Geom) bool {
	switch t := pt.(type) {
	case geom.Point:
		return t.Within(p) != geom.Outside
	case geom.MultiPoint:
		for _, sub := range t {
			if sub.Within(p) != geom.Outside {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Points returns the individual coordinates of a point or multi-point
// geometry, in order. Other geometry types yield nil.
func Points(g geom.Geom) []geom.Point {
	switch t := g.(type) {
	case geom.Point:
		return []geom.Point{t}
	case geom.MultiPoint:
		return append([]geom.Point(nil), t...)
	default:
		return nil
	}
}

// ringArea returns the absolute shoelace area of a single ring.
func ringArea(r []geom.Point) float64 {
	var sum float64
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// ringContains reports whether pt lies inside the ring using the even-odd
// rule. Points exactly on the ring boundary are not guaranteed either way.
func ringContains(r []geom.Point, pt geom.Point) bool {
	inside := false
	n := len(r)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		if (r[i].Y > pt.Y) != (r[j].Y > pt.Y) &&
			pt.X < (r[j].X-r[i].X)*(pt.Y-r[i].Y)/(r[j].Y-r[i].Y)+r[i].X {
			inside = !inside
		}
	}
	return inside
}
