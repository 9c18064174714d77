package geometry

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
)

// FromOrb converts a decoded GeoJSON geometry into the planar geometry model.
// Only point and area types are supported; the pipeline has no use for lines.
// A nil geometry ("geometry": null is legal GeoJSON) is an error, not a panic.
func FromOrb(g orb.Geometry) (geom.Geom, error) {
	if g == nil {
		return nil, fmt.Errorf("missing geometry")
	}
	switch t := g.(type) {
	case orb.Point:
		return geom.Point{X: t[0], Y: t[1]}, nil
	case orb.MultiPoint:
		mp := make(geom.MultiPoint, len(t))
		for i, p := range t {
			mp[i] = geom.Point{X: p[0], Y: p[1]}
		}
		return mp, nil
	case orb.Polygon:
		return polygonFromOrb(t), nil
	case orb.MultiPolygon:
		mp := make(geom.MultiPolygon, len(t))
		for i, p := range t {
			mp[i] = polygonFromOrb(p)
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.GeoJSONType())
	}
}

// ToOrb converts a planar geometry back into a GeoJSON geometry for encoding.
func ToOrb(g geom.Geom) (orb.Geometry, error) {
	switch t := g.(type) {
	case geom.Point:
		return orb.Point{t.X, t.Y}, nil
	case geom.MultiPoint:
		mp := make(orb.MultiPoint, len(t))
		for i, p := range t {
			mp[i] = orb.Point{p.X, p.Y}
		}
		return mp, nil
	case geom.Polygon:
		return polygonToOrb(t), nil
	case geom.MultiPolygon:
		mp := make(orb.MultiPolygon, len(t))
		for i, p := range t {
			mp[i] = polygonToOrb(p)
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func polygonFromOrb(p orb.Polygon) geom.Polygon {
	out := make(geom.Polygon, len(p))
	for i, ring := range p {
		r := make([]geom.Point, len(ring))
		for j, pt := range ring {
			r[j] = geom.Point{X: pt[0], Y: pt[1]}
		}
		out[i] = r
	}
	return out
}

func polygonToOrb(p geom.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, ring := range p {
		r := make(orb.Ring, len(ring))
		for j, pt := range ring {
			r[j] = orb.Point{pt.X, pt.Y}
		}
		out[i] = r
	}
	return out
}
