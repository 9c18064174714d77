package catchment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ctessum/geom"

	"github.com/catchmap/catchmap/internal/feature"
	"github.com/catchmap/catchmap/internal/geometry"
)

// merge replaces the per-point records with one record per
// (merge value, distance) group, each holding the union of the group's
// geometries. Origin ids and boundary ids of the group are collected into
// distinct sorted comma-joined strings. Merging never changes the covered
// area, only how it is partitioned into records.
func (b *Builder) merge(collection *feature.Collection) {
	records := append([]*feature.Feature(nil), collection.Features...)
	sort.SliceStable(records, func(i, j int) bool {
		ki, kj := b.groupKey(records[i]), b.groupKey(records[j])
		if ki != kj {
			return ki < kj
		}
		return recordDistance(records[i]) < recordDistance(records[j])
	})

	var merged []*feature.Feature
	for start := 0; start < len(records); {
		end := start + 1
		for end < len(records) &&
			b.groupKey(records[end]) == b.groupKey(records[start]) &&
			recordDistance(records[end]) == recordDistance(records[start]) {
			end++
		}
		merged = append(merged, b.mergeGroup(records[start:end]))
		start = end
	}
	collection.Replace(merged)
}

// mergeGroup combines one group of records sharing merge value and distance.
func (b *Builder) mergeGroup(group []*feature.Feature) *feature.Feature {
	combined := asPolygonal(group[0].Geometry)
	for _, r := range group[1:] {
		combined = geometry.Union(combined, asPolygonal(r.Geometry))
	}

	record := &feature.Feature{Geometry: combined}
	record.SetAttribute(FieldOriginID, joinIDs(group, FieldOriginID))
	if b.opts.MergeField != feature.IDField {
		value, _ := group[0].Attribute(b.opts.MergeField)
		record.SetAttribute(b.opts.MergeField, value)
	}
	record.SetAttribute(FieldDistance, recordDistance(group[0]))
	record.SetAttribute(FieldBoundaryIDs, joinIDs(group, FieldBoundaryIDs))
	return record
}

// groupKey returns the merge value of a record as a comparable string. When
// merging by the id field the origin-id field carries the group value.
func (b *Builder) groupKey(r *feature.Feature) string {
	field := b.opts.MergeField
	if field == feature.IDField {
		field = FieldOriginID
	}
	v, _ := r.Attribute(field)
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// recordDistance reads the derived distance back off a record.
func recordDistance(r *feature.Feature) float64 {
	v, _ := r.Attribute(FieldDistance)
	d, _ := v.(float64)
	return d
}

// joinIDs collects the distinct ids stored under field across the group,
// splitting already-joined values, and rejoins them sorted.
func joinIDs(group []*feature.Feature, field string) string {
	seen := map[string]struct{}{}
	for _, r := range group {
		v, _ := r.Attribute(field)
		s, _ := v.(string)
		for _, id := range strings.Split(s, ",") {
			if id != "" {
				seen[id] = struct{}{}
			}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// asPolygonal normalizes a record geometry for union operations. Records
// always carry multi-polygons, possibly empty.
func asPolygonal(g geom.Geom) geom.Polygonal {
	if p, ok := g.(geom.Polygonal); ok {
		return p
	}
	return geom.MultiPolygon{}
}
