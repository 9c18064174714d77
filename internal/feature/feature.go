// Package feature provides ordered geographic feature collections, the
// common currency between GeoJSON input files, the catchment pipeline, and
// the result surface.
package feature

import (
	"github.com/ctessum/geom"
)

// IDField is the attribute name recognized as the feature identifier when
// reading collections that carry it as a property instead of a feature id.
const IDField = "fid"

// Attribute is a single named attribute value. Attributes keep their order,
// which determines the field layout of result collections.
type Attribute struct {
	Name  string
	Value any
}

// Feature is one geographic feature: an identifier, a geometry, and an
// ordered attribute list. Source features are treated as immutable once read.
type Feature struct {
	ID         string
	Geometry   geom.Geom
	Attributes []Attribute
}

// Attribute returns the value of the named attribute.
func (f *Feature) Attribute(name string) (any, bool) {
	for _, a := range f.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// SetAttribute replaces the named attribute value, or appends it when absent.
func (f *Feature) SetAttribute(name string, value any) {
	for i, a := range f.Attributes {
		if a.Name == name {
			f.Attributes[i].Value = value
			return
		}
	}
	f.Attributes = append(f.Attributes, Attribute{Name: name, Value: value})
}

// Collection is an ordered sequence of features.
type Collection struct {
	Name     string
	Features []*Feature
}

// Append adds a feature to the end of the collection.
func (c *Collection) Append(f *Feature) {
	c.Features = append(c.Features, f)
}

// Len returns the number of features in the collection.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// Replace swaps the entire feature list in one step. Used by the merge pass,
// which must never leave the collection in a mixed state.
func (c *Collection) Replace(features []*Feature) {
	c.Features = features
}

// Select returns the features whose ids are in the given set, preserving
// collection order. An empty id set selects nothing.
func (c *Collection) Select(ids []string) []*Feature {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*Feature
	for _, f := range c.Features {
		if want[f.ID] {
			out = append(out, f)
		}
	}
	return out
}
