package feature

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"github.com/catchmap/catchmap/internal/geometry"
)

// Decode parses a GeoJSON feature collection. The feature identifier is
// taken from the GeoJSON feature id when present, otherwise from the "fid"
// property; the id is excluded from the attribute list. GeoJSON properties
// are unordered, so remaining attributes are ordered by name to keep
// repeated runs deterministic.
func Decode(data []byte) (*Collection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decoding feature collection: %w", err)
	}

	col := &Collection{}
	for i, gf := range fc.Features {
		g, err := geometry.FromOrb(gf.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}

		f := &Feature{Geometry: g}
		if gf.ID != nil {
			f.ID = formatValue(gf.ID)
		}

		names := make([]string, 0, len(gf.Properties))
		for name := range gf.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if name == IDField {
				if f.ID == "" {
					f.ID = formatValue(gf.Properties[name])
				}
				continue
			}
			f.Attributes = append(f.Attributes, Attribute{Name: name, Value: gf.Properties[name]})
		}
		if f.ID == "" {
			f.ID = strconv.Itoa(i + 1)
		}
		col.Append(f)
	}
	return col, nil
}

// ReadFile loads a GeoJSON feature collection from disk.
func ReadFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	col, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return col, nil
}

// Encode serializes the collection as GeoJSON. Attribute order is preserved
// in the property map insertion order, though consumers should not rely on
// JSON object ordering.
func (c *Collection) Encode() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range c.Features {
		og, err := geometry.ToOrb(f.Geometry)
		if err != nil {
			return nil, err
		}
		gf := geojson.NewFeature(og)
		if f.ID != "" {
			gf.ID = f.ID
		}
		for _, a := range f.Attributes {
			gf.Properties[a.Name] = a.Value
		}
		fc.Append(gf)
	}
	return fc.MarshalJSON()
}

// WriteFile serializes the collection as GeoJSON to the given path.
func (c *Collection) WriteFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// formatValue renders an id value the way it appears in joined id strings.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprint(v)
	}
}
