package feature_test

import (
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catchmap/catchmap/internal/feature"
)

const pointsGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"geometry": {"type": "Point", "coordinates": [1.0, 1.0]},
			"properties": {"fid": 1, "name": "school", "extra_info": "first_feature"}
		},
		{
			"type": "Feature",
			"id": "override",
			"geometry": {"type": "MultiPoint", "coordinates": [[0.9, 0.9], [1.1, 1.1]]},
			"properties": {"name": "annex"}
		}
	]
}`

func TestDecode(t *testing.T) {
	col, err := feature.Decode([]byte(pointsGeoJSON))
	require.NoError(t, err)
	require.Equal(t, 2, col.Len())

	first := col.Features[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, geom.Point{X: 1, Y: 1}, first.Geometry)
	// the id property is promoted out of the attribute list
	_, ok := first.Attribute("fid")
	assert.False(t, ok)
	name, ok := first.Attribute("name")
	require.True(t, ok)
	assert.Equal(t, "school", name)

	second := col.Features[1]
	assert.Equal(t, "override", second.ID)
	assert.IsType(t, geom.MultiPoint{}, second.Geometry)
}

func TestDecode_NullGeometry(t *testing.T) {
	// "geometry": null is legal GeoJSON and must surface as an error
	col, err := feature.Decode([]byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "geometry": null, "properties": {"fid": 1}}
		]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feature 0")
	assert.Nil(t, col)
}

func TestDecode_AttributeOrderIsDeterministic(t *testing.T) {
	a, err := feature.Decode([]byte(pointsGeoJSON))
	require.NoError(t, err)
	b, err := feature.Decode([]byte(pointsGeoJSON))
	require.NoError(t, err)
	assert.Equal(t, a.Features[0].Attributes, b.Features[0].Attributes)
}

func TestCollection_Select(t *testing.T) {
	col := &feature.Collection{}
	col.Append(&feature.Feature{ID: "1"})
	col.Append(&feature.Feature{ID: "2"})
	col.Append(&feature.Feature{ID: "3"})

	got := col.Select([]string{"3", "1"})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Empty(t, col.Select(nil))
}

func TestCollection_Replace(t *testing.T) {
	col := &feature.Collection{}
	col.Append(&feature.Feature{ID: "1"})
	col.Append(&feature.Feature{ID: "2"})

	col.Replace([]*feature.Feature{{ID: "merged"}})
	require.Equal(t, 1, col.Len())
	assert.Equal(t, "merged", col.Features[0].ID)
}

func TestEncodeRoundTrip(t *testing.T) {
	col := &feature.Collection{Name: "out"}
	col.Append(&feature.Feature{
		ID:       "1",
		Geometry: geom.MultiPolygon{{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}}},
		Attributes: []feature.Attribute{
			{Name: "original_fid", Value: "1"},
			{Name: "isochrone_distance", Value: 30.0},
			{Name: "boundary_fids", Value: ""},
		},
	})

	data, err := col.Encode()
	require.NoError(t, err)

	back, err := feature.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, back.Len())
	dist, ok := back.Features[0].Attribute("isochrone_distance")
	require.True(t, ok)
	assert.Equal(t, 30.0, dist)
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.geojson")
	col := &feature.Collection{}
	col.Append(&feature.Feature{ID: "1", Geometry: geom.Point{X: 4.9, Y: 52.3}})

	require.NoError(t, col.WriteFile(path))

	back, err := feature.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, back.Len())
}
