package catchment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/catchmap/catchmap/internal/feature"
)

func TestOptionsIsSet(t *testing.T) {
	complete := Options{
		URL:      "localhost:8989",
		Points:   &feature.Collection{},
		Distance: 30,
		Unit:     UnitMinutes,
		Profile:  ProfileWalking,
	}
	assert.True(t, complete.IsSet())

	for name, mutate := range map[string]func(*Options){
		"no url":      func(o *Options) { o.URL = "" },
		"no points":   func(o *Options) { o.Points = nil },
		"no distance": func(o *Options) { o.Distance = 0 },
		"no unit":     func(o *Options) { o.Unit = "" },
		"no profile":  func(o *Options) { o.Profile = "" },
	} {
		t.Run(name, func(t *testing.T) {
			opts := complete
			mutate(&opts)
			assert.False(t, opts.IsSet())
		})
	}
}

func TestOptionsBucketCount(t *testing.T) {
	assert.Equal(t, 1, Options{}.bucketCount())
	assert.Equal(t, 1, Options{Buckets: -2}.bucketCount())
	assert.Equal(t, 4, Options{Buckets: 4}.bucketCount())
}

func TestOptionsName(t *testing.T) {
	points := &feature.Collection{Name: "test_points"}
	boundaries := &feature.Collection{Name: "districts"}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "minutes",
			opts: Options{Distance: 30, Unit: UnitMinutes, Points: points, Profile: ProfileWalking},
			want: "30 minutes to test_points by foot",
		},
		{
			name: "meters omits profile",
			opts: Options{Distance: 500, Unit: UnitMeters, Points: points, Profile: ProfileWalking},
			want: "500 meters to test_points",
		},
		{
			name: "selected with walking",
			opts: Options{
				Distance: 30, Unit: UnitMinutes, Points: points, Profile: ProfileCycling,
				SelectedOnly: true, WalkingField: "walk",
			},
			want: "30 minutes with added walking distance to selected test_points by bike",
		},
		{
			name: "boundaries and merge",
			opts: Options{
				Distance: 30, Unit: UnitMinutes, Points: points, Profile: ProfileWalking,
				Boundaries: boundaries, MergeField: "district",
			},
			want: "30 minutes to test_points by foot limited by districts combined by district",
		},
		{
			name: "unnamed collections",
			opts: Options{
				Distance: 10, Unit: UnitMinutes, Points: &feature.Collection{},
				Profile: ProfileDriving, Boundaries: &feature.Collection{},
			},
			want: "10 minutes to points by car limited by boundaries",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Name())
		})
	}
}
