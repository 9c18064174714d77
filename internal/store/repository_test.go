package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepositorySaveAndGet(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	run := &Run{
		ID:           "run-1",
		Name:         "30 minutes to stops by foot",
		Profile:      "foot",
		Distance:     30,
		Unit:         "minutes",
		Buckets:      1,
		PointCount:   2,
		FeatureCount: 2,
		Outcome:      "generated",
		Result:       []byte(`{"type":"FeatureCollection","features":[]}`),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Save(ctx, run))

	got, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Name, got.Name)
	assert.Equal(t, run.Result, got.Result)

	// the stored run must not alias the caller's slice
	got.Result[0] = 'x'
	again, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), again.Result[0])
}

func TestInMemoryRepositoryGetMissing(t *testing.T) {
	repo := NewInMemoryRepository()
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestInMemoryRepositoryListNewestFirst(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, &Run{
			ID:        id,
			Result:    []byte("{}"),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "a", runs[2].ID)
	for _, run := range runs {
		assert.Nil(t, run.Result)
	}
}
