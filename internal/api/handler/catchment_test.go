package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ctessum/geom"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catchmap/catchmap/internal/api/models"
	"github.com/catchmap/catchmap/internal/catchment"
	"github.com/catchmap/catchmap/internal/graphhopper"
	"github.com/catchmap/catchmap/internal/store"
)

const pointsGeoJSON = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"fid": 1},
			"geometry": {"type": "Point", "coordinates": [13.4, 52.5]}
		}
	]
}`

// fetcherFunc adapts a function to the graphhopper.Fetcher interface.
type fetcherFunc func(ctx context.Context, params url.Values) ([]graphhopper.Isochrone, error)

func (f fetcherFunc) FetchIsochrones(ctx context.Context, params url.Values) ([]graphhopper.Isochrone, error) {
	return f(ctx, params)
}

func squareAt(x, y float64) geom.Polygon {
	return geom.Polygon{{
		{X: x, Y: y},
		{X: x + 1, Y: y},
		{X: x + 1, Y: y + 1},
		{X: x, Y: y + 1},
		{X: x, Y: y},
	}}
}

func newHandlerWithFetcher(repo store.Repository, fetch fetcherFunc) *CatchmentHandler {
	h := NewCatchmentHandler("localhost:8989", repo, zerolog.Nop())
	h.newBuilder = func(cfg catchment.BuilderConfig) (*catchment.Builder, error) {
		cfg.Fetcher = fetch
		return catchment.NewBuilder(cfg)
	}
	return h
}

func postCatchments(t *testing.T, h *CatchmentHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/catchments", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.GenerateCatchments(rec, req)
	return rec
}

func validRequestBody(t *testing.T) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"profile":  "foot",
		"distance": 30,
		"unit":     "minutes",
		"points":   json.RawMessage(pointsGeoJSON),
	})
	require.NoError(t, err)
	return string(body)
}

func unitSquareFetcher(ctx context.Context, params url.Values) ([]graphhopper.Isochrone, error) {
	return []graphhopper.Isochrone{{
		Bucket:  0,
		Polygon: squareAt(13, 52),
	}}, nil
}

func TestGenerateCatchments(t *testing.T) {
	h := newHandlerWithFetcher(nil, unitSquareFetcher)

	rec := postCatchments(t, h, validRequestBody(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CatchmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.OutcomeGenerated, resp.Outcome)
	assert.Equal(t, 1, resp.FeatureCount)
	assert.Equal(t, 0, resp.FailedCount)
	assert.NotEmpty(t, resp.Collection)
	assert.Empty(t, resp.RunID)
}

func TestGenerateCatchmentsValidation(t *testing.T) {
	h := newHandlerWithFetcher(nil, unitSquareFetcher)

	rec := postCatchments(t, h, `{"profile": "", "distance": -5, "unit": "furlongs"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	fields := make([]string, 0, len(problem.Errors))
	for _, fe := range problem.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"profile", "distance", "unit", "points"}, fields)
}

func TestGenerateCatchmentsInvalidBody(t *testing.T) {
	h := newHandlerWithFetcher(nil, unitSquareFetcher)
	rec := postCatchments(t, h, "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateCatchmentsRoutingUnreachable(t *testing.T) {
	h := newHandlerWithFetcher(nil, func(context.Context, url.Values) ([]graphhopper.Isochrone, error) {
		return nil, &graphhopper.Error{
			Code:    "REQUEST_FAILED",
			Message: "failed to reach routing service",
			Err:     graphhopper.ErrUnavailable,
		}
	})

	rec := postCatchments(t, h, validRequestBody(t))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Contains(t, problem.Detail, "check the URL")
}

func TestGenerateCatchmentsNoIsochrones(t *testing.T) {
	h := newHandlerWithFetcher(nil, func(context.Context, url.Values) ([]graphhopper.Isochrone, error) {
		return nil, &graphhopper.Error{
			Code:    "BAD_REQUEST",
			Message: "no road network",
			Err:     graphhopper.ErrBadRequest,
		}
	})

	rec := postCatchments(t, h, validRequestBody(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CatchmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.OutcomeNoIsochrones, resp.Outcome)
	assert.Equal(t, 0, resp.FeatureCount)
	assert.Equal(t, 1, resp.FailedCount)
	assert.Empty(t, resp.Collection)
}

func TestGenerateCatchmentsPersistsRun(t *testing.T) {
	repo := store.NewInMemoryRepository()
	h := newHandlerWithFetcher(repo, unitSquareFetcher)

	rec := postCatchments(t, h, validRequestBody(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CatchmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.RunID)

	run, err := repo.Get(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, "generated", run.Outcome)
	assert.Equal(t, 1, run.FeatureCount)
	assert.JSONEq(t, string(resp.Collection), string(run.Result))
}

func TestGetRunNotFound(t *testing.T) {
	h := NewRunsHandler(store.NewInMemoryRepository(), zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/missing", nil)
	rec := httptest.NewRecorder()
	h.GetRun(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
