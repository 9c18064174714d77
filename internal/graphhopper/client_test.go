package graphhopper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const isochroneFixture = `{
	"polygons": [
		{
			"type": "Feature",
			"properties": {"bucket": 0},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[13.3, 52.4], [13.5, 52.4], [13.5, 52.6], [13.3, 52.6], [13.3, 52.4]]]
			}
		},
		{
			"type": "Feature",
			"properties": {"bucket": 1},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[13.2, 52.3], [13.6, 52.3], [13.6, 52.7], [13.2, 52.7], [13.2, 52.3]]]
			}
		}
	]
}`

func newTestClient(serverURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:    serverURL,
		HTTPClient: http.DefaultClient,
		Logger:     zerolog.Nop(),
	})
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"localhost:8989", "http://localhost:8989/isochrone"},
		{"localhost:8989/", "http://localhost:8989/isochrone"},
		{"http://gh.example.com", "http://gh.example.com/isochrone"},
		{"https://graphhopper.com/api/1", "https://graphhopper.com/api/1/isochrone"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EndpointURL(tt.base), tt.base)
	}
}

func TestFetchIsochrones(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/isochrone", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(isochroneFixture))
	}))
	defer server.Close()

	params := url.Values{}
	params.Set("point", "52.5,13.4")
	params.Set("profile", "foot")
	params.Set("buckets", "2")
	params.Set("reverse_flow", "true")
	params.Set("time_limit", "1800")

	isochrones, err := newTestClient(server.URL).FetchIsochrones(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "52.5,13.4", gotQuery.Get("point"))
	assert.Equal(t, "true", gotQuery.Get("reverse_flow"))

	require.Len(t, isochrones, 2)
	assert.Equal(t, 0, isochrones[0].Bucket)
	assert.Equal(t, 1, isochrones[1].Bucket)
	require.Len(t, isochrones[0].Polygon, 1)
	assert.Len(t, isochrones[0].Polygon[0], 5)
	assert.InDelta(t, 13.3, isochrones[0].Polygon[0][0].X, 1e-9)
	assert.InDelta(t, 52.4, isochrones[0].Polygon[0][0].Y, 1e-9)
}

func TestFetchIsochronesBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Point 0 is out of bounds: 0.0,0.0"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchIsochrones(context.Background(), url.Values{})
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))

	var ghErr *Error
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, "Point 0 is out of bounds: 0.0,0.0", ghErr.Message)
}

func TestFetchIsochronesBadRequestRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchIsochrones(context.Background(), url.Values{})
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))

	var ghErr *Error
	require.ErrorAs(t, err, &ghErr)
	assert.Equal(t, "not json at all", ghErr.Message)
}

func TestFetchIsochronesUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchIsochrones(context.Background(), url.Values{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, IsBadRequest(err))
}

func TestFetchIsochronesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).FetchIsochrones(context.Background(), url.Values{})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestFetchIsochronesConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).FetchIsochrones(context.Background(), url.Values{})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestFetchIsochronesContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).FetchIsochrones(ctx, url.Values{})
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
}

func TestFetchIsochronesEmptyPolygons(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"polygons": []}`))
	}))
	defer server.Close()

	isochrones, err := newTestClient(server.URL).FetchIsochrones(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Empty(t, isochrones)
}

func TestErrorUnwrap(t *testing.T) {
	err := &Error{Code: "BAD_REQUEST", Message: "nope", Err: ErrBadRequest}
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.Equal(t, "nope: routing service rejected the request", err.Error())
}
