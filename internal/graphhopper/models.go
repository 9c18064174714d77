package graphhopper

import (
	"errors"

	"github.com/ctessum/geom"
)

// Sentinel errors for isochrone fetches.
var (
	// ErrBadRequest indicates the service rejected the request, which for
	// isochrone queries usually means no road network near the point.
	// This class is skippable: the run continues with the next point.
	ErrBadRequest = errors.New("routing service rejected the request")
	// ErrUnauthorized indicates a missing or invalid API key.
	ErrUnauthorized = errors.New("routing service denied access")
	// ErrUnavailable indicates the service could not be reached or failed.
	ErrUnavailable = errors.New("routing service unavailable")
)

// Isochrone is one polygon returned by the routing service for one point.
// When more than one bucket is requested, each bucket yields one concentric
// band tagged with its 0-based index.
type Isochrone struct {
	Bucket  int
	Polygon geom.Polygon
}

// Error provides detailed error information from the routing service.
type Error struct {
	Code    string // Error code for logging
	Message string // Human-readable message, from the service when available
	Err     error  // Underlying sentinel error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsBadRequest reports whether the error is the skippable bad-request class.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsUnavailable reports whether the error is a connectivity-class failure,
// used by callers to pick "check your URL and connection" guidance.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// isochroneResponse is the wire shape of a successful isochrone response.
type isochroneResponse struct {
	Polygons []isochronePolygon `json:"polygons"`
}

type isochronePolygon struct {
	Properties struct {
		Bucket int `json:"bucket"`
	} `json:"properties"`
	Geometry struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	} `json:"geometry"`
}

// errorResponse is the wire shape of a GraphHopper error body.
type errorResponse struct {
	Message string `json:"message"`
}
