// Package models provides request and response models for the catchmap API.
package models

import (
	"encoding/json"
	"time"
)

// Health represents a health check response.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Health status values.
const (
	HealthStatusOK       = "OK"
	HealthStatusDegraded = "DEGRADED"
)

// CatchmentRequest is the body of POST /v1/catchments. Points and Boundaries
// carry inline GeoJSON feature collections.
type CatchmentRequest struct {
	// URL of the GraphHopper instance. Empty uses the server default.
	URL string `json:"url,omitempty"`

	// APIKey for the routing service, when it requires one.
	APIKey string `json:"apiKey,omitempty"`

	// Profile is the travel profile, e.g. "foot", "bike", "car".
	Profile string `json:"profile"`

	// Distance is the limit value, interpreted per Unit.
	Distance int `json:"distance"`

	// Unit is "meters" or "minutes".
	Unit string `json:"unit"`

	// Buckets is the number of concentric bands per point (default 1).
	Buckets int `json:"buckets,omitempty"`

	// MergeField merges isochrones sharing this attribute value.
	MergeField string `json:"mergeField,omitempty"`

	// WalkingField names the per-point walking-distance attribute.
	WalkingField string `json:"walkingField,omitempty"`

	// SelectedIDs restricts the run to the listed point ids.
	SelectedIDs []string `json:"selectedIds,omitempty"`

	// Points is the source point collection as GeoJSON (required).
	Points json.RawMessage `json:"points"`

	// Boundaries is the optional containment polygon collection as GeoJSON.
	Boundaries json.RawMessage `json:"boundaries,omitempty"`
}

// CatchmentResponse is the result of a catchment run.
type CatchmentResponse struct {
	// RunID identifies the stored run, when persistence is enabled.
	RunID string `json:"runId,omitempty"`

	// Name is the human-readable run name.
	Name string `json:"name"`

	// Outcome is "generated", "empty_input" or "no_isochrones".
	Outcome string `json:"outcome"`

	// FeatureCount is the number of produced catchment records.
	FeatureCount int `json:"featureCount"`

	// FailedCount is the number of point/bucket pairs without a result.
	FailedCount int `json:"failedCount"`

	// Collection is the produced feature collection as GeoJSON. Omitted for
	// the zero-feature outcomes.
	Collection json.RawMessage `json:"collection,omitempty"`
}

// Outcome wire values.
const (
	OutcomeGenerated    = "generated"
	OutcomeEmptyInput   = "empty_input"
	OutcomeNoIsochrones = "no_isochrones"
)

// RunSummary is one element of the run listing.
type RunSummary struct {
	RunID        string    `json:"runId"`
	Name         string    `json:"name"`
	Profile      string    `json:"profile"`
	Distance     int       `json:"distance"`
	Unit         string    `json:"unit"`
	Buckets      int       `json:"buckets"`
	PointCount   int       `json:"pointCount"`
	FeatureCount int       `json:"featureCount"`
	FailedCount  int       `json:"failedCount"`
	Outcome      string    `json:"outcome"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RunDetail is a stored run including its result collection.
type RunDetail struct {
	RunSummary
	Collection json.RawMessage `json:"collection,omitempty"`
}
