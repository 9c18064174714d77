package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/catchmap/catchmap/internal/api/models"
	"github.com/catchmap/catchmap/internal/api/response"
	"github.com/catchmap/catchmap/internal/catchment"
	"github.com/catchmap/catchmap/internal/feature"
	"github.com/catchmap/catchmap/internal/graphhopper"
	"github.com/catchmap/catchmap/internal/store"
)

// CatchmentHandler handles catchment generation requests.
type CatchmentHandler struct {
	defaultURL string
	repo       store.Repository
	logger     zerolog.Logger

	// newBuilder is swapped in tests to inject a fake fetcher.
	newBuilder func(cfg catchment.BuilderConfig) (*catchment.Builder, error)
}

// NewCatchmentHandler creates a new CatchmentHandler. The repository may be
// nil, in which case runs are not persisted. defaultURL is used when a
// request does not name a routing instance.
func NewCatchmentHandler(defaultURL string, repo store.Repository, logger zerolog.Logger) *CatchmentHandler {
	return &CatchmentHandler{
		defaultURL: defaultURL,
		repo:       repo,
		logger:     logger,
		newBuilder: catchment.NewBuilder,
	}
}

// GenerateCatchments handles POST /v1/catchments.
func (h *CatchmentHandler) GenerateCatchments(w http.ResponseWriter, r *http.Request) {
	var req models.CatchmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	opts, fieldErrors := h.buildOptions(&req)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid catchment request", fieldErrors)
		return
	}

	builder, err := h.newBuilder(catchment.BuilderConfig{
		Options: opts,
		Logger:  h.logger,
	})
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	result, err := builder.Run(r.Context())
	if err != nil {
		if graphhopper.IsUnavailable(err) {
			response.BadGateway(w, r, "routing service unreachable - check the URL and your connection")
			return
		}
		h.logger.Error().Err(err).Msg("catchment run failed")
		response.InternalError(w, r, "catchment generation failed")
		return
	}

	resp := models.CatchmentResponse{
		Name:         result.Collection.Name,
		Outcome:      outcomeString(result.Outcome),
		FeatureCount: result.Collection.Len(),
		FailedCount:  result.FailedCount,
	}

	if result.Outcome == catchment.OutcomeGenerated {
		data, err := result.Collection.Encode()
		if err != nil {
			h.logger.Error().Err(err).Msg("encoding result collection")
			response.InternalError(w, r, "encoding result collection failed")
			return
		}
		resp.Collection = data
	}

	if h.repo != nil {
		resp.RunID = h.saveRun(r, &req, opts, &resp)
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// buildOptions validates a request and converts it into run options.
func (h *CatchmentHandler) buildOptions(req *models.CatchmentRequest) (catchment.Options, []models.FieldError) {
	var fieldErrors []models.FieldError

	opts := catchment.Options{
		URL:          req.URL,
		APIKey:       req.APIKey,
		Profile:      catchment.Profile(req.Profile),
		Distance:     req.Distance,
		Unit:         catchment.Unit(req.Unit),
		Buckets:      req.Buckets,
		MergeField:   req.MergeField,
		WalkingField: req.WalkingField,
	}
	if opts.URL == "" {
		opts.URL = h.defaultURL
	}
	if opts.URL == "" {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "url", Message: "routing service URL is required", Code: "required",
		})
	}
	if req.Profile == "" {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "profile", Message: "travel profile is required", Code: "required",
		})
	}
	if req.Distance <= 0 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "distance", Message: "distance must be positive", Code: "invalid",
		})
	}
	if req.Unit != string(catchment.UnitMeters) && req.Unit != string(catchment.UnitMinutes) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "unit", Message: `unit must be "meters" or "minutes"`, Code: "invalid",
		})
	}

	if len(req.Points) == 0 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "points", Message: "points collection is required", Code: "required",
		})
	} else {
		points, err := feature.Decode(req.Points)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field: "points", Message: err.Error(), Code: "invalid",
			})
		} else {
			opts.Points = points
		}
	}

	if len(req.Boundaries) > 0 {
		boundaries, err := feature.Decode(req.Boundaries)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field: "boundaries", Message: err.Error(), Code: "invalid",
			})
		} else {
			opts.Boundaries = boundaries
		}
	}

	if len(req.SelectedIDs) > 0 {
		opts.SelectedOnly = true
		opts.SelectedIDs = req.SelectedIDs
	}

	return opts, fieldErrors
}

// saveRun persists a finished run. Persistence failures are logged, never
// fatal to the response.
func (h *CatchmentHandler) saveRun(r *http.Request, req *models.CatchmentRequest, opts catchment.Options, resp *models.CatchmentResponse) string {
	runID := "run_" + uuid.New().String()
	run := &store.Run{
		ID:           runID,
		Name:         resp.Name,
		Profile:      req.Profile,
		Distance:     req.Distance,
		Unit:         req.Unit,
		Buckets:      opts.Buckets,
		PointCount:   opts.Points.Len(),
		FeatureCount: resp.FeatureCount,
		FailedCount:  resp.FailedCount,
		Outcome:      resp.Outcome,
		Result:       resp.Collection,
		CreatedAt:    time.Now(),
	}
	if err := h.repo.Save(r.Context(), run); err != nil {
		h.logger.Error().Err(err).Str("run_id", runID).Msg("saving run failed")
		return ""
	}
	return runID
}

// RunsHandler handles stored run retrieval.
type RunsHandler struct {
	repo   store.Repository
	logger zerolog.Logger
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(repo store.Repository, logger zerolog.Logger) *RunsHandler {
	return &RunsHandler{repo: repo, logger: logger}
}

// ListRuns handles GET /v1/runs.
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("listing runs failed")
		response.InternalError(w, r, "listing runs failed")
		return
	}

	summaries := make([]models.RunSummary, 0, len(runs))
	for _, run := range runs {
		summaries = append(summaries, runSummary(run))
	}
	response.JSON(w, r, http.StatusOK, map[string]interface{}{"runs": summaries})
}

// GetRun handles GET /v1/runs/{runId}.
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runId")
	run, err := h.repo.Get(r.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			response.NotFound(w, r, "run not found")
			return
		}
		h.logger.Error().Err(err).Str("run_id", runID).Msg("loading run failed")
		response.InternalError(w, r, "loading run failed")
		return
	}

	detail := models.RunDetail{
		RunSummary: runSummary(run),
		Collection: run.Result,
	}
	response.JSON(w, r, http.StatusOK, detail)
}

func runSummary(run *store.Run) models.RunSummary {
	return models.RunSummary{
		RunID:        run.ID,
		Name:         run.Name,
		Profile:      run.Profile,
		Distance:     run.Distance,
		Unit:         run.Unit,
		Buckets:      run.Buckets,
		PointCount:   run.PointCount,
		FeatureCount: run.FeatureCount,
		FailedCount:  run.FailedCount,
		Outcome:      run.Outcome,
		CreatedAt:    run.CreatedAt,
	}
}

// outcomeString maps a run outcome to its wire value.
func outcomeString(outcome catchment.Outcome) string {
	switch outcome {
	case catchment.OutcomeEmptyInput:
		return models.OutcomeEmptyInput
	case catchment.OutcomeNoIsochrones:
		return models.OutcomeNoIsochrones
	default:
		return models.OutcomeGenerated
	}
}
