package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/sales-forecast/internal/config"
	"github.com/iwvelando/sales-forecast/internal/forecast"
	"github.com/iwvelando/sales-forecast/pkg/constants"
	"github.com/iwvelando/sales-forecast/pkg/datetime"
	"github.com/iwvelando/sales-forecast/pkg/output"
	"go.uber.org/zap"
)

// Runner is the part of forecast.Runner the API drives.
type Runner interface {
	Refresh(ctx context.Context, r datetime.Range) (*forecast.Result, error)
	RefreshLast(ctx context.Context) (*forecast.Result, error)
	Latest() (*forecast.Result, error)
}

type handler struct {
	logger      *zap.Logger
	runner      Runner
	store       *Store
	location    *time.Location
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the forecast API.
func NewHandler(logger *zap.Logger, runner Runner, store *Store, loc *time.Location, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		runner:      runner,
		store:       store,
		location:    loc,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/version", h.handleVersion).Methods(http.MethodGet)

	api.HandleFunc("/forecast", h.handleForecast).Methods(http.MethodGet)
	api.HandleFunc("/forecast/latest", h.handleLatest).Methods(http.MethodGet)
	api.HandleFunc("/forecast/export", h.handleExport).Methods(http.MethodGet)

	api.HandleFunc("/scenario", h.handleGetScenario).Methods(http.MethodGet)
	api.HandleFunc("/scenario", h.handlePutScenario).Methods(http.MethodPut)
	api.HandleFunc("/scenario/goals/apply-year", h.handleApplyYear).Methods(http.MethodPost)
	api.HandleFunc("/scenario/goals/{key}", h.handleSetGoal).Methods(http.MethodPut)

	return r
}

type forecastResponse struct {
	*forecast.Result
	TrendRows   []output.TrendRow   `json:"trendRows"`
	ProductRows []output.ProductRow `json:"productRows"`
	CSV         string              `json:"csv"`
	Duration    string              `json:"duration,omitempty"`
}

type scenarioResponse struct {
	Scenario config.Scenario  `json:"scenario"`
	Warnings []string         `json:"warnings,omitempty"`
	Forecast *forecast.Result `json:"forecast,omitempty"`
}

type goalRequest struct {
	Value *float64 `json:"value"`
}

type applyYearRequest struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	start := time.Now()

	query := r.URL.Query()
	rng, err := datetime.ParseRange(query.Get("start"), query.Get("end"), h.location)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	result, err := h.runner.Refresh(r.Context(), rng)
	if err != nil {
		h.respondRefreshError(w, err, op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.String("range", rng.String()),
		zap.String("status", string(result.Status)),
		zap.Int("buckets", len(result.Trend)),
		zap.Int("products", len(result.Products)),
		zap.Duration("duration", elapsed),
	)
	h.writeForecast(w, result, elapsed, op)
}

func (h *handler) handleLatest(w http.ResponseWriter, _ *http.Request) {
	const op = "server.handleLatest"
	result, err := h.runner.Latest()
	if err != nil {
		h.respondRefreshError(w, err, op)
		return
	}
	h.writeForecast(w, result, 0, op)
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = constants.OutputFormatCSV
	}
	if format != constants.OutputFormatCSV && format != constants.OutputFormatXLSX {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q: use csv or xlsx", format), op)
		return
	}

	result, err := h.runner.Latest()
	if err != nil {
		h.respondRefreshError(w, err, op)
		return
	}

	var buf bytes.Buffer
	var contentType, filename string
	switch format {
	case constants.OutputFormatXLSX:
		err = output.WriteXLSX(&buf, result)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = constants.DefaultXLSXFile
	default:
		err = output.CsvFormat(&buf, result)
		contentType = "text/csv; charset=utf-8"
		filename = "forecast.csv"
	}
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to export forecast: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write export", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleGetScenario(w http.ResponseWriter, _ *http.Request) {
	scenario := h.store.Scenario()
	h.writeJSON(w, http.StatusOK, scenarioResponse{Scenario: scenario, Warnings: scenario.Validate()})
}

func (h *handler) handlePutScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePutScenario"

	var scenario config.Scenario
	if !h.decodeBody(w, r, &scenario, op) {
		return
	}

	warnings := h.store.Replace(scenario)
	h.logger.Info("scenario replaced",
		zap.String("op", op),
		zap.String("scenario", scenario.Name),
		zap.Int("warnings", len(warnings)),
	)
	h.respondScenario(w, r, h.store.Scenario(), warnings, op)
}

func (h *handler) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetGoal"
	key := mux.Vars(r)["key"]

	var req goalRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if req.Value == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing goal value", op)
		return
	}

	scenario, err := h.store.SetGoal(key, *req.Value)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.respondScenario(w, r, scenario, scenario.Validate(), op)
}

func (h *handler) handleApplyYear(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleApplyYear"

	var req applyYearRequest
	if !h.decodeBody(w, r, &req, op) {
		return
	}
	if req.Value == nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing goal value", op)
		return
	}
	if req.Year < 1 || req.Year > 9999 {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid year %d", req.Year), op)
		return
	}

	scenario := h.store.ApplyGoalToYear(req.Year, *req.Value)
	h.respondScenario(w, r, scenario, scenario.Validate(), op)
}

// respondScenario recomputes the last forecast with the edited scenario and
// returns both.
func (h *handler) respondScenario(w http.ResponseWriter, r *http.Request, scenario config.Scenario, warnings []string, op string) {
	resp := scenarioResponse{Scenario: scenario, Warnings: warnings}

	result, err := h.runner.RefreshLast(r.Context())
	switch {
	case err == nil:
		resp.Forecast = result
	case errors.Is(err, forecast.ErrNoResult), errors.Is(err, forecast.ErrStaleResult):
	default:
		h.logger.Warn("failed to refresh forecast after scenario change",
			zap.String("op", op),
			zap.Error(err),
		)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) writeForecast(w http.ResponseWriter, result *forecast.Result, elapsed time.Duration, op string) {
	csv, err := output.CsvString(result)
	if err != nil {
		h.logger.Warn("failed to render csv", zap.String("op", op), zap.Error(err))
	}

	resp := forecastResponse{
		Result:      result,
		TrendRows:   output.TrendRows(result),
		ProductRows: output.ProductRows(result),
		CSV:         csv,
	}
	if elapsed > 0 {
		resp.Duration = elapsed.String()
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) respondRefreshError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, forecast.ErrStaleResult):
		h.respondErrorWithOp(w, http.StatusConflict, err.Error(), op)
	case errors.Is(err, forecast.ErrNoResult):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, datetime.ErrInvalidRange):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute forecast: %v", err), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("forecast request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
