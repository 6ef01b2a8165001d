package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/thurmanmarka/dstglide"
	"github.com/thurmanmarka/dstglide/internal/places"
	"github.com/thurmanmarka/dstglide/internal/render"
	"github.com/thurmanmarka/dstglide/internal/timegrid"
)

// Route variables.
const (
	PlaceVar = "place"
	YearVar  = "year"
)

// PlaceResponse is one entry of GET /v1/places.
type PlaceResponse struct {
	Name     string  `json:"name"`
	State    string  `json:"state,omitempty"`
	Slug     string  `json:"slug"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	TimeZone string  `json:"timezone"`
}

// DaylightHandler serves the daylight API.
type DaylightHandler struct {
	matrices *Matrices
	chart    render.ChartOptions
	logger   *slog.Logger
}

// NewDaylightHandler returns a handler backed by matrices.
func NewDaylightHandler(matrices *Matrices, chart render.ChartOptions, logger *slog.Logger) *DaylightHandler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DaylightHandler{matrices: matrices, chart: chart, logger: logger}
}

// Ping answers health checks.
func (h *DaylightHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

// ListPlaces returns every known place.
func (h *DaylightHandler) ListPlaces(w http.ResponseWriter, _ *http.Request) {
	all := h.matrices.Places().All()
	out := make([]PlaceResponse, 0, len(all))
	for _, p := range all {
		out = append(out, PlaceResponse{
			Name:     p.Name,
			State:    p.State,
			Slug:     places.Slug(p.Name),
			Lat:      p.Lat,
			Lon:      p.Lon,
			TimeZone: p.TimeZone,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// Daylight returns the yearly summary with per-day counts.
func (h *DaylightHandler) Daylight(w http.ResponseWriter, r *http.Request) {
	m, ok := h.matrix(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, render.Summarize(m, true))
}

// Heatmap returns the HTML heat-map page.
func (h *DaylightHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	m, ok := h.matrix(w, r)
	if !ok {
		return
	}
	page, err := render.HeatmapPage(m, h.chart)
	if err != nil {
		h.logger.Error("building heat-map", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := page.Render(w); err != nil {
		h.logger.Error("rendering heat-map", "error", err)
	}
}

func (h *DaylightHandler) matrix(w http.ResponseWriter, r *http.Request) (*dstglide.Matrix, bool) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars[YearVar])
	if err != nil || year < 1 || year > 9998 {
		h.writeError(w, http.StatusBadRequest, "invalid year "+strconv.Quote(vars[YearVar]))
		return nil, false
	}

	m, err := h.matrices.Get(r.Context(), vars[PlaceVar], year)
	switch {
	case err == nil:
		return m, true
	case errors.Is(err, places.ErrUnknownPlace):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, timegrid.ErrInvalidYear):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("daylight matrix", "place", vars[PlaceVar], "year", year, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
	return nil, false
}

func (h *DaylightHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

func (h *DaylightHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
