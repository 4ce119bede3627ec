package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"shiproute/pkg/routing"
)

// Handlers holds the HTTP handlers and their dependencies. The core of this
// system is pkg/routing; this package is the thin, non-core adapter spec §6
// calls out as "external collaborator, summarized for completeness".
type Handlers struct {
	router *routing.Router
	stats  StatsResponse
}

// NewHandlers creates handlers with the given router.
func NewHandlers(router *routing.Router, stats StatsResponse) *Handlers {
	return &Handlers{router: router, stats: stats}
}

// routeResponse is the JSON response for POST /api/v1/route (spec §6):
// `{ geojson: <LineString feature>, distance: <meters> }`, or `{}` if
// unreachable.
type routeResponse struct {
	GeoJSON  *geojson.Feature `json:"geojson,omitempty"`
	Distance uint32           `json:"distance,omitempty"`
}

// HandleRoute handles POST with form fields lat1, lon1, lat2, lon2 (spec §6).
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	lat1, err1 := strconv.ParseFloat(r.FormValue("lat1"), 64)
	lon1, err2 := strconv.ParseFloat(r.FormValue("lon1"), 64)
	lat2, err3 := strconv.ParseFloat(r.FormValue("lat2"), 64)
	lon2, err4 := strconv.ParseFloat(r.FormValue("lon2"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	result, err := h.router.Query(r.Context(), lat1, lon1, lat2, lon2)
	if err != nil {
		if errors.Is(err, routing.ErrInvalidCoordinate) {
			writeError(w, http.StatusBadRequest, "invalid_coordinates")
			return
		}
		if errors.Is(err, routing.ErrDeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	if !result.Reachable {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
		return
	}

	line := make(orb.LineString, len(result.Polyline))
	for i, p := range result.Polyline {
		line[i] = orb.Point{p.Lon, p.Lat}
	}
	feature := geojson.NewFeature(line)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(routeResponse{GeoJSON: feature, Distance: result.DistanceM})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code})
}
