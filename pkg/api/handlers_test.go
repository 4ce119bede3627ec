package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"shiproute/pkg/graph"
	"shiproute/pkg/routing"
)

// testRouter builds a Router over a tiny two-node graph: (0,0) -- 111195m -- (0,1).
func testRouter() *routing.Router {
	g := &graph.Graph{
		NumNodes: 2,
		NumEdges: 2,
		FirstOut: []uint32{0, 1, 2},
		Head:     []uint32{1, 0},
		Weight:   []uint32{111195, 111195},
		NodeLat:  []float64{0, 0},
		NodeLon:  []float64{0, 1},
	}
	return routing.NewRouter(g, routing.Dijkstra)
}

func formRequest(lat1, lon1, lat2, lon2 string) *http.Request {
	form := url.Values{"lat1": {lat1}, "lon1": {lon1}, "lat2": {lat2}, "lon2": {lon2}}
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestHandleRouteSuccess(t *testing.T) {
	h := NewHandlers(testRouter(), StatsResponse{NumNodes: 2})

	req := formRequest("0", "0", "0", "1")
	w := httptest.NewRecorder()
	h.HandleRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp routeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	diff := int(resp.Distance) - 111195
	if diff < -1 || diff > 1 {
		t.Errorf("Distance = %d, want 111195 ± 1", resp.Distance)
	}
	if resp.GeoJSON == nil {
		t.Error("expected a geojson feature")
	}
}

func TestHandleRouteUnreachableReturnsEmptyObject(t *testing.T) {
	g := &graph.Graph{
		NumNodes: 2,
		NumEdges: 0,
		FirstOut: []uint32{0, 0, 0},
		NodeLat:  []float64{0, 10},
		NodeLon:  []float64{0, 10},
	}
	h := NewHandlers(routing.NewRouter(g, routing.Dijkstra), StatsResponse{})

	req := formRequest("0", "0", "10", "10")
	w := httptest.NewRecorder()
	h.HandleRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "{}" {
		t.Errorf("body = %q, want {}", w.Body.String())
	}
}

func TestHandleRouteMissingFields(t *testing.T) {
	h := NewHandlers(testRouter(), StatsResponse{})

	req := formRequest("0", "0", "", "1")
	w := httptest.NewRecorder()
	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRouteInvalidCoordinate(t *testing.T) {
	h := NewHandlers(testRouter(), StatsResponse{})

	req := formRequest("91", "0", "0", "1")
	w := httptest.NewRecorder()
	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(testRouter(), StatsResponse{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	stats := StatsResponse{NumNodes: 500000, NumEdges: 1000000, HasShortcuts: true}
	h := NewHandlers(testRouter(), stats)

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.NumNodes != 500000 {
		t.Errorf("NumNodes = %d, want 500000", resp.NumNodes)
	}
}
