package api

// ErrorResponse is the JSON body of every error response: malformed form
// fields, invalid coordinates, a query timeout, or an internal error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatsResponse is the JSON response for GET /api/v1/stats: node/edge/
// shortcut counts of the currently loaded graph (spec.md's HTTP surface is
// "external collaborator, summarized for completeness" — this endpoint isn't
// named by spec.md but mirrors the teacher's own read-only stats surface).
type StatsResponse struct {
	NumNodes     uint32 `json:"num_nodes"`
	NumEdges     uint32 `json:"num_edges"`
	HasShortcuts bool   `json:"has_shortcuts"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
