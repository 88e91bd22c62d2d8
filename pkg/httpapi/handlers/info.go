package handlers

import (
	"net/http"
	"time"

	"pandoc-hq/bridge/pkg/httpapi"
)

// ServiceInfo handles GET /.
func (h *Handler) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, httpapi.ServiceInfo{
		Name:    "pandoc-bridge",
		Version: h.version,
		Endpoints: map[string]string{
			"health":         "/health",
			"metrics":        h.cfg.Telemetry.Metrics.Path,
			"formats":        "/api/v1/formats",
			"format_matrix":  "/api/v1/formats/matrix",
			"convert_text":   "/api/v1/convert/text",
			"convert_file":   "/api/v1/convert/file",
			"convert_base64": "/api/v1/convert/base64",
			"convert_batch":  "/api/v1/convert/batch",
			"convert_stream": "/api/v1/convert/stream",
		},
	})
}

// Health handles GET /health. The engine version doubles as a liveness
// probe of the pandoc installation.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, httpapi.HealthCheck{
		Status:        "healthy",
		PandocVersion: h.service.EngineVersion(r.Context()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// Formats handles GET /api/v1/formats. Public, auth optional.
func (h *Handler) Formats(w http.ResponseWriter, r *http.Request) {
	formats := h.service.Formats(r.Context())
	httpapi.WriteJSON(w, http.StatusOK, httpapi.FormatListResponse{
		Input:  formats.Input,
		Output: formats.Output,
	})
}

// FormatMatrix handles GET /api/v1/formats/matrix.
func (h *Handler) FormatMatrix(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, h.service.Matrix(r.Context()))
}
