package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pandoc-hq/bridge/pkg/apierr"
	"pandoc-hq/bridge/pkg/audit"
	"pandoc-hq/bridge/pkg/auth"
	"pandoc-hq/bridge/pkg/config"
	"pandoc-hq/bridge/pkg/convert"
	"pandoc-hq/bridge/pkg/httpapi/middleware"
	"pandoc-hq/bridge/pkg/telemetry/metrics"
)

// Handler serves the REST endpoints. Recorder and Collector are optional;
// a nil value disables that concern.
type Handler struct {
	cfg       *config.Config
	service   *convert.Service
	authn     *auth.Authenticator
	recorder  *audit.Recorder
	collector *metrics.Collector
	logger    *slog.Logger
	version   string
}

// New creates the endpoint handler set.
func New(cfg *config.Config, service *convert.Service, authn *auth.Authenticator, recorder *audit.Recorder, collector *metrics.Collector, logger *slog.Logger, version string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:       cfg,
		service:   service,
		authn:     authn,
		recorder:  recorder,
		collector: collector,
		logger:    logger,
		version:   version,
	}
}

// Register mounts every route on the mux, wrapping each with its auth
// requirement.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.ServiceInfo)
	mux.HandleFunc("GET /health", h.Health)

	mux.Handle("GET /api/v1/formats", h.authn.OptionalAuth(http.HandlerFunc(h.Formats)))
	mux.Handle("GET /api/v1/formats/matrix", h.authn.OptionalAuth(http.HandlerFunc(h.FormatMatrix)))

	mux.Handle("POST /api/v1/convert/text",
		h.authn.RequireAuth(auth.ScopeConvertText, http.HandlerFunc(h.ConvertText)))
	mux.Handle("POST /api/v1/convert/file",
		h.authn.RequireAuth(auth.ScopeConvertFile, http.HandlerFunc(h.ConvertFile)))
	mux.Handle("POST /api/v1/convert/base64",
		h.authn.RequireAuth(auth.ScopeConvertFile, http.HandlerFunc(h.ConvertBase64)))
	mux.Handle("POST /api/v1/convert/batch",
		h.authn.RequireAuth(auth.ScopeConvertText, http.HandlerFunc(h.ConvertBatch)))
	mux.Handle("POST /api/v1/convert/stream",
		h.authn.RequireAuth(auth.ScopeConvertText, http.HandlerFunc(h.ConvertStream)))
}

// decodeJSON parses the request body into v, writing an INVALID_REQUEST
// response and returning false on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		apierr.Write(w, apierr.NewInvalidRequest(fmt.Sprintf("Invalid JSON body: %v", err)))
		return false
	}
	return true
}

// options resolves request options, applying defaults when absent.
func options(o *convert.Options) convert.Options {
	if o == nil {
		return convert.DefaultOptions()
	}
	return *o
}

// record writes one audit record and the conversion metrics for a
// finished conversion attempt.
func (h *Handler) record(r *http.Request, operation, fromFormat, toFormat string, inputBytes int64, started time.Time, convErr error) {
	duration := time.Since(started)

	status := audit.StatusOK
	errorCode := ""
	if convErr != nil {
		status = audit.StatusError
		errorCode = apierr.From(convErr).Code
	}

	if h.collector != nil {
		h.collector.RecordConversion(fromFormat, toFormat, status, duration)
	}

	if h.recorder != nil {
		subject := ""
		if p, ok := auth.GetPrincipal(r.Context()); ok {
			subject = p.Subject
		}
		h.recorder.Record(&audit.Record{
			TraceID:    middleware.TraceID(r.Context()),
			Subject:    subject,
			Operation:  operation,
			FromFormat: fromFormat,
			ToFormat:   toFormat,
			InputBytes: inputBytes,
			DurationMs: duration.Milliseconds(),
			Status:     status,
			ErrorCode:  errorCode,
		})
	}
}
