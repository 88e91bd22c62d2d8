package handlers

import (
	"net/http"
	"time"

	"pandoc-hq/bridge/pkg/apierr"
	"pandoc-hq/bridge/pkg/audit"
	"pandoc-hq/bridge/pkg/convert"
	"pandoc-hq/bridge/pkg/httpapi"
)

// ConvertStream handles POST /api/v1/convert/stream: progress events
// over SSE ending in exactly one terminal event, complete or error.
func (h *Handler) ConvertStream(w http.ResponseWriter, r *http.Request) {
	var req httpapi.ConvertStreamRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" || req.FromFormat == "" || req.ToFormat == "" {
		apierr.Write(w, apierr.NewInvalidRequest("content, from_format and to_format are required"))
		return
	}

	sse, err := httpapi.NewSSEWriter(w)
	if err != nil {
		apierr.Write(w, apierr.NewInternal())
		return
	}

	sendError := func(convErr error) {
		_ = sse.Send("error", map[string]any{"message": apierr.From(convErr).Message})
	}

	if err := sse.Send("progress", map[string]any{"stage": "starting", "progress": 0}); err != nil {
		return
	}

	if err := sse.Send("progress", map[string]any{"stage": "converting", "progress": 50}); err != nil {
		return
	}

	started := time.Now()
	result, convErr := h.service.ConvertText(r.Context(), req.Content, req.FromFormat, req.ToFormat, convert.DefaultOptions())
	h.record(r, audit.OpStream, req.FromFormat, req.ToFormat, int64(len(req.Content)), started, convErr)
	if convErr != nil {
		sendError(convErr)
		return
	}

	if err := sse.Send("progress", map[string]any{"stage": "finalizing", "progress": 90}); err != nil {
		return
	}

	_ = sse.Send("complete", map[string]any{
		"content":      result.EncodedContent(),
		"content_type": result.ContentType,
		"is_binary":    result.IsBinary,
	})
}
