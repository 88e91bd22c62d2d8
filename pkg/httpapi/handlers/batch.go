package handlers

import (
	"fmt"
	"net/http"
	"time"

	"pandoc-hq/bridge/pkg/apierr"
	"pandoc-hq/bridge/pkg/audit"
	"pandoc-hq/bridge/pkg/httpapi"
)

// ConvertBatch handles POST /api/v1/convert/batch. Items run
// sequentially and independently: one failure marks that item and moves
// on.
func (h *Handler) ConvertBatch(w http.ResponseWriter, r *http.Request) {
	var req httpapi.BatchRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) == 0 {
		apierr.Write(w, apierr.NewInvalidRequest("items must contain at least one conversion"))
		return
	}
	if len(req.Items) > httpapi.MaxBatchItems {
		apierr.Write(w, apierr.NewInvalidRequest(
			fmt.Sprintf("items exceeds the batch limit of %d", httpapi.MaxBatchItems)))
		return
	}

	resp := httpapi.BatchResponse{Results: make([]httpapi.BatchItemResult, 0, len(req.Items))}
	for i, item := range req.Items {
		itemResult := httpapi.BatchItemResult{Index: i}

		started := time.Now()
		result, err := h.service.ConvertText(r.Context(), item.Content, item.FromFormat, item.ToFormat, options(item.Options))
		h.record(r, audit.OpBatch, item.FromFormat, item.ToFormat, int64(len(item.Content)), started, err)

		if err != nil {
			apiErr := apierr.From(err)
			itemResult.Error = &httpapi.BatchItemError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			}
			resp.Failed++
		} else {
			itemResult.Success = true
			itemResult.Result = &httpapi.ConvertTextResponse{
				Content:     result.EncodedContent(),
				ContentType: result.ContentType,
				IsBinary:    result.IsBinary,
			}
			resp.Succeeded++
		}

		resp.Results = append(resp.Results, itemResult)
	}

	httpapi.WriteJSON(w, http.StatusOK, resp)
}
