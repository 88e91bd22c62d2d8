package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pandoc-hq/bridge/pkg/apierr"
	"pandoc-hq/bridge/pkg/audit"
	"pandoc-hq/bridge/pkg/convert"
	"pandoc-hq/bridge/pkg/httpapi"
)

// ConvertText handles POST /api/v1/convert/text.
func (h *Handler) ConvertText(w http.ResponseWriter, r *http.Request) {
	var req httpapi.ConvertTextRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" || req.FromFormat == "" || req.ToFormat == "" {
		apierr.Write(w, apierr.NewInvalidRequest("content, from_format and to_format are required"))
		return
	}

	started := time.Now()
	result, err := h.service.ConvertText(r.Context(), req.Content, req.FromFormat, req.ToFormat, options(req.Options))
	h.record(r, audit.OpText, req.FromFormat, req.ToFormat, int64(len(req.Content)), started, err)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, httpapi.ConvertTextResponse{
		Content:     result.EncodedContent(),
		ContentType: result.ContentType,
		IsBinary:    result.IsBinary,
	})
}

// ConvertFile handles POST /api/v1/convert/file. Multipart form fields:
// file (required), to_format (required), from_format (optional). The
// converted document comes back raw as an attachment.
func (h *Handler) ConvertFile(w http.ResponseWriter, r *http.Request) {
	maxSize := h.cfg.Conversion.MaxFileSizeBytes()

	// One extra MiB of headroom for the multipart framing.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		apierr.Write(w, apierr.NewInvalidRequest(fmt.Sprintf("Invalid multipart form: %v", err)))
		return
	}

	toFormat := r.FormValue("to_format")
	if toFormat == "" {
		apierr.Write(w, apierr.NewInvalidRequest("to_format form field is required"))
		return
	}
	fromFormat := r.FormValue("from_format")

	file, header, err := r.FormFile("file")
	if err != nil {
		apierr.Write(w, apierr.NewInvalidRequest("file form field is required"))
		return
	}
	defer file.Close()

	// The declared part size is checked before reading so an oversized
	// upload fails without buffering the whole body.
	if header.Size > maxSize {
		apierr.Write(w, apierr.NewFileSize(header.Size, maxSize))
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		apierr.Write(w, apierr.NewInvalidRequest(fmt.Sprintf("Failed to read upload: %v", err)))
		return
	}
	if int64(len(fileBytes)) > maxSize {
		apierr.Write(w, apierr.NewFileSize(int64(len(fileBytes)), maxSize))
		return
	}

	filename := header.Filename
	if filename == "" {
		filename = "document"
	}

	started := time.Now()
	result, convErr := h.service.ConvertFile(r.Context(), fileBytes, filename, toFormat, fromFormat, convert.DefaultOptions())
	h.record(r, audit.OpFile, resultFrom(result, fromFormat), toFormat, int64(len(fileBytes)), started, convErr)
	if convErr != nil {
		apierr.Write(w, convErr)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", outputFilename(filename, toFormat)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

// ConvertBase64 handles POST /api/v1/convert/base64: a JSON alternative
// to multipart for clients that already hold the file in memory.
func (h *Handler) ConvertBase64(w http.ResponseWriter, r *http.Request) {
	var req httpapi.ConvertBase64Request
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.FileBase64 == "" || req.Filename == "" || req.ToFormat == "" {
		apierr.Write(w, apierr.NewInvalidRequest("file_base64, filename and to_format are required"))
		return
	}

	// Base64 inflates by 4/3, so the decoded size bound maps back to the
	// encoded length.
	maxSize := h.cfg.Conversion.MaxFileSizeBytes()
	if decodedSize := int64(len(req.FileBase64)) / 4 * 3; decodedSize > maxSize {
		apierr.Write(w, apierr.NewFileSize(decodedSize, maxSize))
		return
	}

	started := time.Now()
	result, err := h.service.ConvertFileBase64(r.Context(), req.FileBase64, req.Filename, req.ToFormat, req.FromFormat, options(req.Options))
	h.record(r, audit.OpBase64, resultFrom(result, req.FromFormat), req.ToFormat, int64(len(req.FileBase64)), started, err)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, httpapi.ConvertBase64Response{
		Content:     result.EncodedContent(),
		ContentType: result.ContentType,
		IsBinary:    result.IsBinary,
		FromFormat:  result.FromFormat,
		ToFormat:    result.ToFormat,
	})
}

// resultFrom prefers the resolved source format (after extension
// detection) over whatever the request declared.
func resultFrom(result *convert.Result, requested string) string {
	if result != nil {
		return result.FromFormat
	}
	return requested
}

// outputFilename keeps the upload's base name with the target format as
// extension.
func outputFilename(filename, toFormat string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[:idx] + "." + toFormat
	}
	return "converted." + toFormat
}
