package httpapi

import "pandoc-hq/bridge/pkg/convert"

// ServiceInfo is the GET / response.
type ServiceInfo struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthCheck is the GET /health response.
type HealthCheck struct {
	Status        string `json:"status"`
	PandocVersion string `json:"pandoc_version"`
	Timestamp     string `json:"timestamp"`
}

// ConvertTextRequest is the POST /api/v1/convert/text request body.
type ConvertTextRequest struct {
	Content    string           `json:"content"`
	FromFormat string           `json:"from_format"`
	ToFormat   string           `json:"to_format"`
	Options    *convert.Options `json:"options,omitempty"`
}

// ConvertTextResponse carries converted content: UTF-8 text, or base64
// when IsBinary is set.
type ConvertTextResponse struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	IsBinary    bool   `json:"is_binary"`
}

// ConvertBase64Request is the POST /api/v1/convert/base64 request body.
type ConvertBase64Request struct {
	FileBase64 string           `json:"file_base64"`
	Filename   string           `json:"filename"`
	ToFormat   string           `json:"to_format"`
	FromFormat string           `json:"from_format,omitempty"`
	Options    *convert.Options `json:"options,omitempty"`
}

// ConvertBase64Response always base64-encodes the output, text or not.
type ConvertBase64Response struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	IsBinary    bool   `json:"is_binary"`
	FromFormat  string `json:"from_format"`
	ToFormat    string `json:"to_format"`
}

// BatchRequest is the POST /api/v1/convert/batch request body.
type BatchRequest struct {
	Items []ConvertTextRequest `json:"items"`
}

// MaxBatchItems caps a single batch request.
const MaxBatchItems = 20

// BatchItemResult is one item's outcome. Success mirrors which of Result
// and Error is set; a failed item never aborts its siblings.
type BatchItemResult struct {
	Index   int                  `json:"index"`
	Success bool                 `json:"success"`
	Result  *ConvertTextResponse `json:"result,omitempty"`
	Error   *BatchItemError      `json:"error,omitempty"`
}

// BatchItemError mirrors the top-level error shape, inline per item.
type BatchItemError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// BatchResponse is the batch endpoint's response body.
type BatchResponse struct {
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// ConvertStreamRequest is the POST /api/v1/convert/stream request body.
type ConvertStreamRequest struct {
	Content    string `json:"content"`
	FromFormat string `json:"from_format"`
	ToFormat   string `json:"to_format"`
}

// FormatListResponse is the GET /api/v1/formats response.
type FormatListResponse struct {
	Input  []string `json:"input"`
	Output []string `json:"output"`
}
