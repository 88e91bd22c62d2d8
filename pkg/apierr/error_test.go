package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantCode   string
		wantStatus int
	}{
		{"authentication", NewAuthentication(""), CodeUnauthorized, http.StatusUnauthorized},
		{"authorization", NewAuthorization("missing scope", []string{"convert:text"}), CodeForbidden, http.StatusForbidden},
		{"format", NewFormatNotSupported("wingdings", "input", nil), CodeFormatNotSupported, http.StatusBadRequest},
		{"conversion", NewConversion("engine failed", "markdown", "pdf", "boom"), CodeConversionFailed, http.StatusUnprocessableEntity},
		{"timeout", NewTimeout(60), CodeTimeout, http.StatusGatewayTimeout},
		{"file size", NewFileSize(100, 50), CodeFileTooLarge, http.StatusRequestEntityTooLarge},
		{"rate limited", NewRateLimited(60), CodeRateLimited, http.StatusTooManyRequests},
		{"internal", NewInternal(), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
		})
	}
}

func TestNewAuthenticationDefaultMessage(t *testing.T) {
	err := NewAuthentication("")
	if err.Message != "Invalid or missing authentication token" {
		t.Errorf("unexpected default message: %q", err.Message)
	}

	err = NewAuthentication("API key expired on 2024-01-01")
	if err.Message != "API key expired on 2024-01-01" {
		t.Errorf("custom message not preserved: %q", err.Message)
	}
}

func TestFormatNotSupportedDetails(t *testing.T) {
	err := NewFormatNotSupported("wingdings", "input", []string{"markdown", "html"})

	if err.Details["format"] != "wingdings" {
		t.Errorf("details.format = %v, want wingdings", err.Details["format"])
	}
	if err.Details["format_type"] != "input" {
		t.Errorf("details.format_type = %v, want input", err.Details["format_type"])
	}
	supported, ok := err.Details["supported_formats"].([]string)
	if !ok || len(supported) != 2 {
		t.Errorf("details.supported_formats = %v, want two entries", err.Details["supported_formats"])
	}
}

func TestConversionDetailsOmitEmpty(t *testing.T) {
	err := NewConversion("bad base64", "", "", "")
	if len(err.Details) != 0 {
		t.Errorf("expected empty details, got %v", err.Details)
	}

	err = NewConversion("engine failed", "markdown", "pdf", "pandoc: unknown option")
	if err.Details["pandoc_error"] != "pandoc: unknown option" {
		t.Errorf("details.pandoc_error = %v", err.Details["pandoc_error"])
	}
}

func TestFrom(t *testing.T) {
	typed := NewTimeout(30)
	if got := From(typed); got != typed {
		t.Errorf("From should pass typed errors through unchanged")
	}

	wrapped := fmt.Errorf("handler: %w", typed)
	if got := From(wrapped); got != typed {
		t.Errorf("From should unwrap to the typed error")
	}

	got := From(errors.New("disk on fire"))
	if got.Code != CodeInternal {
		t.Errorf("unknown errors must map to %s, got %s", CodeInternal, got.Code)
	}
	if got.Message == "disk on fire" {
		t.Error("internal diagnostics must not leak into the client message")
	}
}
