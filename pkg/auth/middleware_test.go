package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// countingMetrics records auth failure kinds for assertions.
type countingMetrics struct {
	kinds []string
}

func (m *countingMetrics) RecordAuthFailure(kind string) {
	m.kinds = append(m.kinds, kind)
}

func newTestAuthenticator(metrics FailureCounter) *Authenticator {
	verifier := NewStaticKeyVerifier([]KeyEntry{
		{Key: "full-access"},
		{Key: "text-only", Scopes: []string{ScopeConvertText}},
	})
	return NewAuthenticator(verifier, nil, metrics)
}

func TestRequireAuth(t *testing.T) {
	authn := newTestAuthenticator(nil)

	var gotPrincipal *Principal
	handler := authn.RequireAuth(ScopeConvertFile, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal, _ = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "admin key passes any scope",
			authHeader: "Bearer full-access",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "unknown key",
			authHeader: "Bearer bogus",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
		},
		{
			name:       "insufficient scope",
			authHeader: "Bearer text-only",
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotPrincipal = nil
			req := httptest.NewRequest(http.MethodPost, "/convert/file", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantCode != "" {
				var body struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("failed to decode error body: %v", err)
				}
				if body.Error.Code != tt.wantCode {
					t.Errorf("error code = %q, want %q", body.Error.Code, tt.wantCode)
				}
				if gotPrincipal != nil {
					t.Error("handler ran despite auth failure")
				}
				return
			}

			if gotPrincipal == nil {
				t.Fatal("principal missing from request context")
			}
			if gotPrincipal.Subject != RedactKey("full-access") {
				t.Errorf("Subject = %q, want redacted key", gotPrincipal.Subject)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	authn := newTestAuthenticator(nil)

	var sawPrincipal bool
	handler := authn.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawPrincipal = GetPrincipal(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No credential: anonymous pass-through.
	req := httptest.NewRequest(http.MethodGet, "/formats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("anonymous status = %d, want %d", rec.Code, http.StatusOK)
	}
	if sawPrincipal {
		t.Error("anonymous request carried a principal")
	}

	// Valid credential: principal attached.
	req = httptest.NewRequest(http.MethodGet, "/formats", nil)
	req.Header.Set("Authorization", "Bearer text-only")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !sawPrincipal {
		t.Error("authenticated request missing principal")
	}

	// Invalid credential: served anonymously, never rejected.
	req = httptest.NewRequest(http.MethodGet, "/formats", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("invalid credential status = %d, want %d", rec.Code, http.StatusOK)
	}
	if sawPrincipal {
		t.Error("invalid credential produced a principal")
	}
}

func TestRequireAuthRecordsFailures(t *testing.T) {
	metrics := &countingMetrics{}
	authn := newTestAuthenticator(metrics)
	handler := authn.RequireAuth(ScopeConvertFile, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(authHeader string) {
		req := httptest.NewRequest(http.MethodPost, "/convert/file", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	send("Bearer bogus")       // unauthorized
	send("Bearer text-only")   // forbidden (lacks convert:file)
	send("Bearer full-access") // accepted, no failure recorded

	want := []string{"unauthorized", "forbidden"}
	if len(metrics.kinds) != len(want) {
		t.Fatalf("recorded %v, want %v", metrics.kinds, want)
	}
	for i, kind := range want {
		if metrics.kinds[i] != kind {
			t.Errorf("kinds[%d] = %q, want %q", i, metrics.kinds[i], kind)
		}
	}
}
