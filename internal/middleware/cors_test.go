package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	called := false
	h := CORS(NewOrigins([]string{"https://app.test"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/v1/framing", nil)
	req.Header.Set("Origin", "https://app.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || called {
		t.Fatalf("preflight = %d, called = %v", rec.Code, called)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.test" {
		t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/credits", nil)
	req.Header.Set("Origin", "https://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !called || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("foreign origin leaked headers or was blocked")
	}
}

func TestOrigins(t *testing.T) {
	o := NewOrigins([]string{"https://a.test"})
	if !o.Allowed("https://a.test") || o.Allowed("https://b.test") || o.Allowed("") {
		t.Fatal("allow list mismatch")
	}
	if !NewOrigins([]string{"*"}).Allowed("https://anything.test") {
		t.Fatal("wildcard should admit every origin")
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if !o.CheckOrigin(req) {
		t.Fatal("requests without Origin should pass")
	}
	req.Header.Set("Origin", "https://b.test")
	if o.CheckOrigin(req) {
		t.Fatal("foreign origin should be rejected")
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", " abc-123 ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("propagated id = %q / %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", string(make([]byte, 65)))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) != 36 {
		t.Fatalf("oversized id was not replaced: %q", seen)
	}
}
