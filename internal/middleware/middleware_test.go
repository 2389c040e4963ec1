package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-reels/internal/platform/logger"
)

func TestClientContext(t *testing.T) {
	var got string
	var ok bool
	h := ClientContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ClientID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ClientHeader, "  abc  ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !ok || got != "abc" {
		t.Fatalf("expected client id abc, got %q ok=%v", got, ok)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if ok {
		t.Fatalf("expected no client id without header")
	}
}

func TestRequestLog_ErrorsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Error, Output: &buf})

	h := RequestLog(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			http.Error(w, "x", http.StatusInternalServerError)
		}
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	if buf.Len() != 0 {
		t.Fatalf("2xx should log at debug, got %q", buf.String())
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	if !strings.Contains(buf.String(), "status=500") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}
