package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(3, time.Minute)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/levels", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, w.Code)
		}
		if limit := w.Header().Get("X-RateLimit-Limit"); limit != "3" {
			t.Errorf("Request %d: Expected X-RateLimit-Limit '3', got '%s'", i+1, limit)
		}
	}

	req := httptest.NewRequest("POST", "/api/levels", nil)
	req.RemoteAddr = "127.0.0.1:54321"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429, got %d", w.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("rate limit body is not JSON: %v", err)
	}
	if body["error"] != "Rate limit exceeded" {
		t.Errorf("body = %v", body)
	}

	// A different client has its own budget
	req = httptest.NewRequest("POST", "/api/levels", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("second client: Expected status 200, got %d", w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "192.168.1.5:4000", "192.168.1.5"},
		{"forwarded list", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.1:80", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.9"}, "10.0.0.1:80", "198.51.100.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Logger(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/explode", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
