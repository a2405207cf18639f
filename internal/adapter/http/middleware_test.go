package adapthttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOwnerMiddleware(t *testing.T) {
	s := &Server{}
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ownerID(r)
	})
	h := s.ownerMiddleware(next)

	req := httptest.NewRequest(http.MethodGet, "/habits", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/habits", nil)
	req.Header.Set("X-User-ID", "alice")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with header, got %d", w.Code)
	}
	if seen != "alice" {
		t.Errorf("expected owner alice in context, got %q", seen)
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	rec.WriteHeader(http.StatusTeapot)
	if rec.status != http.StatusTeapot {
		t.Errorf("expected recorded status %d, got %d", http.StatusTeapot, rec.status)
	}
}

func TestWithNoCache(t *testing.T) {
	h := withNoCache(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("expected no-store, got %q", got)
	}
}
