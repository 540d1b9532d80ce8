package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCartSessionKeepsValidHeader(t *testing.T) {
	session := uuid.NewString()
	var seen string
	handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(CartSessionHeader, session)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen != session {
		t.Fatalf("expected session %s in context, got %s", session, seen)
	}
	if resp.Header().Get(CartSessionHeader) != session {
		t.Fatalf("expected session echoed, got %q", resp.Header().Get(CartSessionHeader))
	}
}

func TestCartSessionMintsWhenMissingOrMalformed(t *testing.T) {
	for _, header := range []string{"", "not-a-session"} {
		var seen string
		handler := CartSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = CartSessionFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		if header != "" {
			req.Header.Set(CartSessionHeader, header)
		}
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)

		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("header %q: expected generated session, got %q", header, seen)
		}
		if resp.Header().Get(CartSessionHeader) != seen {
			t.Fatalf("header %q: generated session not echoed", header)
		}
	}
}

type observed struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	calls []observed
}

func (r *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	r.calls = append(r.calls, observed{method: method, route: route, status: status})
}

func TestLoggingObservesStatus(t *testing.T) {
	obs := &recordingObserver{}
	handler := Logging(nil, obs)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := requestWithPattern(http.MethodGet, "/api/dresses/1", "/api/dresses/{id}", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if len(obs.calls) != 1 {
		t.Fatalf("expected one observation, got %d", len(obs.calls))
	}
	got := obs.calls[0]
	if got.route != "/api/dresses/{id}" || got.status != http.StatusTeapot || got.method != http.MethodGet {
		t.Fatalf("unexpected observation %+v", got)
	}
}

func TestRecovererAnswersInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
