package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/api/controllers"
	"github.com/wahiba-atelier/atelier-backend/api/middleware"
	"github.com/wahiba-atelier/atelier-backend/internal/cart"
	"github.com/wahiba-atelier/atelier-backend/internal/schedules"
	pkgAuth "github.com/wahiba-atelier/atelier-backend/pkg/auth"
	"github.com/wahiba-atelier/atelier-backend/pkg/config"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubCart struct {
	sessions []string
}

func (s *stubCart) Get(_ context.Context, session string) (*cart.View, error) {
	s.sessions = append(s.sessions, session)
	return &cart.View{Items: []cart.Line{}, Total: decimal.Zero}, nil
}

func (s *stubCart) Add(context.Context, string, cart.Selection) (*cart.View, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCart) Remove(context.Context, string, cart.Key) (*cart.View, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCart) Clear(context.Context, string) (*cart.View, error) {
	return nil, errors.New("not implemented")
}

type stubSchedules struct {
	listed int
}

func (s *stubSchedules) Submit(context.Context, schedules.SubmitInput) (*schedules.ScheduleDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSchedules) List(context.Context, schedules.ListParams) (*schedules.ListResult, error) {
	s.listed++
	return &schedules.ListResult{Items: []schedules.ScheduleDTO{}}, nil
}

func (s *stubSchedules) Get(context.Context, uuid.UUID) (*schedules.ScheduleDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSchedules) UpdateStatus(context.Context, schedules.StatusInput) (*schedules.ScheduleDTO, error) {
	return nil, errors.New("not implemented")
}

func (s *stubSchedules) Delete(context.Context, uuid.UUID, *outbox.ActorRef) error {
	return errors.New("not implemented")
}

type recordingObserver struct {
	routes []string
}

func (o *recordingObserver) ObserveRequest(_ string, route string, _ int, _ time.Duration) {
	o.routes = append(o.routes, route)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		Auth: config.AuthConfig{
			JWTSecret: "router-secret",
			Issuer:    "wahiba-test",
			AdminRole: "admin",
			ClockSkew: time.Second,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Idempotency: config.IdempotencyConfig{
			CheckoutTTL: time.Hour,
			ContactTTL:  time.Hour,
		},
	}
}

type fixture struct {
	cfg       *config.Config
	cart      *stubCart
	schedules *stubSchedules
	dlq       *stubDeadLetters
	observer  *recordingObserver
	handler   http.Handler
}

type stubDeadLetters struct{ calls int }

func (s *stubDeadLetters) List(context.Context, outbox.DLQFilter) ([]models.OutboxDLQ, error) {
	s.calls++
	return []models.OutboxDLQ{}, nil
}

func newFixture(t *testing.T, health map[string]controllers.Pinger) *fixture {
	t.Helper()
	f := &fixture{
		cfg:       testConfig(),
		cart:      &stubCart{},
		schedules: &stubSchedules{},
		dlq:       &stubDeadLetters{},
		observer:  &recordingObserver{},
	}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	f.handler = NewRouter(f.cfg, logg, Infra{
		Health:   health,
		Metrics:  prometheus.NewRegistry(),
		Observer: f.observer,
	}, Services{
		Cart:        f.cart,
		Schedules:   f.schedules,
		DeadLetters: f.dlq,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) adminHeader(t *testing.T, role string) http.Header {
	t.Helper()
	token, err := pkgAuth.MintAdminToken(f.cfg.Auth, time.Now(), uuid.NewString(), role, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestHealthLive(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Wahiba-Env"); got != "test" {
		t.Fatalf("expected env header test, got %q", got)
	}
	if got := rec.Header().Get("X-Request-Id"); got == "" {
		t.Fatal("expected request id header")
	}
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	f := newFixture(t, map[string]controllers.Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: errors.New("connection refused")},
	})
	rec := f.do(t, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCartRoutesCarrySession(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/cart", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	minted := rec.Header().Get(middleware.CartSessionHeader)
	if _, err := uuid.Parse(minted); err != nil {
		t.Fatalf("expected minted session uuid, got %q", minted)
	}

	session := uuid.NewString()
	rec = f.do(t, http.MethodGet, "/api/cart", http.Header{middleware.CartSessionHeader: []string{session}})
	if got := rec.Header().Get(middleware.CartSessionHeader); got != session {
		t.Fatalf("expected session %s echoed, got %q", session, got)
	}
	if len(f.cart.sessions) != 2 || f.cart.sessions[1] != session {
		t.Fatalf("unexpected sessions seen by cart: %v", f.cart.sessions)
	}
	if len(f.observer.routes) == 0 || !strings.HasPrefix(f.observer.routes[len(f.observer.routes)-1], "/api/cart") {
		t.Fatalf("expected observed route pattern under /api/cart, got %v", f.observer.routes)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/admin/schedules", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/admin/schedules", f.adminHeader(t, "editor"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin role, got %d", rec.Code)
	}
	if f.schedules.listed != 0 {
		t.Fatal("schedules must not be listed without the admin role")
	}

	rec = f.do(t, http.MethodGet, "/api/admin/schedules", f.adminHeader(t, "ADMIN"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data schedules.ListResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.schedules.listed != 1 {
		t.Fatalf("expected one list call, got %d", f.schedules.listed)
	}
}

func TestPublicRoutesSkipSession(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/health/live", nil)
	if got := rec.Header().Get(middleware.CartSessionHeader); got != "" {
		t.Fatalf("health must not mint a cart session, got %q", got)
	}
	rec = f.do(t, http.MethodGet, "/api/unknown", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeadLetterRouteIsAdminOnly(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/admin/outbox/dead-letters", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec = f.do(t, http.MethodGet, "/api/admin/outbox/dead-letters", f.adminHeader(t, "admin"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.dlq.calls != 1 {
		t.Fatalf("expected one listing, got %d", f.dlq.calls)
	}
}
