package controllers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/api/middleware"
	"github.com/wahiba-atelier/atelier-backend/internal/revenues"
	"github.com/wahiba-atelier/atelier-backend/internal/schedules"
	"github.com/wahiba-atelier/atelier-backend/internal/siteimages"
	"github.com/wahiba-atelier/atelier-backend/pkg/config"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox"
	"github.com/wahiba-atelier/atelier-backend/pkg/pagination"
)

type stubScheduleService struct {
	listed      schedules.ListParams
	status      schedules.StatusInput
	deleteActor *outbox.ActorRef
	statusErr   error
}

func (s *stubScheduleService) Submit(context.Context, schedules.SubmitInput) (*schedules.ScheduleDTO, error) {
	panic("unimplemented")
}

func (s *stubScheduleService) List(_ context.Context, params schedules.ListParams) (*schedules.ListResult, error) {
	s.listed = params
	return &schedules.ListResult{Items: []schedules.ScheduleDTO{}}, nil
}

func (s *stubScheduleService) Get(_ context.Context, id uuid.UUID) (*schedules.ScheduleDTO, error) {
	return &schedules.ScheduleDTO{ID: id}, nil
}

func (s *stubScheduleService) UpdateStatus(_ context.Context, input schedules.StatusInput) (*schedules.ScheduleDTO, error) {
	s.status = input
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &schedules.ScheduleDTO{ID: input.ID, Status: enums.ScheduleStatusConfirmed}, nil
}

func (s *stubScheduleService) Delete(_ context.Context, _ uuid.UUID, actor *outbox.ActorRef) error {
	s.deleteActor = actor
	return nil
}

func adminCtx() context.Context {
	ctx := middleware.WithAdminID(context.Background(), "admin-7")
	return middleware.WithRole(ctx, "admin")
}

func TestAdminListSchedulesPassesFilters(t *testing.T) {
	stub := &stubScheduleService{}
	req := newRequest(adminCtx(), http.MethodGet, "/api/admin/schedules?status=pending&tryOnMonth=2025-06&limit=10&cursor=abc", "")
	rec := serve(AdminListSchedules(stub, testLogger()), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := schedules.ListParams{Params: pagination.Params{Limit: 10, Cursor: "abc"}, Status: "pending", TryOnMonth: "2025-06"}
	if stub.listed != want {
		t.Fatalf("expected %+v, got %+v", want, stub.listed)
	}

	rec = serve(AdminListSchedules(stub, testLogger()), newRequest(adminCtx(), http.MethodGet, "/api/admin/schedules?limit=0", ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit out of range, got %d", rec.Code)
	}
}

func TestAdminUpdateScheduleStatusCarriesActor(t *testing.T) {
	stub := &stubScheduleService{}
	id := uuid.New()
	rec := serve(AdminUpdateScheduleStatus(stub, testLogger()), newRequest(adminCtx(), http.MethodPatch, "/", `{"status":" confirmed "}`, "scheduleId", id.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.status.ID != id || stub.status.Status != "confirmed" {
		t.Fatalf("unexpected status input %+v", stub.status)
	}
	if stub.status.Actor == nil || stub.status.Actor.AdminID != "admin-7" || stub.status.Actor.Role != "admin" {
		t.Fatalf("expected admin actor, got %+v", stub.status.Actor)
	}

	stub.statusErr = pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	rec = serve(AdminUpdateScheduleStatus(stub, testLogger()), newRequest(adminCtx(), http.MethodPatch, "/", `{"status":"shipped"}`, "scheduleId", id.String()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAdminDeleteSchedule(t *testing.T) {
	stub := &stubScheduleService{}
	rec := serve(AdminDeleteSchedule(stub, testLogger()), newRequest(adminCtx(), http.MethodDelete, "/", "", "scheduleId", uuid.NewString()))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if stub.deleteActor == nil || stub.deleteActor.AdminID != "admin-7" {
		t.Fatalf("expected actor on delete, got %+v", stub.deleteActor)
	}
}

type stubRevenueService struct {
	upserted revenues.UpsertInput
	created  bool
}

func (s *stubRevenueService) List(context.Context) ([]revenues.RevenueDTO, error) {
	return []revenues.RevenueDTO{}, nil
}

func (s *stubRevenueService) Get(_ context.Context, id uuid.UUID) (*revenues.RevenueDTO, error) {
	return &revenues.RevenueDTO{ID: id}, nil
}

func (s *stubRevenueService) GetByMonth(_ context.Context, month string) (*revenues.RevenueDTO, error) {
	if month != "2025-06" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "revenue not found")
	}
	return &revenues.RevenueDTO{Month: month}, nil
}

func (s *stubRevenueService) Upsert(_ context.Context, input revenues.UpsertInput) (*revenues.RevenueDTO, bool, error) {
	s.upserted = input
	return &revenues.RevenueDTO{Month: input.Month}, s.created, nil
}

func (s *stubRevenueService) Delete(context.Context, uuid.UUID) error { return nil }

func TestAdminUpsertRevenue(t *testing.T) {
	stub := &stubRevenueService{created: true}
	rec := serve(AdminUpsertRevenue(stub, testLogger()), newRequest(adminCtx(), http.MethodPut, "/", `{"month":"2025-06","totalSales":2,"salesRevenue":"1800.00"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on create, got %d", rec.Code)
	}
	if !stub.upserted.SalesRevenue.Equal(decimal.NewFromInt(1800)) || !stub.upserted.RentalRevenue.IsZero() || stub.upserted.TotalRental != 0 {
		t.Fatalf("expected omitted figures to default to zero, got %+v", stub.upserted)
	}

	stub.created = false
	rec = serve(AdminUpsertRevenue(stub, testLogger()), newRequest(adminCtx(), http.MethodPut, "/", `{"month":"2025-06"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d", rec.Code)
	}

	rec = serve(AdminUpsertRevenue(stub, testLogger()), newRequest(adminCtx(), http.MethodPut, "/", `{"month":"2025-06","totalSales":-1}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative count, got %d", rec.Code)
	}

	rec = serve(AdminGetRevenueByMonth(stub, testLogger()), newRequest(adminCtx(), http.MethodGet, "/", "", "month", "2024-01"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type stubSiteImageService struct {
	placement string
	active    *bool
	created   siteimages.CreateInput
}

func (s *stubSiteImageService) Active(_ context.Context, placement string) ([]siteimages.SiteImageDTO, error) {
	s.placement = placement
	if placement != "banner" && placement != "about" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid placement")
	}
	return []siteimages.SiteImageDTO{}, nil
}

func (s *stubSiteImageService) List(_ context.Context, placement string, active *bool) ([]siteimages.SiteImageDTO, error) {
	s.placement = placement
	s.active = active
	return []siteimages.SiteImageDTO{}, nil
}

func (s *stubSiteImageService) Get(_ context.Context, _ string, id uuid.UUID) (*siteimages.SiteImageDTO, error) {
	return &siteimages.SiteImageDTO{ID: id}, nil
}

func (s *stubSiteImageService) Create(_ context.Context, placement string, input siteimages.CreateInput) (*siteimages.SiteImageDTO, error) {
	s.placement = placement
	s.created = input
	return &siteimages.SiteImageDTO{ID: uuid.New(), ImageURL: input.ImageURL}, nil
}

func (s *stubSiteImageService) Update(_ context.Context, _ string, id uuid.UUID, _ siteimages.UpdateInput) (*siteimages.SiteImageDTO, error) {
	return &siteimages.SiteImageDTO{ID: id}, nil
}

func (s *stubSiteImageService) Delete(context.Context, string, uuid.UUID) error { return nil }

func TestSiteImageControllers(t *testing.T) {
	stub := &stubSiteImageService{}

	rec := serve(ActiveSiteImages(stub, testLogger()), newRequest(nil, http.MethodGet, "/", "", "placement", "gallery"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown placement, got %d", rec.Code)
	}

	rec = serve(AdminListSiteImages(stub, testLogger()), newRequest(adminCtx(), http.MethodGet, "/?active=false", "", "placement", "about"))
	if rec.Code != http.StatusOK || stub.placement != "about" || stub.active == nil || *stub.active {
		t.Fatalf("expected inactive about listing, code %d active %v", rec.Code, stub.active)
	}

	rec = serve(AdminCreateSiteImage(stub, testLogger()), newRequest(adminCtx(), http.MethodPost, "/", `{"imageUrl":"https://cdn.example.com/b.jpg","sortOrder":2}`, "placement", "banner"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.created.SortOrder == nil || *stub.created.SortOrder != 2 || stub.created.IsActive != nil {
		t.Fatalf("unexpected create input %+v", stub.created)
	}
}

type failingPinger struct{ err error }

func (p failingPinger) Ping(context.Context) error { return p.err }

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	rec := serve(HealthReady(cfg, testLogger(), map[string]Pinger{"db": failingPinger{}, "redis": failingPinger{}}), newRequest(nil, http.MethodGet, "/health/ready", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(envHeader) != "test" {
		t.Fatalf("expected env header")
	}

	rec = serve(HealthReady(cfg, testLogger(), map[string]Pinger{"db": failingPinger{}, "redis": failingPinger{err: errors.New("dial tcp: refused")}}), newRequest(nil, http.MethodGet, "/health/ready", ""))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	checks, _ := decodeErrorBody(t, rec).Details["checks"].(map[string]any)
	if checks["redis"] != "error" || checks["db"] != "ok" {
		t.Fatalf("unexpected checks %v", checks)
	}
}
