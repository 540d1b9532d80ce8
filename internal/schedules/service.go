package schedules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/db"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox/payloads"
	"github.com/wahiba-atelier/atelier-backend/pkg/pagination"
)

const tryOnMonthLayout = "2006-01"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// Recorder observes booking activity.
type Recorder interface {
	ScheduleSubmitted(quoteOnly bool)
	ScheduleStatusChanged(status string)
}

// Service manages booking requests.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*ScheduleDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ScheduleDTO, error)
	UpdateStatus(ctx context.Context, input StatusInput) (*ScheduleDTO, error)
	Delete(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) error
}

// SubmitInput is a fully validated booking request built from a cart.
type SubmitInput struct {
	FullName    string
	Phone       string
	Address     *string
	Note        *string
	TryOnDate   *time.Time
	Total       decimal.Decimal
	QuoteOnly   bool
	Items       []models.ScheduleItem
	CartSession string
}

// ListParams filters the back-office schedule listing.
type ListParams struct {
	pagination.Params
	Status     string
	TryOnMonth string
}

type StatusInput struct {
	ID     uuid.UUID
	Status string
	Actor  *outbox.ActorRef
}

type ServiceParams struct {
	Repo         *Repository
	Tx           txRunner
	Outbox       outbox.Emitter
	Availability invalidator
	Logger       *logger.Logger
	Metrics      Recorder
	Now          func() time.Time
}

type service struct {
	repo     *Repository
	tx       txRunner
	outbox   outbox.Emitter
	avail    invalidator
	logg     *logger.Logger
	recorder Recorder
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("schedule repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Availability == nil {
		return nil, fmt.Errorf("availability invalidator required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		outbox:   params.Outbox,
		avail:    params.Availability,
		logg:     params.Logger,
		recorder: params.Metrics,
		now:      now,
	}, nil
}

// Submit stores a pending schedule and queues schedule_created in the same
// transaction.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*ScheduleDTO, error) {
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fullName and phone are required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a booking needs at least one item")
	}

	schedule := &models.Schedule{
		FullName:  strings.TrimSpace(input.FullName),
		Phone:     strings.TrimSpace(input.Phone),
		Address:   input.Address,
		Note:      input.Note,
		TryOnDate: input.TryOnDate,
		Total:     input.Total,
		Status:    enums.ScheduleStatusPending,
		Items:     input.Items,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, schedule); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert schedule")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventScheduleCreated,
			AggregateType: enums.AggregateSchedule,
			AggregateID:   schedule.ID,
			Actor:         &outbox.ActorRef{CartSession: input.CartSession, Role: "customer"},
			Data: payloads.ScheduleCreatedEvent{
				ScheduleID: schedule.ID,
				FullName:   schedule.FullName,
				Phone:      schedule.Phone,
				TryOnDate:  schedule.TryOnDate,
				Total:      schedule.Total.StringFixed(2),
				QuoteOnly:  input.QuoteOnly,
				Lines:      eventLines(schedule.Items),
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit schedule created")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	if s.recorder != nil {
		s.recorder.ScheduleSubmitted(input.QuoteOnly)
	}
	s.logg.Info(s.logg.WithScheduleID(ctx, schedule.ID.String()), "schedule submitted")

	dto := FromModel(*schedule)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listQuery{Limit: params.Limit}
	if params.Status != "" {
		status, err := enums.ParseScheduleStatus(params.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		query.Status = &status
	}
	if params.TryOnMonth != "" {
		month, err := time.Parse(tryOnMonthLayout, params.TryOnMonth)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tryOnMonth must be YYYY-MM")
		}
		next := month.AddDate(0, 1, 0)
		query.TryOnFrom = &month
		query.TryOnUntil = &next
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list schedules")
	}
	result := &ListResult{Items: make([]ScheduleDTO, 0, len(rows))}
	for _, row := range rows {
		result.Items = append(result.Items, FromModel(row))
	}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ScheduleDTO, error) {
	schedule, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*schedule)
	return &dto, nil
}

// UpdateStatus moves a schedule to any valid status. Setting the current
// status again is a no-op and emits nothing.
func (s *service) UpdateStatus(ctx context.Context, input StatusInput) (*ScheduleDTO, error) {
	status, err := enums.ParseScheduleStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	var updated *models.Schedule
	changed := false
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := s.load(ctx, txRepo, input.ID)
		if err != nil {
			return err
		}
		updated = current
		if current.Status == status {
			return nil
		}
		previous := current.Status
		now := s.now().UTC()
		if _, err := txRepo.UpdateStatus(ctx, current.ID, status, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update schedule status")
		}
		current.Status = status
		current.UpdatedAt = now
		changed = true

		event := outbox.DomainEvent{
			EventType:     enums.EventScheduleStatusChanged,
			AggregateType: enums.AggregateSchedule,
			AggregateID:   current.ID,
			Actor:         input.Actor,
			Data: payloads.ScheduleStatusChangedEvent{
				ScheduleID:     current.ID,
				PreviousStatus: previous,
				Status:         status,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit schedule status changed")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if changed {
		s.invalidate(ctx)
		if s.recorder != nil {
			s.recorder.ScheduleStatusChanged(status.String())
		}
	}
	dto := FromModel(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor *outbox.ActorRef) error {
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := s.load(ctx, txRepo, id)
		if err != nil {
			return err
		}
		if _, err := txRepo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete schedule")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventScheduleDeleted,
			AggregateType: enums.AggregateSchedule,
			AggregateID:   id,
			Actor:         actor,
			Data:          payloads.ScheduleDeletedEvent{ScheduleID: id, Status: current.Status},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit schedule deleted")
		}
		return nil
	}); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Schedule, error) {
	schedule, err := repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "schedule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load schedule")
	}
	return schedule, nil
}

// invalidate drops cached availability after a committed write. A failure
// only delays visibility until the cache entry expires.
func (s *service) invalidate(ctx context.Context) {
	if err := s.avail.Invalidate(ctx); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "availability invalidation failed")
	}
}

func eventLines(items []models.ScheduleItem) []payloads.ScheduleLine {
	lines := make([]payloads.ScheduleLine, 0, len(items))
	for _, item := range items {
		line := payloads.ScheduleLine{
			DressID:   item.DressID,
			DressName: item.DressName,
			Kind:      item.Type,
			Quantity:  item.Quantity,
			StartDate: item.StartDate,
			EndDate:   item.EndDate,
		}
		if item.Color != nil {
			line.Color = *item.Color
		}
		if item.Size != nil {
			line.Size = *item.Size
		}
		lines = append(lines, line)
	}
	return lines
}
