package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

const windowsCacheScope = "windows"

// BookingSource lists the rental periods of confirmed bookings.
type BookingSource interface {
	ConfirmedRentals(ctx context.Context) ([]RentalPeriod, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	AvailabilityKey(scope string) string
}

// Service derives booking windows from confirmed schedules and answers
// availability questions against them.
type Service interface {
	// Windows returns every known window. fresh skips the cache.
	Windows(ctx context.Context, fresh bool) (Windows, error)
	CheckRange(ctx context.Context, dressID uuid.UUID, start, end time.Time) error
	Calendar(ctx context.Context, dressID uuid.UUID, from, to time.Time) ([]time.Time, error)
	Invalidate(ctx context.Context) error
}

type ServiceParams struct {
	Source          BookingSource
	Cache           cacheStore
	Logger          *logger.Logger
	CacheTTL        time.Duration
	CalendarMaxDays int
}

type service struct {
	source  BookingSource
	cache   cacheStore
	logg    *logger.Logger
	ttl     time.Duration
	maxDays int
}

func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("booking source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	maxDays := params.CalendarMaxDays
	if maxDays <= 0 {
		maxDays = 400
	}
	return &service{
		source:  params.Source,
		cache:   params.Cache,
		logg:    params.Logger,
		ttl:     params.CacheTTL,
		maxDays: maxDays,
	}, nil
}

func (s *service) Windows(ctx context.Context, fresh bool) (Windows, error) {
	if !fresh {
		if cached, ok := s.readCache(ctx); ok {
			return cached, nil
		}
	}
	periods, err := s.source.ConfirmedRentals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load confirmed bookings")
	}
	windows := BuildWindows(periods)
	s.writeCache(ctx, windows)
	return windows, nil
}

func (s *service) CheckRange(ctx context.Context, dressID uuid.UUID, start, end time.Time) error {
	if err := ValidateRange(start, end); err != nil {
		return err
	}
	windows, err := s.Windows(ctx, false)
	if err != nil {
		return err
	}
	return Check(dressID, start, end, windows)
}

func (s *service) Calendar(ctx context.Context, dressID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	from, to = NormalizeDate(from), NormalizeDate(to)
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to must not be before from")
	}
	if RentalDays(from, to) > s.maxDays {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("calendar span cannot exceed %d days", s.maxDays))
	}
	windows, err := s.Windows(ctx, false)
	if err != nil {
		return nil, err
	}
	return BlockedDates(dressID, from, to, windows), nil
}

// Invalidate drops the cached windows so the next read sees the latest
// confirmed bookings.
func (s *service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, s.cache.AvailabilityKey(windowsCacheScope)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "invalidate availability cache")
	}
	return nil
}

// readCache only trusts a cached window list. A miss or an unreadable entry
// falls through to the database; an item absent from the list is never
// remembered on its own.
func (s *service) readCache(ctx context.Context) (Windows, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.AvailabilityKey(windowsCacheScope))
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "availability cache read failed")
		}
		return nil, false
	}
	var windows Windows
	if err := json.Unmarshal([]byte(raw), &windows); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "availability cache entry unreadable")
		return nil, false
	}
	return windows, true
}

func (s *service) writeCache(ctx context.Context, windows Windows) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	payload, err := json.Marshal(windows)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.AvailabilityKey(windowsCacheScope), string(payload), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "availability cache write failed")
	}
}
