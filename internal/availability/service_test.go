package availability

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type stubSource struct {
	periods []RentalPeriod
	calls   int
	err     error
}

func (s *stubSource) ConfirmedRentals(context.Context) ([]RentalPeriod, error) {
	s.calls++
	return s.periods, s.err
}

type memoryCache struct {
	data map[string]string
	fail bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	if c.fail {
		return "", errors.New("redis down")
	}
	v, ok := c.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.fail {
		return errors.New("redis down")
	}
	c.data[key] = value.(string)
	return nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) AvailabilityKey(scope string) string { return "wa:availability:" + scope }

func newTestService(t *testing.T, src BookingSource, cache cacheStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Source:   src,
		Cache:    cache,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		CacheTTL: time.Minute,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestBuildWindowsGroupsByDress(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	windows := BuildWindows([]RentalPeriod{
		{DressID: a, Start: date(2025, 6, 10), End: date(2025, 6, 15)},
		{DressID: b, Start: date(2025, 7, 1), End: date(2025, 7, 3)},
		{DressID: a, Start: time.Date(2025, 8, 1, 14, 0, 0, 0, time.UTC), End: date(2025, 8, 2)},
		{DressID: uuid.Nil, Start: date(2025, 1, 1), End: date(2025, 1, 2)},
	})
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(windows))
	}
	if windows[0].ItemID != a || len(windows[0].Intervals) != 2 {
		t.Fatalf("unexpected first window %+v", windows[0])
	}
	if !windows[0].Intervals[1].Start.Equal(date(2025, 8, 1)) {
		t.Fatalf("interval bounds must be normalized, got %s", windows[0].Intervals[1].Start)
	}
}

func TestCheckRangeReportsConflictingDate(t *testing.T) {
	item := uuid.New()
	src := &stubSource{periods: []RentalPeriod{{DressID: item, Start: date(2025, 6, 10), End: date(2025, 6, 15)}}}
	svc := newTestService(t, src, newMemoryCache())

	err := svc.CheckRange(context.Background(), item, date(2025, 6, 12), date(2025, 6, 20))
	var unavailable *UnavailableDateError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableDateError, got %v", err)
	}
	if unavailable.DateString() != "2025-06-12" {
		t.Fatalf("unexpected conflicting date %s", unavailable.DateString())
	}

	if err := svc.CheckRange(context.Background(), item, date(2025, 6, 16), date(2025, 6, 20)); err != nil {
		t.Fatalf("expected range to be available, got %v", err)
	}

	err = svc.CheckRange(context.Background(), item, date(2025, 6, 20), date(2025, 6, 20))
	var invalid *InvalidRangeError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
}

func TestWindowsServedFromCacheUntilInvalidated(t *testing.T) {
	item := uuid.New()
	src := &stubSource{}
	cache := newMemoryCache()
	svc := newTestService(t, src, cache)
	ctx := context.Background()

	if err := svc.CheckRange(ctx, item, date(2025, 6, 10), date(2025, 6, 12)); err != nil {
		t.Fatalf("fail-open expected, got %v", err)
	}
	if err := svc.CheckRange(ctx, item, date(2025, 6, 10), date(2025, 6, 12)); err != nil {
		t.Fatalf("fail-open expected, got %v", err)
	}
	if src.calls != 1 {
		t.Fatalf("expected cached windows on second read, source calls=%d", src.calls)
	}

	// a booking gets confirmed after the empty list was cached
	src.periods = []RentalPeriod{{DressID: item, Start: date(2025, 6, 11), End: date(2025, 6, 11)}}
	if err := svc.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	err := svc.CheckRange(ctx, item, date(2025, 6, 10), date(2025, 6, 12))
	var unavailable *UnavailableDateError
	if !errors.As(err, &unavailable) {
		t.Fatalf("new booking must be visible after invalidation, got %v", err)
	}
}

func TestWindowsFreshBypassesCache(t *testing.T) {
	item := uuid.New()
	src := &stubSource{}
	svc := newTestService(t, src, newMemoryCache())
	ctx := context.Background()

	if _, err := svc.Windows(ctx, false); err != nil {
		t.Fatalf("windows: %v", err)
	}
	src.periods = []RentalPeriod{{DressID: item, Start: date(2025, 6, 1), End: date(2025, 6, 2)}}
	windows, err := svc.Windows(ctx, true)
	if err != nil {
		t.Fatalf("fresh windows: %v", err)
	}
	if len(windows.For(item)) != 1 || src.calls != 2 {
		t.Fatalf("expected fresh read to hit the source, windows=%v calls=%d", windows, src.calls)
	}
}

func TestWindowsCacheFailureFallsThrough(t *testing.T) {
	item := uuid.New()
	src := &stubSource{periods: []RentalPeriod{{DressID: item, Start: date(2025, 6, 1), End: date(2025, 6, 2)}}}
	cache := newMemoryCache()
	cache.fail = true
	svc := newTestService(t, src, cache)

	windows, err := svc.Windows(context.Background(), false)
	if err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("expected source windows, got %v", windows)
	}
}

func TestWindowsSourceErrorIsDependencyError(t *testing.T) {
	svc := newTestService(t, &stubSource{err: errors.New("db gone")}, nil)
	_, err := svc.Windows(context.Background(), false)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCalendar(t *testing.T) {
	item := uuid.New()
	src := &stubSource{periods: []RentalPeriod{{DressID: item, Start: date(2025, 6, 10), End: date(2025, 6, 15)}}}
	svc := newTestService(t, src, nil)

	days, err := svc.Calendar(context.Background(), item, date(2025, 6, 1), date(2025, 6, 30))
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(days) != 6 {
		t.Fatalf("expected 6 blocked days, got %d", len(days))
	}

	if _, err := svc.Calendar(context.Background(), item, date(2025, 6, 30), date(2025, 6, 1)); err == nil {
		t.Fatal("expected validation error for inverted calendar span")
	}
	if _, err := svc.Calendar(context.Background(), item, date(2025, 1, 1), date(2027, 1, 1)); err == nil {
		t.Fatal("expected validation error for oversized span")
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without source")
	}
	if _, err := NewService(ServiceParams{Source: &stubSource{}}); err == nil {
		t.Fatal("expected error without logger")
	}
}
