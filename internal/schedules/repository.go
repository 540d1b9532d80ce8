package schedules

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	"github.com/wahiba-atelier/atelier-backend/pkg/pagination"
)

type listQuery struct {
	Status     *enums.ScheduleStatus
	TryOnFrom  *time.Time
	TryOnUntil *time.Time
	Limit      int
	Cursor     *pagination.Cursor
}

// Repository persists schedules and their lines.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the schedule and its items.
func (r *Repository) Create(ctx context.Context, schedule *models.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("start_date ASC, dress_name ASC") }).
		First(&schedule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// List returns schedules newest first. The returned cursor is set when
// another page exists.
func (r *Repository) List(ctx context.Context, q listQuery) ([]models.Schedule, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Schedule{}).Preload("Items")
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.TryOnFrom != nil {
		query = query.Where("try_on_date >= ?", *q.TryOnFrom)
	}
	if q.TryOnUntil != nil {
		query = query.Where("try_on_date < ?", *q.TryOnUntil)
	}
	if q.Cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", q.Cursor.CreatedAt, q.Cursor.CreatedAt, q.Cursor.ID)
	}

	var rows []models.Schedule
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(q.Limit)).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	page, next := pagination.Trim(rows, q.Limit, func(s models.Schedule) pagination.Cursor {
		return pagination.Cursor{CreatedAt: s.CreatedAt, ID: s.ID}
	})
	return page, next, nil
}

// UpdateStatus sets the status column and reports whether a row matched.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ScheduleStatus, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Schedule{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"status": status, "updated_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the schedule and its items.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("schedule_id = ?", id).Delete(&models.ScheduleItem{}).Error; err != nil {
		return false, err
	}
	res := db.Delete(&models.Schedule{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type rentalRow struct {
	DressID   uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// ConfirmedRentals lists the dated rental lines of confirmed schedules, keyed
// by the dress they reserve.
func (r *Repository) ConfirmedRentals(ctx context.Context) ([]availability.RentalPeriod, error) {
	var rows []rentalRow
	err := r.db.WithContext(ctx).
		Table("schedule_items AS si").
		Select("si.dress_id AS dress_id, si.start_date AS start_date, si.end_date AS end_date").
		Joins("JOIN schedules s ON s.id = si.schedule_id").
		Where("s.status = ?", enums.ScheduleStatusConfirmed).
		Where("si.type = ?", enums.LineKindRental).
		Where("si.dress_id IS NOT NULL AND si.start_date IS NOT NULL AND si.end_date IS NOT NULL").
		Order("si.start_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]availability.RentalPeriod, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.RentalPeriod{DressID: row.DressID, Start: row.StartDate, End: row.EndDate})
	}
	return out, nil
}

// CompletedItems returns the lines of completed schedules whose try-on date
// falls in [from, until).
func (r *Repository) CompletedItems(ctx context.Context, from, until time.Time) ([]models.ScheduleItem, error) {
	var rows []models.ScheduleItem
	err := r.db.WithContext(ctx).
		Model(&models.ScheduleItem{}).
		Joins("JOIN schedules s ON s.id = schedule_items.schedule_id").
		Where("s.status = ?", enums.ScheduleStatusCompleted).
		Where("s.try_on_date >= ? AND s.try_on_date < ?", from, until).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
