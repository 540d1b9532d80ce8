package revenues

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.Revenue, error) {
	var rows []models.Revenue
	if err := r.db.WithContext(ctx).Order("month DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Revenue, error) {
	var row models.Revenue
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindByMonth(ctx context.Context, month time.Time) (*models.Revenue, error) {
	var row models.Revenue
	if err := r.db.WithContext(ctx).First(&row, "month = ?", month).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert replaces the figures of row.Month, creating the row when the month
// has none yet. The stored row is written back into row.
func (r *Repository) Upsert(ctx context.Context, row *models.Revenue) (created bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Revenue
		findErr := tx.First(&existing, "month = ?", row.Month).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(row).Error
		case findErr != nil:
			return findErr
		}
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Updates(map[string]any{
			"total_sales":    row.TotalSales,
			"sales_revenue":  row.SalesRevenue,
			"total_rental":   row.TotalRental,
			"rental_revenue": row.RentalRevenue,
		}).Error
	})
	return created, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Revenue{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
