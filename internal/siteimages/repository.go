package siteimages

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
)

type listQuery struct {
	Placement enums.SiteImagePlacement
	Active    *bool
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, q listQuery) ([]models.SiteImage, error) {
	query := r.db.WithContext(ctx).Where("placement = ?", q.Placement)
	if q.Active != nil {
		query = query.Where("is_active = ?", *q.Active)
	}
	var rows []models.SiteImage
	if err := query.Order("sort_order ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, placement enums.SiteImagePlacement, id uuid.UUID) (*models.SiteImage, error) {
	var row models.SiteImage
	if err := r.db.WithContext(ctx).First(&row, "id = ? AND placement = ?", id, placement).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) NextSortOrder(ctx context.Context, placement enums.SiteImagePlacement) (int, error) {
	var max sql.NullInt64
	row := r.db.WithContext(ctx).Model(&models.SiteImage{}).
		Where("placement = ?", placement).
		Select("MAX(sort_order)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *Repository) Create(ctx context.Context, image *models.SiteImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *Repository) Update(ctx context.Context, image *models.SiteImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

func (r *Repository) Delete(ctx context.Context, placement enums.SiteImagePlacement, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.SiteImage{}, "id = ? AND placement = ?", id, placement)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
