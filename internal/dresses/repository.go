package dresses

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
)

// ListFilter narrows the public catalog listing.
type ListFilter struct {
	CategoryID    *uuid.UUID
	NewCollection *bool
	ForSale       *bool
	Query         string
}

// Repository persists dresses together with their colors, images and
// category links.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func withVariants(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Colors", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Colors.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
}

// FindByID loads the dress with colors, images and categories.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dress, error) {
	var dress models.Dress
	if err := withVariants(r.db.WithContext(ctx)).First(&dress, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &dress, nil
}

// List returns dresses newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Dress, error) {
	query := withVariants(r.db.WithContext(ctx)).Model(&models.Dress{})
	if filter.CategoryID != nil {
		query = query.Where("id IN (SELECT dress_id FROM dress_categories WHERE category_id = ?)", *filter.CategoryID)
	}
	if filter.NewCollection != nil {
		query = query.Where("new_collection = ?", *filter.NewCollection)
	}
	if filter.ForSale != nil {
		query = query.Where("is_for_sale = ?", *filter.ForSale)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", like, like)
	}

	var rows []models.Dress
	if err := query.Order("created_at DESC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts the dress row only; colors and categories are added separately.
func (r *Repository) Create(ctx context.Context, dress *models.Dress) error {
	return r.db.WithContext(ctx).Omit("Colors", "Categories").Create(dress).Error
}

// Update saves the scalar columns of the dress.
func (r *Repository) Update(ctx context.Context, dress *models.Dress) error {
	return r.db.WithContext(ctx).Omit("Colors", "Categories").Save(dress).Error
}

// Delete removes the dress and everything hanging off it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	colorIDs := db.Model(&models.DressColor{}).Select("id").Where("dress_id = ?", id)
	if err := db.Where("dress_color_id IN (?)", colorIDs).Delete(&models.DressImage{}).Error; err != nil {
		return false, err
	}
	if err := db.Where("dress_id = ?", id).Delete(&models.DressColor{}).Error; err != nil {
		return false, err
	}
	if err := db.Exec("DELETE FROM dress_categories WHERE dress_id = ?", id).Error; err != nil {
		return false, err
	}
	res := db.Delete(&models.Dress{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NextColorOrder returns the sort order a newly appended color should take.
func (r *Repository) NextColorOrder(ctx context.Context, dressID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DressColor{}).Where("dress_id = ?", dressID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CreateColor(ctx context.Context, color *models.DressColor) error {
	return r.db.WithContext(ctx).Omit("Images").Create(color).Error
}

// FindColor loads a color that belongs to dressID.
func (r *Repository) FindColor(ctx context.Context, dressID, colorID uuid.UUID) (*models.DressColor, error) {
	var color models.DressColor
	if err := r.db.WithContext(ctx).First(&color, "id = ? AND dress_id = ?", colorID, dressID).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *Repository) DeleteColor(ctx context.Context, dressID, colorID uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("dress_color_id = ?", colorID).Delete(&models.DressImage{}).Error; err != nil {
		return false, err
	}
	res := db.Where("id = ? AND dress_id = ?", colorID, dressID).Delete(&models.DressColor{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NextImageOrder returns the sort order a newly appended image should take.
func (r *Repository) NextImageOrder(ctx context.Context, colorID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DressImage{}).Where("dress_color_id = ?", colorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CreateImage(ctx context.Context, image *models.DressImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *Repository) DeleteImage(ctx context.Context, colorID, imageID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND dress_color_id = ?", imageID, colorID).Delete(&models.DressImage{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindCategories loads the categories with the given ids.
func (r *Repository) FindCategories(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	var rows []models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceCategories swaps the category links of the dress.
func (r *Repository) ReplaceCategories(ctx context.Context, dressID uuid.UUID, categoryIDs []uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM dress_categories WHERE dress_id = ?", dressID).Error; err != nil {
		return err
	}
	for _, id := range categoryIDs {
		if err := db.Exec("INSERT INTO dress_categories (dress_id, category_id) VALUES (?, ?)", dressID, id).Error; err != nil {
			return err
		}
	}
	return nil
}
