package dresses

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/db"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
)

const maxNameLength = 255

// Service exposes catalog reads for the storefront and dress management for
// the back office.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]DressDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*DressDTO, error)
	CatalogItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error)
	Create(ctx context.Context, input CreateInput) (*DressDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*DressDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddColor(ctx context.Context, dressID uuid.UUID, input ColorInput) (*DressDTO, error)
	DeleteColor(ctx context.Context, dressID, colorID uuid.UUID) error
	AddImage(ctx context.Context, dressID, colorID uuid.UUID, imageURL string) (*DressDTO, error)
	DeleteImage(ctx context.Context, dressID, colorID, imageID uuid.UUID) error
	SetCategories(ctx context.Context, dressID uuid.UUID, categoryIDs []uuid.UUID) (*DressDTO, error)
}

// Pricing groups the monetary fields of a dress.
type Pricing struct {
	PricePerDay      *decimal.Decimal
	IsRentOnDiscount bool
	NewPricePerDay   *decimal.Decimal
	IsForSale        bool
	BuyPrice         *decimal.Decimal
	IsSellOnDiscount bool
	NewBuyPrice      *decimal.Decimal
}

// ColorInput describes a color variant and its images.
type ColorInput struct {
	ColorName string
	ImageURLs []string
}

// CreateInput holds the validated payload to create a dress.
type CreateInput struct {
	Name          string
	Description   *string
	NewCollection bool
	Pricing       Pricing
	Sizes         []string
	Colors        []ColorInput
	CategoryIDs   []uuid.UUID
}

// UpdateInput holds optional mutations. Pricing, when set, replaces every
// monetary field.
type UpdateInput struct {
	Name          *string
	Description   *string
	NewCollection *bool
	Pricing       *Pricing
	Sizes         *[]string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a dress service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dress repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]DressDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dresses")
	}
	out := make([]DressDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DressDTO, error) {
	dress, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*dress)
	return &dto, nil
}

func (s *service) CatalogItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	dress, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	item := ToCatalogItem(*dress)
	return &item, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*DressDTO, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePricing(input.Pricing); err != nil {
		return nil, err
	}
	for _, c := range input.Colors {
		if err := validateColor(c); err != nil {
			return nil, err
		}
	}

	dress := &models.Dress{
		Name:          name,
		Description:   input.Description,
		NewCollection: input.NewCollection,
		Sizes:         normalizeSizes(input.Sizes),
	}
	applyPricing(dress, input.Pricing)

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Create(ctx, dress); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "dress with this name already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert dress")
		}
		for i, c := range input.Colors {
			if err := createColor(ctx, txRepo, dress.ID, i, c); err != nil {
				return err
			}
		}
		return s.linkCategories(ctx, txRepo, dress.ID, input.CategoryIDs)
	}); err != nil {
		return nil, err
	}

	return s.Get(ctx, dress.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*DressDTO, error) {
	dress, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		dress.Name = name
	}
	if input.Description != nil {
		dress.Description = input.Description
	}
	if input.NewCollection != nil {
		dress.NewCollection = *input.NewCollection
	}
	if input.Pricing != nil {
		if err := validatePricing(*input.Pricing); err != nil {
			return nil, err
		}
		applyPricing(dress, *input.Pricing)
	}
	if input.Sizes != nil {
		dress.Sizes = normalizeSizes(*input.Sizes)
	}

	if err := s.repo.Update(ctx, dress); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "dress with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dress")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted bool
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.repo.WithTx(tx).Delete(ctx, id)
		return err
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dress")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "dress not found")
	}
	return nil
}

func (s *service) AddColor(ctx context.Context, dressID uuid.UUID, input ColorInput) (*DressDTO, error) {
	if err := validateColor(input); err != nil {
		return nil, err
	}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := s.load(ctx, txRepo, dressID); err != nil {
			return err
		}
		order, err := txRepo.NextColorOrder(ctx, dressID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count colors")
		}
		return createColor(ctx, txRepo, dressID, order, input)
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, dressID)
}

func (s *service) DeleteColor(ctx context.Context, dressID, colorID uuid.UUID) error {
	var deleted bool
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.repo.WithTx(tx).DeleteColor(ctx, dressID, colorID)
		return err
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete color")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "color not found")
	}
	return nil
}

func (s *service) AddImage(ctx context.Context, dressID, colorID uuid.UUID, imageURL string) (*DressDTO, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "imageUrl is required")
	}
	if _, err := s.repo.FindColor(ctx, dressID, colorID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "color not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load color")
	}
	order, err := s.repo.NextImageOrder(ctx, colorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count images")
	}
	if err := s.repo.CreateImage(ctx, &models.DressImage{DressColorID: colorID, ImageURL: imageURL, SortOrder: order}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert image")
	}
	return s.Get(ctx, dressID)
}

func (s *service) DeleteImage(ctx context.Context, dressID, colorID, imageID uuid.UUID) error {
	if _, err := s.repo.FindColor(ctx, dressID, colorID); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "color not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load color")
	}
	deleted, err := s.repo.DeleteImage(ctx, colorID, imageID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
	}
	return nil
}

func (s *service) SetCategories(ctx context.Context, dressID uuid.UUID, categoryIDs []uuid.UUID) (*DressDTO, error) {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := s.load(ctx, txRepo, dressID); err != nil {
			return err
		}
		return s.linkCategories(ctx, txRepo, dressID, categoryIDs)
	}); err != nil {
		return nil, err
	}
	return s.Get(ctx, dressID)
}

func (s *service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Dress, error) {
	dress, err := repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dress not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dress")
	}
	return dress, nil
}

func (s *service) linkCategories(ctx context.Context, repo *Repository, dressID uuid.UUID, ids []uuid.UUID) error {
	ids = dedupeIDs(ids)
	found, err := repo.FindCategories(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load categories")
	}
	if len(found) != len(ids) {
		return pkgerrors.New(pkgerrors.CodeValidation, "one or more categories do not exist")
	}
	if err := repo.ReplaceCategories(ctx, dressID, ids); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link categories")
	}
	return nil
}

func createColor(ctx context.Context, repo *Repository, dressID uuid.UUID, order int, input ColorInput) error {
	color := &models.DressColor{
		DressID:   dressID,
		ColorName: strings.TrimSpace(input.ColorName),
		SortOrder: order,
	}
	if err := repo.CreateColor(ctx, color); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert color")
	}
	for i, url := range input.ImageURLs {
		image := &models.DressImage{DressColorID: color.ID, ImageURL: strings.TrimSpace(url), SortOrder: i}
		if err := repo.CreateImage(ctx, image); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert image")
		}
	}
	return nil
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(name) > maxNameLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("name cannot exceed %d characters", maxNameLength))
	}
	return name, nil
}

func validateColor(input ColorInput) error {
	if strings.TrimSpace(input.ColorName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "colorName is required")
	}
	for _, url := range input.ImageURLs {
		if strings.TrimSpace(url) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image urls cannot be blank")
		}
	}
	return nil
}

func validatePricing(p Pricing) error {
	for field, value := range map[string]*decimal.Decimal{
		"pricePerDay":    p.PricePerDay,
		"newPricePerDay": p.NewPricePerDay,
		"buyPrice":       p.BuyPrice,
		"newBuyPrice":    p.NewBuyPrice,
	} {
		if value != nil && value.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, field+" cannot be negative")
		}
	}
	if p.IsRentOnDiscount && p.NewPricePerDay == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "newPricePerDay is required when isRentOnDiscount is set")
	}
	if p.IsSellOnDiscount && p.NewBuyPrice == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "newBuyPrice is required when isSellOnDiscount is set")
	}
	return nil
}

func applyPricing(dress *models.Dress, p Pricing) {
	dress.PricePerDay = toNull(p.PricePerDay)
	dress.IsRentOnDiscount = p.IsRentOnDiscount
	dress.NewPricePerDay = toNull(p.NewPricePerDay)
	dress.IsForSale = p.IsForSale
	dress.BuyPrice = toNull(p.BuyPrice)
	dress.IsSellOnDiscount = p.IsSellOnDiscount
	dress.NewBuyPrice = toNull(p.NewBuyPrice)
}

func toNull(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}

func normalizeSizes(sizes []string) []string {
	out := make([]string, 0, len(sizes))
	seen := map[string]struct{}{}
	for _, size := range sizes {
		size = strings.TrimSpace(size)
		if size == "" {
			continue
		}
		if _, ok := seen[size]; ok {
			continue
		}
		seen[size] = struct{}{}
		out = append(out, size)
	}
	return out
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
