// Package siteimages manages the storefront banner and about-us pictures.
package siteimages

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wahiba-atelier/atelier-backend/pkg/db"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
)

type SiteImageDTO struct {
	ID        uuid.UUID                `json:"id"`
	Placement enums.SiteImagePlacement `json:"placement"`
	ImageURL  string                   `json:"imageUrl"`
	SortOrder int                      `json:"sortOrder"`
	IsActive  bool                     `json:"isActive"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

type CreateInput struct {
	ImageURL  string
	SortOrder *int
	IsActive  *bool
}

type UpdateInput struct {
	ImageURL  *string
	SortOrder *int
	IsActive  *bool
}

type Service interface {
	// Active is the public listing: active images only, by sort order.
	Active(ctx context.Context, placement string) ([]SiteImageDTO, error)
	List(ctx context.Context, placement string, active *bool) ([]SiteImageDTO, error)
	Get(ctx context.Context, placement string, id uuid.UUID) (*SiteImageDTO, error)
	Create(ctx context.Context, placement string, input CreateInput) (*SiteImageDTO, error)
	Update(ctx context.Context, placement string, id uuid.UUID, input UpdateInput) (*SiteImageDTO, error)
	Delete(ctx context.Context, placement string, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("site image repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Active(ctx context.Context, placement string) ([]SiteImageDTO, error) {
	active := true
	return s.List(ctx, placement, &active)
}

func (s *service) List(ctx context.Context, placement string, active *bool) ([]SiteImageDTO, error) {
	p, err := parsePlacement(placement)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, listQuery{Placement: p, Active: active})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list site images")
	}
	out := make([]SiteImageDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, placement string, id uuid.UUID) (*SiteImageDTO, error) {
	p, err := parsePlacement(placement)
	if err != nil {
		return nil, err
	}
	row, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, placement string, input CreateInput) (*SiteImageDTO, error) {
	p, err := parsePlacement(placement)
	if err != nil {
		return nil, err
	}
	imageURL, err := validateURL(input.ImageURL)
	if err != nil {
		return nil, err
	}
	row := &models.SiteImage{Placement: p, ImageURL: imageURL, IsActive: true}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		row.SortOrder = *input.SortOrder
	} else {
		next, err := s.repo.NextSortOrder(ctx, p)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "next sort order")
		}
		row.SortOrder = next
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert site image")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, placement string, id uuid.UUID, input UpdateInput) (*SiteImageDTO, error) {
	p, err := parsePlacement(placement)
	if err != nil {
		return nil, err
	}
	row, err := s.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if input.ImageURL != nil {
		imageURL, err := validateURL(*input.ImageURL)
		if err != nil {
			return nil, err
		}
		row.ImageURL = imageURL
	}
	if input.SortOrder != nil {
		row.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		row.IsActive = *input.IsActive
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update site image")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, placement string, id uuid.UUID) error {
	p, err := parsePlacement(placement)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, p, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete site image")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "site image not found")
	}
	return nil
}

func (s *service) load(ctx context.Context, placement enums.SiteImagePlacement, id uuid.UUID) (*models.SiteImage, error) {
	row, err := s.repo.FindByID(ctx, placement, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "site image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load site image")
	}
	return row, nil
}

func parsePlacement(raw string) (enums.SiteImagePlacement, error) {
	p, err := enums.ParseSiteImagePlacement(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "placement must be banner or about")
	}
	return p, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "imageUrl is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "imageUrl must be an http(s) URL")
	}
	return raw, nil
}

func toDTO(m models.SiteImage) SiteImageDTO {
	return SiteImageDTO{
		ID:        m.ID,
		Placement: m.Placement,
		ImageURL:  m.ImageURL,
		SortOrder: m.SortOrder,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
