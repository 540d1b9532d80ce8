// Package contacts stores contact-form messages and notifies the shop.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/db"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ContactDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*ContactDTO, error)
	List(ctx context.Context) ([]ContactDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ContactDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceParams struct {
	Repo   *Repository
	Tx     txRunner
	Outbox outbox.Emitter
	Logger *logger.Logger
}

type service struct {
	repo     *Repository
	tx       txRunner
	outbox   outbox.Emitter
	logg     *logger.Logger
	validate *validator.Validate
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		outbox:   params.Outbox,
		logg:     params.Logger,
		validate: validator.New(),
	}, nil
}

// Create stores the message and queues contact_received in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*ContactDTO, error) {
	contact, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, contact); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert contact")
		}
		data := payloads.ContactReceivedEvent{ContactID: contact.ID, Name: contact.Name, Email: contact.Email}
		if contact.Subject != nil {
			data.Subject = *contact.Subject
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventContactReceived,
			AggregateType: enums.AggregateContact,
			AggregateID:   contact.ID,
			Data:          data,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit contact received")
		}
		return nil
	}); err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "contact_id", contact.ID.String()), "contact message received")
	dto := toDTO(*contact)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]ContactDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contacts")
	}
	out := make([]ContactDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ContactDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contact")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
	}
	return nil
}

func (s *service) normalize(input CreateInput) (*models.Contact, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	message := strings.TrimSpace(input.Message)

	var errs error
	if name == "" {
		errs = multierr.Append(errs, errors.New("name is required"))
	}
	if email == "" {
		errs = multierr.Append(errs, errors.New("email is required"))
	} else if err := s.validate.Var(email, "email"); err != nil {
		errs = multierr.Append(errs, errors.New("email must be a valid address"))
	}
	if message == "" {
		errs = multierr.Append(errs, errors.New("message is required"))
	}
	if errs != nil {
		messages := []string{}
		for _, err := range multierr.Errors(errs) {
			messages = append(messages, err.Error())
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, strings.Join(messages, "; ")).WithDetails(map[string]any{"errors": messages})
	}

	return &models.Contact{
		Name:    name,
		Email:   strings.ToLower(email),
		Phone:   optional(input.Phone),
		Subject: optional(input.Subject),
		Message: message,
	}, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func toDTO(m models.Contact) ContactDTO {
	return ContactDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
