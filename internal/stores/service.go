package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/pkg/db"
	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
)

type storeRepository interface {
	Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerID int64) (*models.Store, error)
	FindByToken(ctx context.Context, token string) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

type tokenGenerator interface {
	NewOwnerToken() string
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, ownerID int64, name, currency string) (*models.Store, error)
	GetByOwner(ctx context.Context, ownerID int64) (*models.Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	GetByToken(ctx context.Context, token string) (*models.Store, error)
	LinkChannel(ctx context.Context, ownerID, channelID int64, channelUsername string) (*models.Store, error)
	UpdateSettings(ctx context.Context, storeID uuid.UUID, input UpdateSettingsInput) (*models.Store, error)
}

// UpdateSettingsInput captures the mutable store fields. Nil fields are
// left untouched.
type UpdateSettingsInput struct {
	Name              *string
	Currency          *string
	DeliveryNote      *string
	BankName          *string
	BankAccountName   *string
	BankAccountNumber *string
}

type service struct {
	repo   storeRepository
	tokens tokenGenerator
}

// NewService builds a store service with the provided dependencies.
func NewService(repo storeRepository, tokens tokenGenerator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token generator required")
	}
	return &service{repo: repo, tokens: tokens}, nil
}

func (s *service) Create(ctx context.Context, ownerID int64, name, currency string) (*models.Store, error) {
	name = strings.TrimSpace(name)
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if len(name) > 120 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name too long")
	}
	if !validCurrency(currency) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency must be a symbol or 3-letter code")
	}

	if _, err := s.repo.FindByOwner(ctx, ownerID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have a store")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing store")
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{
		OwnerID:    ownerID,
		OwnerToken: s.tokens.NewOwnerToken(),
		Name:       name,
		Currency:   currency,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have a store")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return store, nil
}

func (s *service) GetByOwner(ctx context.Context, ownerID int64) (*models.Store, error) {
	store, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

// GetByToken resolves the dashboard bearer token. A miss reads as
// UNAUTHORIZED, not NOT_FOUND, so probing reveals nothing.
func (s *service) GetByToken(ctx context.Context, token string) (*models.Store, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	store, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) LinkChannel(ctx context.Context, ownerID, channelID int64, channelUsername string) (*models.Store, error) {
	store, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	store.ChannelID = &channelID
	username := strings.TrimPrefix(strings.TrimSpace(channelUsername), "@")
	if username != "" {
		store.ChannelUsername = &username
	} else {
		store.ChannelUsername = nil
	}
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link channel")
	}
	return store, nil
}

func (s *service) UpdateSettings(ctx context.Context, storeID uuid.UUID, input UpdateSettingsInput) (*models.Store, error) {
	store, err := s.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
		}
		store.Name = name
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if !validCurrency(currency) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency must be a symbol or 3-letter code")
		}
		store.Currency = currency
	}
	if input.DeliveryNote != nil {
		store.DeliveryNote = normalizeOptional(input.DeliveryNote)
	}
	if input.BankName != nil {
		store.BankName = normalizeOptional(input.BankName)
	}
	if input.BankAccountName != nil {
		store.BankAccountName = normalizeOptional(input.BankAccountName)
	}
	if input.BankAccountNumber != nil {
		store.BankAccountNumber = normalizeOptional(input.BankAccountNumber)
	}
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return store, nil
}

// normalizeOptional trims the value and collapses empty strings to nil so
// a blank submission clears the field.
func normalizeOptional(value *string) *string {
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// validCurrency accepts a short symbol ("$", "₦") or a 3-letter code.
// Rune count, not byte length: "₦" is one rune but three bytes.
func validCurrency(currency string) bool {
	n := utf8.RuneCountInString(currency)
	return n >= 1 && n <= 3
}
