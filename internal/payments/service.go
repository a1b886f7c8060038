package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
)

type paymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, status *enums.PaymentStatus) ([]models.Payment, error)
}

// Service exposes the read side of payments. Resolution goes through the
// lifecycle engine.
type Service interface {
	ListByStore(ctx context.Context, storeID uuid.UUID, status *enums.PaymentStatus) ([]PaymentDTO, error)
	GetForStore(ctx context.Context, storeID, id uuid.UUID) (*models.Payment, error)
}

type service struct {
	repo paymentRepository
}

// NewService builds a payment query service.
func NewService(repo paymentRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID, status *enums.PaymentStatus) ([]PaymentDTO, error) {
	rows, err := s.repo.ListByStore(ctx, storeID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return FromModels(rows), nil
}

// GetForStore loads a payment and hides rows owned by other stores.
func (s *service) GetForStore(ctx context.Context, storeID, id uuid.UUID) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	if payment.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	return payment, nil
}
