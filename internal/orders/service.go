package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	pkgerrors "github.com/orderlyy/orderlyy-backend/pkg/errors"
)

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]JoinedRow, error)
}

// Service exposes the read side of orders. Mutations go through the
// lifecycle engine.
type Service interface {
	ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]OrderDTO, error)
	GetForStore(ctx context.Context, storeID, id uuid.UUID) (*models.Order, error)
}

type service struct {
	repo orderRepository
}

// NewService builds an order query service.
func NewService(repo orderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]OrderDTO, error) {
	rows, err := s.repo.ListByStore(ctx, storeID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromJoinedRows(rows), nil
}

// GetForStore loads an order and hides rows owned by other stores.
func (s *service) GetForStore(ctx context.Context, storeID, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
