package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
)

// Repository handles payment persistence. Status resolution happens
// through the lifecycle engine only.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to payment operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new awaiting payment row.
func (r *Repository) Create(ctx context.Context, dto CreatePaymentDTO) (*models.Payment, error) {
	payment := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// FindByID loads a payment by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// HasAwaitingForOrder reports whether an unresolved payment exists for
// the order.
func (r *Repository) HasAwaitingForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("order_id = ? AND status = ?", orderID, enums.PaymentStatusAwaiting).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByStore returns the store's payments, newest first, optionally
// filtered by status.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, status *enums.PaymentStatus) ([]models.Payment, error) {
	query := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.Payment
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListConfirmedBetween returns payments confirmed inside [from, to),
// oldest resolution first.
func (r *Repository) ListConfirmedBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]models.Payment, error) {
	var rows []models.Payment
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND status = ? AND resolved_at >= ? AND resolved_at < ?",
			storeID, enums.PaymentStatusConfirmed, from, to).
		Order("resolved_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ResolveIfAwaiting flips an awaiting payment to the given resolution.
// Returns the number of rows changed: zero means the payment was already
// resolved by another actor.
func (r *Repository) ResolveIfAwaiting(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, enums.PaymentStatusAwaiting).
		Updates(map[string]any{"status": status, "resolved_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}
