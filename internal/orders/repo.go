package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
)

// Repository handles order persistence. Status writes happen through the
// lifecycle engine only.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new order row.
func (r *Repository) Create(ctx context.Context, dto CreateOrderDTO) (*models.Order, error) {
	order := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads an order by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByStore returns the store's orders joined with their product,
// newest first. A limit of 0 means no limit.
func (r *Repository) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]JoinedRow, error) {
	var rows []JoinedRow
	q := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, products.name AS product_name, products.price AS product_price").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("orders.store_id = ?", storeID).
		Order("orders.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByStoreBetween returns the store's orders created inside
// [from, to), joined with their product, oldest first.
func (r *Repository) ListByStoreBetween(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]JoinedRow, error) {
	var rows []JoinedRow
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.*, products.name AS product_name, products.price AS product_price").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("orders.store_id = ? AND orders.created_at >= ? AND orders.created_at < ?", storeID, from, to).
		Order("orders.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus writes the status unconditionally.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// UpdateStatusIfNot writes the status only when the current status differs
// from the blocked value. Returns the number of rows changed.
func (r *Repository) UpdateStatusIfNot(ctx context.Context, id uuid.UUID, status, blocked string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status != ?", id, blocked).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// UpdateDelivery stores the buyer's delivery text together with the
// resulting status.
func (r *Repository) UpdateDelivery(ctx context.Context, id uuid.UUID, text, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"delivery_text": text, "status": status}).Error
}
