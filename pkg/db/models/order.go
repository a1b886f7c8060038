package models

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a buyer's purchase of a single product. The product
// price is not copied onto the order; totals are recomputed from the
// live product row wherever they are shown.
//
// Status is stored as free text on purpose: the dashboard override may
// write values outside the built-in progression.
type Order struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StoreID       uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	BuyerID       int64     `gorm:"column:buyer_id;not null;index"`
	BuyerUsername *string   `gorm:"column:buyer_username"`
	Qty           int       `gorm:"column:qty;not null"`
	Status        string    `gorm:"column:status;not null"`
	DeliveryText  *string   `gorm:"column:delivery_text"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
