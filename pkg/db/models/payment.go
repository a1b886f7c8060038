package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderlyy/orderlyy-backend/pkg/enums"
)

// Payment represents a buyer-submitted proof of bank transfer for an order.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	StoreID       uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	BuyerID       int64               `gorm:"column:buyer_id;not null"`
	BuyerUsername *string             `gorm:"column:buyer_username"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	ProofFileID   string              `gorm:"column:proof_file_id;not null"`
	ProofKind     enums.ProofKind     `gorm:"column:proof_kind;not null"`
	Status        enums.PaymentStatus `gorm:"column:status;not null;default:'awaiting'"`
	ResolvedAt    *time.Time          `gorm:"column:resolved_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
