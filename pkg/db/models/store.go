package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/pkg/enums"
)

// Store represents a merchant storefront owned by a Telegram user.
type Store struct {
	ID                    uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID               int64                     `gorm:"column:owner_id;not null;index"`
	OwnerToken            string                    `gorm:"column:owner_token;not null;uniqueIndex"`
	Name                  string                    `gorm:"column:name;not null"`
	Currency              string                    `gorm:"column:currency;not null"`
	DeliveryNote          *string                   `gorm:"column:delivery_note"`
	BankName              *string                   `gorm:"column:bank_name"`
	BankAccountName       *string                   `gorm:"column:bank_account_name"`
	BankAccountNumber     *string                   `gorm:"column:bank_account_number"`
	ChannelID             *int64                    `gorm:"column:channel_id"`
	ChannelUsername       *string                   `gorm:"column:channel_username"`
	SubscriptionStatus    *enums.SubscriptionStatus `gorm:"column:subscription_status"`
	SubscriptionExpiresAt *time.Time                `gorm:"column:subscription_expires_at"`
	CreatedAt             time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
