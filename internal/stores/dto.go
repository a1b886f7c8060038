package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
)

// StoreDTO exposes store data in API responses.
type StoreDTO struct {
	ID                    uuid.UUID  `json:"id"`
	OwnerID               int64      `json:"owner_id"`
	Name                  string     `json:"name"`
	Currency              string     `json:"currency"`
	DeliveryNote          *string    `json:"delivery_note,omitempty"`
	BankName              *string    `json:"bank_name,omitempty"`
	BankAccountName       *string    `json:"bank_account_name,omitempty"`
	BankAccountNumber     *string    `json:"bank_account_number,omitempty"`
	ChannelID             *int64     `json:"channel_id,omitempty"`
	ChannelUsername       *string    `json:"channel_username,omitempty"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// CreateStoreDTO holds creation-time data for a new store.
type CreateStoreDTO struct {
	OwnerID    int64
	OwnerToken string
	Name       string
	Currency   string
}

// ToModel maps creation data onto a fresh store row.
func (d CreateStoreDTO) ToModel() *models.Store {
	return &models.Store{
		ID:         uuid.New(),
		OwnerID:    d.OwnerID,
		OwnerToken: d.OwnerToken,
		Name:       d.Name,
		Currency:   d.Currency,
	}
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	status := enums.SubscriptionStatusUnknown
	if m.SubscriptionStatus != nil {
		status = *m.SubscriptionStatus
	}
	return &StoreDTO{
		ID:                    m.ID,
		OwnerID:               m.OwnerID,
		Name:                  m.Name,
		Currency:              m.Currency,
		DeliveryNote:          m.DeliveryNote,
		BankName:              m.BankName,
		BankAccountName:       m.BankAccountName,
		BankAccountNumber:     m.BankAccountNumber,
		ChannelID:             m.ChannelID,
		ChannelUsername:       m.ChannelUsername,
		SubscriptionStatus:    status.String(),
		SubscriptionExpiresAt: m.SubscriptionExpiresAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
