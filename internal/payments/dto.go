package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
	"github.com/orderlyy/orderlyy-backend/pkg/enums"
)

// CreatePaymentDTO holds creation-time data for a new payment.
type CreatePaymentDTO struct {
	OrderID       uuid.UUID
	StoreID       uuid.UUID
	BuyerID       int64
	BuyerUsername *string
	Amount        decimal.Decimal
	ProofFileID   string
	ProofKind     enums.ProofKind
}

// ToModel maps creation data onto a fresh payment row.
func (d CreatePaymentDTO) ToModel() *models.Payment {
	return &models.Payment{
		ID:            uuid.New(),
		OrderID:       d.OrderID,
		StoreID:       d.StoreID,
		BuyerID:       d.BuyerID,
		BuyerUsername: d.BuyerUsername,
		Amount:        d.Amount,
		ProofFileID:   d.ProofFileID,
		ProofKind:     d.ProofKind,
		Status:        enums.PaymentStatusAwaiting,
	}
}

// PaymentDTO exposes payment data in API responses.
type PaymentDTO struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	BuyerID       int64           `json:"buyer_id"`
	BuyerUsername *string         `json:"buyer_username,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ProofKind     string          `json:"proof_kind"`
	Status        string          `json:"status"`
	ResolvedAt    *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// FromModel maps the persisted payment into a DTO.
func FromModel(m *models.Payment) *PaymentDTO {
	if m == nil {
		return nil
	}
	return &PaymentDTO{
		ID:            m.ID,
		OrderID:       m.OrderID,
		BuyerID:       m.BuyerID,
		BuyerUsername: m.BuyerUsername,
		Amount:        m.Amount,
		ProofKind:     m.ProofKind.String(),
		Status:        m.Status.String(),
		ResolvedAt:    m.ResolvedAt,
		CreatedAt:     m.CreatedAt,
	}
}

// FromModels maps a slice of payment rows into DTOs.
func FromModels(rows []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
