package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
)

// CreateOrderDTO holds creation-time data for a new order.
type CreateOrderDTO struct {
	StoreID       uuid.UUID
	ProductID     uuid.UUID
	BuyerID       int64
	BuyerUsername *string
	Qty           int
	Status        string
}

// ToModel maps creation data onto a fresh order row.
func (d CreateOrderDTO) ToModel() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		StoreID:       d.StoreID,
		ProductID:     d.ProductID,
		BuyerID:       d.BuyerID,
		BuyerUsername: d.BuyerUsername,
		Qty:           d.Qty,
		Status:        d.Status,
	}
}

// OrderDTO exposes an order joined with its product in API responses.
// Total is recomputed from the live product price.
type OrderDTO struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductPrice  decimal.Decimal `json:"product_price"`
	BuyerID       int64           `json:"buyer_id"`
	BuyerUsername *string         `json:"buyer_username,omitempty"`
	Qty           int             `json:"qty"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	DeliveryText  *string         `json:"delivery_text,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// JoinedRow is an order row with the product columns the dashboard shows.
type JoinedRow struct {
	models.Order
	ProductName  string          `gorm:"column:product_name"`
	ProductPrice decimal.Decimal `gorm:"column:product_price"`
}

// FromJoinedRow maps a joined order row into a DTO.
func FromJoinedRow(row *JoinedRow) *OrderDTO {
	if row == nil {
		return nil
	}
	return &OrderDTO{
		ID:            row.ID,
		ProductID:     row.ProductID,
		ProductName:   row.ProductName,
		ProductPrice:  row.ProductPrice,
		BuyerID:       row.BuyerID,
		BuyerUsername: row.BuyerUsername,
		Qty:           row.Qty,
		Total:         row.ProductPrice.Mul(decimal.NewFromInt(int64(row.Qty))),
		Status:        row.Status,
		DeliveryText:  row.DeliveryText,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

// FromJoinedRows maps joined rows into DTOs.
func FromJoinedRows(rows []JoinedRow) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromJoinedRow(&rows[i]))
	}
	return out
}
