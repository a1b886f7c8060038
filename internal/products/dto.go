package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
)

// ProductDTO exposes listing data in API responses.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	StoreID     uuid.UUID       `json:"store_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	InStock     bool            `json:"in_stock"`
	PhotoFileID *string         `json:"photo_file_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductDTO holds creation-time data for a new product.
type CreateProductDTO struct {
	StoreID     uuid.UUID
	Name        string
	Description *string
	Price       decimal.Decimal
	InStock     bool
	PhotoFileID *string
}

// ToModel maps creation data onto a fresh product row.
func (d CreateProductDTO) ToModel() *models.Product {
	return &models.Product{
		ID:          uuid.New(),
		StoreID:     d.StoreID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		InStock:     d.InStock,
		PhotoFileID: d.PhotoFileID,
	}
}

// FromModel maps the persisted product into a DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	return &ProductDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		InStock:     m.InStock,
		PhotoFileID: m.PhotoFileID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromModels maps a slice of product rows into DTOs.
func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
