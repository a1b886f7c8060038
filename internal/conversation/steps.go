package conversation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Step names a position in a conversation flow. The engine switches on
// these exhaustively; an unknown step clears the session.
type Step = string

const (
	StepCreateName     Step = "create:name"
	StepCreateCurrency Step = "create:currency"
	StepCreateDelivery Step = "create:delivery"

	StepLinkChannel Step = "link:channel"

	StepProductPhoto Step = "product:photo"
	StepProductName  Step = "product:name"
	StepProductPrice Step = "product:price"
	StepProductDesc  Step = "product:desc"
	StepProductStock Step = "product:stock"

	StepOrderQty     Step = "order:qty"
	StepPayProof     Step = "pay:proof"
	StepOrderAddress Step = "order:address"
)

// CreateData accumulates the store-creation flow.
type CreateData struct {
	Name     string `json:"name,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// ProductData accumulates the add-product flow.
type ProductData struct {
	PhotoFileID *string         `json:"photo_file_id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Price       decimal.Decimal `json:"price,omitempty"`
	Description *string         `json:"description,omitempty"`
}

// OrderData carries the product a buyer is checking out.
type OrderData struct {
	ProductID uuid.UUID `json:"product_id"`
}

// ProofData carries the order a buyer is paying for.
type ProofData struct {
	OrderID uuid.UUID `json:"order_id"`
}

// AddressData carries the order awaiting delivery details.
type AddressData struct {
	OrderID uuid.UUID `json:"order_id"`
}
