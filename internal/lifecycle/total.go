package lifecycle

import (
	"github.com/shopspring/decimal"

	"github.com/orderlyy/orderlyy-backend/pkg/db/models"
)

// Total multiplies the live product price by the ordered quantity.
// Orders never snapshot the price; a price change before payment is
// reflected in the amount charged.
func Total(product *models.Product, qty int) decimal.Decimal {
	return product.Price.Mul(decimal.NewFromInt(int64(qty)))
}
