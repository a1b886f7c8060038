package enums

import "fmt"

// OrderStatus tracks an order through the buyer/seller lifecycle.
//
// The canonical path is pending -> awaiting_confirmation -> paid ->
// delivery_details_received -> packed -> out_for_delivery -> delivered,
// with awaiting_confirmation falling back to pending on a rejected payment.
// The dashboard status override may store values outside this enum; the
// column is free text on purpose.
type OrderStatus string

const (
	OrderStatusPending                 OrderStatus = "pending"
	OrderStatusAwaitingConfirmation    OrderStatus = "awaiting_confirmation"
	OrderStatusPaid                    OrderStatus = "paid"
	OrderStatusDeliveryDetailsReceived OrderStatus = "delivery_details_received"
	OrderStatusPacked                  OrderStatus = "packed"
	OrderStatusOutForDelivery          OrderStatus = "out_for_delivery"
	OrderStatusDelivered               OrderStatus = "delivered"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAwaitingConfirmation,
	OrderStatusPaid,
	OrderStatusDeliveryDetailsReceived,
	OrderStatusPacked,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further delivery transitions are allowed.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
