package enums

import "fmt"

// DeliveryStage is the seller-driven fulfillment progression for a paid order.
type DeliveryStage string

const (
	DeliveryStagePacked         DeliveryStage = "packed"
	DeliveryStageOutForDelivery DeliveryStage = "out_for_delivery"
	DeliveryStageDelivered      DeliveryStage = "delivered"
)

var validDeliveryStages = []DeliveryStage{
	DeliveryStagePacked,
	DeliveryStageOutForDelivery,
	DeliveryStageDelivered,
}

// String implements fmt.Stringer.
func (d DeliveryStage) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStage.
func (d DeliveryStage) IsValid() bool {
	for _, candidate := range validDeliveryStages {
		if candidate == d {
			return true
		}
	}
	return false
}

// OrderStatus maps the stage onto the order status it produces.
func (d DeliveryStage) OrderStatus() OrderStatus {
	switch d {
	case DeliveryStagePacked:
		return OrderStatusPacked
	case DeliveryStageOutForDelivery:
		return OrderStatusOutForDelivery
	case DeliveryStageDelivered:
		return OrderStatusDelivered
	}
	return ""
}

// Label is the human-readable text sent in buyer notifications.
func (d DeliveryStage) Label() string {
	switch d {
	case DeliveryStagePacked:
		return "Packed"
	case DeliveryStageOutForDelivery:
		return "Out for delivery"
	case DeliveryStageDelivered:
		return "Delivered"
	}
	return string(d)
}

// ParseDeliveryStage converts raw input into a DeliveryStage.
func ParseDeliveryStage(value string) (DeliveryStage, error) {
	for _, candidate := range validDeliveryStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery stage %q", value)
}
