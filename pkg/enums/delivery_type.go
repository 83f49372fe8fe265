package enums

import "fmt"

// DeliveryType distinguishes courier delivery from store pickup.
type DeliveryType string

const (
	DeliveryCourier DeliveryType = "delivery"
	DeliveryPickup  DeliveryType = "pickup"
)

var validDeliveryTypes = []DeliveryType{
	DeliveryCourier,
	DeliveryPickup,
}

func (d DeliveryType) String() string {
	return string(d)
}

// IsValid reports whether the value matches a known delivery type.
func (d DeliveryType) IsValid() bool {
	for _, candidate := range validDeliveryTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryType converts raw input into a DeliveryType.
func ParseDeliveryType(value string) (DeliveryType, error) {
	for _, candidate := range validDeliveryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery type %q", value)
}
