package enums

import "fmt"

// PaymentType records how the customer intends to pay. It is informational
// only; no charge is executed by this service.
type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentCard   PaymentType = "card"
	PaymentOnline PaymentType = "online"
)

var validPaymentTypes = []PaymentType{
	PaymentCash,
	PaymentCard,
	PaymentOnline,
}

func (p PaymentType) String() string {
	return string(p)
}

// IsValid reports whether the value matches a known payment type.
func (p PaymentType) IsValid() bool {
	for _, candidate := range validPaymentTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentType converts raw input into a PaymentType.
func ParsePaymentType(value string) (PaymentType, error) {
	for _, candidate := range validPaymentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment type %q", value)
}
