package enums

import "fmt"

// DiscountType selects how a promo code value is applied.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

var validDiscountTypes = []DiscountType{
	DiscountPercent,
	DiscountFixed,
}

func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value matches a known discount type.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
