package enums

import "fmt"

// ProductBadge is the storefront ribbon shown on a product card.
type ProductBadge string

const (
	BadgeNone      ProductBadge = ""
	BadgeHit       ProductBadge = "hit"
	BadgeSale      ProductBadge = "sale"
	BadgeRecommend ProductBadge = "recommend"
)

var validProductBadges = []ProductBadge{
	BadgeNone,
	BadgeHit,
	BadgeSale,
	BadgeRecommend,
}

func (b ProductBadge) String() string {
	return string(b)
}

// IsValid reports whether the value matches a known badge.
func (b ProductBadge) IsValid() bool {
	for _, candidate := range validProductBadges {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseProductBadge converts raw input into a ProductBadge.
func ParseProductBadge(value string) (ProductBadge, error) {
	for _, candidate := range validProductBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product badge %q", value)
}
