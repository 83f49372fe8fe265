package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gryadkadev/gryadka-backend/pkg/db/models"
	"github.com/gryadkadev/gryadka-backend/pkg/enums"
	pkgerrors "github.com/gryadkadev/gryadka-backend/pkg/errors"
)

// UnitPrice resolves the live price of a product for the requested sales
// unit. A nil column means the product does not sell in that unit.
func UnitPrice(product *models.Product, unit enums.Unit) (decimal.Decimal, error) {
	if product == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	var price *decimal.Decimal
	switch unit {
	case enums.UnitKg:
		price = product.PriceKg
	case enums.UnitPiece:
		price = product.PricePiece
	case enums.UnitPackage:
		price = product.PricePackage
	case enums.UnitBox:
		price = product.PriceBox
	case enums.UnitMulti:
		price = product.PriceMulti
	default:
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown unit %q", unit))
	}
	if price == nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("product %q is not sold per %s", product.Name, unit))
	}
	return *price, nil
}
