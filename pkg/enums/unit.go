package enums

import "fmt"

// Unit is the sales unit a product can be priced and ordered in.
type Unit string

const (
	UnitKg      Unit = "kg"
	UnitPiece   Unit = "piece"
	UnitPackage Unit = "package"
	UnitBox     Unit = "box"
	UnitMulti   Unit = "multi"
)

var validUnits = []Unit{
	UnitKg,
	UnitPiece,
	UnitPackage,
	UnitBox,
	UnitMulti,
}

func (u Unit) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known sales unit.
func (u Unit) IsValid() bool {
	for _, candidate := range validUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUnit converts raw input into a Unit.
func ParseUnit(value string) (Unit, error) {
	for _, candidate := range validUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid unit %q", value)
}
