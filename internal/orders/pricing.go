package orders

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/retailcore/backoffice/pkg/errors"
)

var priceBandTolerance = decimal.NewFromInt(10) // percent

// ValidatePriceBand accepts a proposed unit price when it sits within
// ten percent of the reference price, bounds inclusive. Arithmetic is
// exact decimal so band edges never drift on large amounts.
func ValidatePriceBand(proposed, reference int64) error {
	if proposed <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "proposed price must be positive")
	}
	if reference <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reference price must be positive")
	}

	ref := decimal.NewFromInt(reference)
	tolerance := ref.Mul(priceBandTolerance).Div(decimal.NewFromInt(100))
	lower := ref.Sub(tolerance)
	upper := ref.Add(tolerance)

	price := decimal.NewFromInt(proposed)
	if price.LessThan(lower) || price.GreaterThan(upper) {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "price outside allowed band").
			WithDetails(map[string]any{
				"proposed":  proposed,
				"reference": reference,
				"min":       lower.String(),
				"max":       upper.String(),
			})
	}
	return nil
}
