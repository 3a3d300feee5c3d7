package pricing

import "errors"

// Flat-rate shipping with free shipping above the threshold, plus a
// fixed tax rate. Amounts are currency-agnostic units.
const (
	FreeShippingThreshold = 1000.0
	FlatShippingRate      = 50.0
	TaxRate               = 0.18
)

var ErrNegativeAmount = errors.New("items price cannot be negative")

// Totals holds the derived monetary values of an order.
type Totals struct {
	ItemsPrice    float64 `json:"items_price"`
	ShippingPrice float64 `json:"shipping_price"`
	TaxPrice      float64 `json:"tax_price"`
	TotalPrice    float64 `json:"total_price"`
}

// ComputeTotals derives shipping, tax and grand total from the cart's
// items price. No rounding is applied; formatting for display is the
// caller's concern.
func ComputeTotals(itemsPrice float64) (Totals, error) {
	if itemsPrice < 0 {
		return Totals{}, ErrNegativeAmount
	}

	shipping := FlatShippingRate
	if itemsPrice > FreeShippingThreshold {
		shipping = 0
	}
	tax := itemsPrice * TaxRate

	return Totals{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    itemsPrice + shipping + tax,
	}, nil
}
