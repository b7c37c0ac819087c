package purchases

import "math"

// FinalAmount applies the course discount and rounds to 2 decimal places.
func FinalAmount(price float64, discountPercent int) float64 {
	amount := price - (float64(discountPercent)*price)/100
	return math.Round(amount*100) / 100
}

// MinorUnits converts an amount to the provider's integer minor-unit
// representation (e.g. cents).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// IsFree reports whether a purchase should take the immediate-enrollment
// path instead of going through the payment provider.
func IsFree(price, finalAmount float64) bool {
	return price == 0 || finalAmount == 0
}
