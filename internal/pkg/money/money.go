// Package money converts between API-facing rupee amounts and the
// integer paise values stored in the ledger.
package money

import (
	"fmt"
	"math"
)

// ToPaise converts a rupee amount to integer paise
func ToPaise(rupees float64) int64 {
	return int64(math.Round(rupees * 100))
}

// Rupees converts integer paise back to a rupee amount
func Rupees(paise int64) float64 {
	return float64(paise) / 100
}

// Format renders paise as a rupee string with two decimals
func Format(paise int64) string {
	return fmt.Sprintf("%.2f", Rupees(paise))
}

// IsPositive reports whether the rupee amount is a positive finite number
func IsPositive(rupees float64) bool {
	return rupees > 0 && !math.IsInf(rupees, 1) && !math.IsNaN(rupees)
}
