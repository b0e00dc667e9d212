package common

import (
	"math"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown in place of a non-finite number.
const NotAvailable = "N/A"

// IsFinite reports whether f is neither NaN nor ±Inf.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FormatFixed renders f with two decimal places, rounding half away from zero.
func FormatFixed(f float64) string {
	if !IsFinite(f) {
		return NotAvailable
	}
	return decimal.NewFromFloat(f).StringFixed(2)
}

// FormatPercent renders an already-scaled percentage, e.g. 4.5 -> "4.50%".
func FormatPercent(pct float64) string {
	if !IsFinite(pct) {
		return NotAvailable
	}
	return FormatFixed(pct) + "%"
}

// FormatSignedPercent prefixes values that round to zero or more with "+".
func FormatSignedPercent(pct float64) string {
	if !IsFinite(pct) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

// FormatMoney renders an amount as dollars, e.g. -12.5 -> "-$12.50".
func FormatMoney(amount float64) string {
	if !IsFinite(amount) {
		return NotAvailable
	}
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
