// Package format renders amounts for people: rupee currency strings and
// grouped numbers.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/biomass-estimator/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer groups thousands the same way the dashboard does.
var printer = message.NewPrinter(language.English)

// Rupees returns the whole-rupee amount with thousands separators (e.g., "₹7,800").
// The fractional part is truncated toward zero, as the dashboard metrics are,
// and the sign follows the rupee sign ("₹-60,000").
func Rupees(amount float64) string {
	return constants.CurrencySymbol + Integer(int64(math.Trunc(amount)))
}

// Currency returns a currency string with the rupee sign, separators and two
// decimals (e.g., "₹-1,234.56").
func Currency(amount float64) string {
	formatted := Number(math.Abs(amount), 2)
	if amount < 0 && formatted != Number(0, 2) {
		return constants.CurrencySymbol + "-" + formatted
	}
	return constants.CurrencySymbol + formatted
}

// Integer formats n with thousands separators.
func Integer(n int64) string {
	return printer.Sprintf("%d", n)
}

// Number formats a non-negative or negative value with thousands separators and
// the given precision.
func Number(value float64, precision int) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	formatted := fmt.Sprintf("%.*f", precision, value)
	intPart, decPart, hasDec := strings.Cut(formatted, ".")

	var whole int64
	if _, err := fmt.Sscan(intPart, &whole); err != nil {
		return sign + formatted
	}
	if whole == 0 && strings.Trim(decPart, "0") == "" {
		sign = ""
	}

	out := sign + Integer(whole)
	if hasDec {
		out += "." + decPart
	}
	return out
}
