// Package format converts numeric report values into display strings and
// back. Display strings never re-enter a sum without going through a Parse
// function first.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// ParseCurrency reverses Currency and NumericCurrency. It accepts an optional
// sign, dollar sign and comma separators.
func ParseCurrency(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	negative := false
	if strings.HasPrefix(trimmed, "-") {
		negative = true
		trimmed = strings.TrimSpace(trimmed[1:])
	}
	trimmed = strings.TrimPrefix(trimmed, "$")
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	if trimmed == "" {
		return 0, fmt.Errorf("invalid currency value %q", value)
	}

	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid currency value %q: %w", value, err)
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}

// Fixed formats a value with a fixed number of decimals and no separators.
func Fixed(value float64, places int) string {
	return strconv.FormatFloat(value, 'f', places, 64)
}

// Optional formats a value like Fixed when ok is true and returns an empty
// string otherwise, so "no data" never reads as zero.
func Optional(value float64, ok bool, places int) string {
	if !ok {
		return ""
	}
	return Fixed(value, places)
}

// Percent formats a percentage value with the given decimals and a % suffix.
func Percent(value float64, places int) string {
	return Fixed(value, places) + "%"
}
