package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCoins renders a coin amount with thousands separators.
// Whole amounts drop the fractional part ("1,500"), others keep two places ("12.50").
func FormatCoins(amount float64) string {
	if amount == float64(int64(amount)) {
		return printer.Sprintf("%d", int64(amount))
	}
	return printer.Sprintf("%.2f", amount)
}

// FormatInt renders an integer with thousands separators
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}
