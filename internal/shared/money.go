package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pesoPrinter = message.NewPrinter(language.Filipino)

// FormatPHP renders an amount as a peso display string, e.g. "₱1,250.00".
func FormatPHP(amount float64) string {
	return pesoPrinter.Sprintf("₱%v", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
