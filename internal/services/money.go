package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount as "Rp" plus id-ID grouped digits,
// e.g. 1500000 -> "Rp1.500.000".
func FormatRupiah(amount float64) string {
	return rupiahPrinter.Sprintf("Rp%v", number.Decimal(amount))
}
