// Package format traduce valores de dominio a cadenas de presentación en coreano
// (moneda KRW, fechas cortas y etiquetas de estado).
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale de presentación de la consola.
var Locale = language.Korean

const (
	currencySymbol = "₩"
	emptyValue     = "-"
	dateLayout     = "2006. 1. 2."
	dateTimeLayout = "2006. 1. 2. 15:04"
)

var printer = message.NewPrinter(Locale)

// Currency formatea un monto en wones sin decimales: 40000 → "₩40,000".
func Currency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	if rounded.IsNegative() {
		return "-" + currencySymbol + printer.Sprintf("%d", rounded.Neg().IntPart())
	}
	return currencySymbol + printer.Sprintf("%d", rounded.IntPart())
}

// Number formatea un entero con separador de miles: 1234567 → "1,234,567".
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// Quantity formatea una cantidad que puede llevar decimales (máx. 2).
func Quantity(q decimal.Decimal) string {
	if q.Equal(q.Truncate(0)) {
		return Number(q.IntPart())
	}
	return q.Round(2).String()
}

// Date formatea una fecha en formato corto coreano: "2026. 10. 17.". Fecha cero → "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return emptyValue
	}
	return t.Format(dateLayout)
}

// DatePtr igual que Date para campos opcionales.
func DatePtr(t *time.Time) string {
	if t == nil {
		return emptyValue
	}
	return Date(*t)
}

// DateTime formatea fecha y hora: "2026. 10. 17. 14:05".
func DateTime(t time.Time) string {
	if t.IsZero() {
		return emptyValue
	}
	return t.Format(dateTimeLayout)
}

// DateTimePtr igual que DateTime para campos opcionales.
func DateTimePtr(t *time.Time) string {
	if t == nil {
		return emptyValue
	}
	return DateTime(*t)
}

// OrEmpty devuelve "-" cuando s está vacío.
func OrEmpty(s string) string {
	if s == "" {
		return emptyValue
	}
	return s
}
