// Package table implementa la tabla de datos genérica usada por los listados de la consola:
// búsqueda libre, ordenamiento por columna con ciclo asc → desc → sin orden, paginación con
// ventana deslizante de 5 páginas, estados de carga/vacío y clic de fila.
package table

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind discrimina la variante de Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindTime
	KindBool
)

// Value es el valor de una celda: variante etiquetada con el dato crudo (para ordenar)
// y el texto de presentación (para mostrar y buscar).
type Value struct {
	Kind   Kind
	Text   string
	Number decimal.Decimal
	Time   time.Time
	Bool   bool
	Label  string // texto de presentación; si está vacío se deriva del dato
	Tone   string // tono de la insignia (format.Tone); vacío = texto plano
}

// Null valor ausente. Siempre se ordena al final.
func Null() Value { return Value{Kind: KindNull} }

// Text valor de texto.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number valor numérico con su texto de presentación (ej. moneda formateada).
func Number(d decimal.Decimal, label string) Value {
	return Value{Kind: KindNumber, Number: d, Label: label}
}

// Int valor numérico entero.
func Int(n int64) Value { return Value{Kind: KindNumber, Number: decimal.NewFromInt(n)} }

// Time valor de fecha con su texto de presentación.
func Time(t time.Time, label string) Value {
	if t.IsZero() {
		return Null()
	}
	return Value{Kind: KindTime, Time: t, Label: label}
}

// TimePtr igual que Time para campos opcionales.
func TimePtr(t *time.Time, label string) Value {
	if t == nil {
		return Null()
	}
	return Time(*t, label)
}

// Bool valor booleano con su texto de presentación.
func Bool(b bool, label string) Value { return Value{Kind: KindBool, Bool: b, Label: label} }

// WithTone devuelve una copia con tono de insignia.
func (v Value) WithTone(tone string) Value {
	v.Tone = tone
	return v
}

// IsNull informa si el valor está ausente.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Display texto que se muestra en la celda.
func (v Value) Display() string {
	if v.Label != "" {
		return v.Label
	}
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number.String()
	case KindTime:
		return v.Time.Format("2006-01-02")
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Compare compara dos valores no nulos: -1, 0 o 1. Valores de distinta variante se comparan
// por su texto de presentación.
func Compare(a, b Value) int {
	if a.Kind != b.Kind {
		return strings.Compare(a.Display(), b.Display())
	}
	switch a.Kind {
	case KindNumber:
		return a.Number.Cmp(b.Number)
	case KindTime:
		return a.Time.Compare(b.Time)
	case KindBool:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		default:
			return 1
		}
	case KindText:
		return strings.Compare(a.Text, b.Text)
	default:
		return 0
	}
}

func (v Value) contains(lowerQuery string) bool {
	if v.IsNull() {
		return false
	}
	return strings.Contains(strings.ToLower(v.Display()), lowerQuery)
}
