package orderform

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
)

// StandardForm formulario por filas: cada fila es una línea de la orden.
type StandardForm struct {
	Header dto.OrderHeaderInput
	Rows   []dto.OrderItemInput
}

// NewStandardForm formulario con una fila vacía.
func NewStandardForm() *StandardForm {
	return &StandardForm{Rows: []dto.OrderItemInput{emptyRow()}}
}

func emptyRow() dto.OrderItemInput {
	return dto.OrderItemInput{Quantity: decimal.NewFromInt(1)}
}

// AddRow agrega una fila vacía al final.
func (f *StandardForm) AddRow() {
	f.Rows = append(f.Rows, emptyRow())
}

// RemoveRow quita la fila i; siempre queda al menos una.
func (f *StandardForm) RemoveRow(i int) error {
	if i < 0 || i >= len(f.Rows) {
		return fmt.Errorf("%w: fila %d", domain.ErrInvalidInput, i)
	}
	if len(f.Rows) == 1 {
		f.Rows[0] = emptyRow()
		return nil
	}
	f.Rows = append(f.Rows[:i], f.Rows[i+1:]...)
	return nil
}

// CopyRow inserta una copia de la fila i justo debajo.
func (f *StandardForm) CopyRow(i int) error {
	if i < 0 || i >= len(f.Rows) {
		return fmt.Errorf("%w: fila %d", domain.ErrInvalidInput, i)
	}
	f.Rows = append(f.Rows, dto.OrderItemInput{})
	copy(f.Rows[i+2:], f.Rows[i+1:])
	f.Rows[i+1] = f.Rows[i]
	return nil
}

// Total suma cantidad × precio de todas las filas.
func (f *StandardForm) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range f.Rows {
		total = total.Add(r.Quantity.Mul(r.UnitPrice))
	}
	return total
}

// Payload valida las filas y devuelve el payload. Las filas sin nombre ni ítem se descartan.
func (f *StandardForm) Payload() (*Payload, error) {
	var verrs dto.ValidationErrors
	items := make([]dto.OrderItemInput, 0, len(f.Rows))
	for i, r := range f.Rows {
		if strings.TrimSpace(r.ItemName) == "" && r.ItemID == "" && r.UnitPrice.IsZero() {
			continue
		}
		checkLine(&verrs, fmt.Sprintf("items[%d]", i), r)
		items = append(items, r)
	}
	if len(items) == 0 {
		verrs.Add("items", "품목을 하나 이상 입력하세요.")
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}
	return &Payload{Header: f.Header, Items: items}, nil
}
