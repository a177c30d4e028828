// Package orderform normaliza las tres modalidades de captura de órdenes (formulario por filas,
// hoja de cálculo y plantilla) en un único Payload de cabecera + líneas.
package orderform

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
)

// Modalidades de captura.
const (
	ModeStandard = "standard"
	ModeGrid     = "grid"
	ModeTemplate = "template"
)

// Payload resultado común de las tres modalidades: lo que recibe la creación de órdenes.
type Payload struct {
	Header     dto.OrderHeaderInput
	Items      []dto.OrderItemInput
	TemplateID string
}

// FromRequest construye el Payload según req.Mode. tpl solo se usa en modo template.
func FromRequest(req dto.CreateOrderRequest, tpl *entity.OrderTemplate) (*Payload, error) {
	switch req.Mode {
	case "", ModeStandard:
		f := &StandardForm{Header: req.Header, Rows: req.Items}
		return f.Payload()
	case ModeGrid:
		if req.Grid == nil {
			return nil, fmt.Errorf("%w: grid vacío", domain.ErrInvalidInput)
		}
		g, err := NewGrid(req.Grid.Columns, req.Grid.Rows)
		if err != nil {
			return nil, err
		}
		return g.Payload(req.Header)
	case ModeTemplate:
		if tpl == nil {
			return nil, fmt.Errorf("%w: plantilla requerida", domain.ErrInvalidInput)
		}
		f, err := NewTemplateForm(tpl)
		if err != nil {
			return nil, err
		}
		return f.Payload(req.Header, req.Values, req.ItemValues)
	default:
		return nil, fmt.Errorf("%w: modo %q", domain.ErrInvalidInput, req.Mode)
	}
}

// ParseDate acepta YYYY-MM-DD y el formato de fecha coreano que produce la exportación (2024. 6. 3.).
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", "2006. 1. 2.", "2006.1.2", "2006/01/02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("fecha inválida: %s", s)
}

// parseAmount interpreta cantidades y precios escritos a mano: admite separadores de miles y ₩.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "₩", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// checkLine validación mínima compartida por las modalidades al normalizar una línea.
func checkLine(verrs *dto.ValidationErrors, field string, it dto.OrderItemInput) {
	if strings.TrimSpace(it.ItemName) == "" && it.ItemID == "" {
		verrs.Add(field+".itemName", "품목명을 입력하세요.")
	}
	if !it.Quantity.IsPositive() {
		verrs.Add(field+".quantity", "수량은 0보다 커야 합니다.")
	}
	if it.UnitPrice.IsNegative() {
		verrs.Add(field+".unitPrice", "단가는 0 이상이어야 합니다.")
	}
}
