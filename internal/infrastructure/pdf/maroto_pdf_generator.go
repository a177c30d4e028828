// Package pdf genera el documento de orden de compra (발주서) en A4.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  발주서 + empresa emisora   │  N° de orden + fechas           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: nombre, BRN, contacto │ PROYECTO / lugar entrega   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: No | Ítem | Especificación | Unidad | Cant | P.U | Monto │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + notas                                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/pkg/format"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeadBG  = &props.Color{Red: 229, Green: 231, Blue: 235}
)

const customFamily = "po-font"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator genera el PDF de la orden con Maroto v2.
type MarotoPDFGenerator struct {
	fontPath string
}

// NewMarotoPDFGenerator construye el generador. fontPath (TTF) es opcional;
// sin él los textos coreanos no se dibujan correctamente.
func NewMarotoPDFGenerator(fontPath string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{fontPath: fontPath}
}

// GenerateOrderPDF genera el PDF y devuelve sus bytes. vendor puede ser nil.
func (g *MarotoPDFGenerator) GenerateOrderPDF(
	_ context.Context,
	order *entity.Order,
	company *entity.Company,
	vendor *entity.Vendor,
) ([]byte, error) {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithTitle("발주서 "+order.OrderNumber, true).
		WithAuthor(company.Name, true)

	if g.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(customFamily, fontstyle.Normal, g.fontPath).
			AddUTF8Font(customFamily, fontstyle.Bold, g.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente: %w", err)
		}
		b = b.WithCustomFonts(fonts).WithDefaultFont(&props.Font{Family: customFamily, Size: 9})
	} else {
		b = b.WithDefaultFont(&props.Font{Family: "helvetica", Size: 9})
	}

	m := maroto.New(b.Build())

	m.AddRows(headerRow(order, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(order, vendor))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(order.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(order))
	if order.Notes != "" {
		m.AddRows(notesRows(order.Notes)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(order *entity.Order, company *entity.Company) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New("발주서", props.Text{Style: fontstyle.Bold, Size: 16, Color: colorPrimary, Top: 1}),
			text.New(company.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 10}),
			text.New(fmt.Sprintf("사업자등록번호: %s   |   Tel: %s",
				format.OrEmpty(company.BusinessNumber), format.OrEmpty(company.Phone),
			), props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(order.OrderNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1}),
			text.New("발주일: "+format.Date(order.OrderDate), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
			text.New("납기일: "+format.DatePtr(order.DeliveryDate), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func partiesRow(order *entity.Order, vendor *entity.Vendor) core.Row {
	vendorName := order.VendorName
	vendorLine := "-"
	if vendor != nil {
		vendorName = vendor.Name
		vendorLine = fmt.Sprintf("%s   |   %s   |   %s",
			format.OrEmpty(vendor.BusinessNumber), format.OrEmpty(vendor.ContactPerson), format.OrEmpty(vendor.Phone))
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("공급처", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(format.OrEmpty(vendorName), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(vendorLine, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("현장 / 납품장소", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(format.OrEmpty(order.ProjectName), props.Text{Size: 10, Top: 6}),
			text.New(format.OrEmpty(order.DeliveryPlace), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("No", 1, align.Center),
		h("품목", 3, align.Left),
		h("규격", 2, align.Left),
		h("단위", 1, align.Center),
		h("수량", 1, align.Right),
		h("단가", 2, align.Right),
		h("금액", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeadBG})
}

func tableItemRows(items []entity.OrderItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(it.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Specification, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(format.Quantity(it.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(format.Currency(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(format.Currency(it.TotalAmount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalRow(order *entity.Order) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("합계", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(format.Currency(order.TotalAmount), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func notesRows(notes string) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("비고", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
		row.New(12).Add(col.New(12).Add(
			text.New(notes, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)),
	}
}
