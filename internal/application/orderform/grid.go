package orderform

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/infrastructure/excel"
)

// Columnas reconocidas de la hoja.
const (
	ColItemName      = "itemName"
	ColSpecification = "specification"
	ColUnit          = "unit"
	ColQuantity      = "quantity"
	ColUnitPrice     = "unitPrice"
	ColTotal         = "totalAmount"
	ColDeliveryDate  = "deliveryDate"
	ColNotes         = "notes"
)

// DefaultGridColumns columnas de una hoja nueva.
var DefaultGridColumns = []string{"품목", "규격", "단위", "수량", "단가", "금액", "납기일", "비고"}

var columnAliases = map[string]string{
	"품목": ColItemName, "품목명": ColItemName, "품명": ColItemName, "itemname": ColItemName,
	"규격": ColSpecification, "specification": ColSpecification,
	"단위": ColUnit, "unit": ColUnit,
	"수량": ColQuantity, "quantity": ColQuantity,
	"단가": ColUnitPrice, "unitprice": ColUnitPrice,
	"금액": ColTotal, "합계금액": ColTotal, "totalamount": ColTotal,
	"납기일": ColDeliveryDate, "deliverydate": ColDeliveryDate,
	"비고": ColNotes, "notes": ColNotes,
}

func canonicalColumn(header string) string {
	h := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(header), " ", ""))
	return columnAliases[h]
}

// Grid hoja de cálculo de líneas. La columna de total se deriva de cantidad × precio.
type Grid struct {
	Columns []string
	Rows    [][]string
	index   map[string]int // columna reconocida -> posición
}

// NewGrid mapea las cabeceras; cantidad y precio son obligatorias.
func NewGrid(columns []string, rows [][]string) (*Grid, error) {
	if len(columns) == 0 {
		columns = DefaultGridColumns
	}
	g := &Grid{Columns: columns, index: map[string]int{}}
	for i, c := range columns {
		if key := canonicalColumn(c); key != "" {
			if _, dup := g.index[key]; !dup {
				g.index[key] = i
			}
		}
	}
	for _, key := range []string{ColItemName, ColQuantity, ColUnitPrice} {
		if _, ok := g.index[key]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %s", domain.ErrInvalidInput, key)
		}
	}
	for _, r := range rows {
		g.Rows = append(g.Rows, g.pad(r))
	}
	return g, nil
}

// GridFromXLSX importa la primera hoja de un libro: la primera fila con cabeceras reconocibles
// es la cabecera; se ignoran las filas previas (metadatos) y la fila de 합계.
func GridFromXLSX(r io.Reader) (*Grid, error) {
	rows, err := excel.ReadRows(r)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		known := 0
		for _, c := range row {
			if canonicalColumn(c) != "" {
				known++
			}
		}
		if known < 3 {
			continue
		}
		g, err := NewGrid(row, nil)
		if err != nil {
			continue
		}
		for _, data := range rows[i+1:] {
			if len(data) > 0 && strings.TrimSpace(data[0]) == "합계" {
				continue
			}
			g.Rows = append(g.Rows, g.pad(data))
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: no se encontró la fila de cabecera", domain.ErrInvalidInput)
}

func (g *Grid) pad(r []string) []string {
	out := make([]string, len(g.Columns))
	copy(out, r)
	return out
}

// AddRow agrega una fila vacía.
func (g *Grid) AddRow() {
	g.Rows = append(g.Rows, make([]string, len(g.Columns)))
}

// SetCell escribe un valor y recalcula la columna de total de esa fila.
func (g *Grid) SetCell(row, col int, value string) error {
	if row < 0 || col < 0 || col >= len(g.Columns) {
		return fmt.Errorf("%w: celda (%d,%d)", domain.ErrInvalidInput, row, col)
	}
	for row >= len(g.Rows) {
		g.AddRow()
	}
	g.Rows[row][col] = value
	g.recompute(row)
	return nil
}

func (g *Grid) recompute(row int) {
	ti, ok := g.index[ColTotal]
	if !ok {
		return
	}
	qty, err1 := parseAmount(g.cell(row, ColQuantity))
	price, err2 := parseAmount(g.cell(row, ColUnitPrice))
	if err1 != nil || err2 != nil || (g.cell(row, ColQuantity) == "" && g.cell(row, ColUnitPrice) == "") {
		g.Rows[row][ti] = ""
		return
	}
	g.Rows[row][ti] = qty.Mul(price).String()
}

func (g *Grid) cell(row int, key string) string {
	i, ok := g.index[key]
	if !ok || row >= len(g.Rows) {
		return ""
	}
	return strings.TrimSpace(g.Rows[row][i])
}

func (g *Grid) emptyRow(row int) bool {
	for _, c := range g.Rows[row] {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Total suma la columna derivada de todas las filas no vacías.
func (g *Grid) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range g.Rows {
		qty, _ := parseAmount(g.cell(i, ColQuantity))
		price, _ := parseAmount(g.cell(i, ColUnitPrice))
		total = total.Add(qty.Mul(price))
	}
	return total
}

// Payload convierte las filas no vacías en líneas, acumulando los errores por celda.
func (g *Grid) Payload(header dto.OrderHeaderInput) (*Payload, error) {
	var verrs dto.ValidationErrors
	var items []dto.OrderItemInput
	for i := range g.Rows {
		if g.emptyRow(i) {
			continue
		}
		field := fmt.Sprintf("grid[%d]", i)
		qty, err := parseAmount(g.cell(i, ColQuantity))
		if err != nil {
			verrs.Add(field+".quantity", "수량이 숫자가 아닙니다.")
			continue
		}
		price, err := parseAmount(g.cell(i, ColUnitPrice))
		if err != nil {
			verrs.Add(field+".unitPrice", "단가가 숫자가 아닙니다.")
			continue
		}
		it := dto.OrderItemInput{
			ItemName:      g.cell(i, ColItemName),
			Specification: g.cell(i, ColSpecification),
			Unit:          g.cell(i, ColUnit),
			Quantity:      qty,
			UnitPrice:     price,
			Notes:         g.cell(i, ColNotes),
		}
		if d := g.cell(i, ColDeliveryDate); d != "" {
			parsed, err := ParseDate(d)
			if err != nil {
				verrs.Add(field+".deliveryDate", "납기일 형식이 올바르지 않습니다.")
				continue
			}
			if parsed != nil {
				it.DeliveryDate = parsed.Format("2006-01-02")
			}
		}
		checkLine(&verrs, field, it)
		items = append(items, it)
	}
	if len(items) == 0 && len(verrs) == 0 {
		verrs.Add("grid", "품목을 하나 이상 입력하세요.")
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}
	return &Payload{Header: header, Items: items}, nil
}
