// Package excel genera y lee libros xlsx de órdenes con excelize.
package excel

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/pkg/format"
)

const (
	ordersSheet = "발주목록"
	orderSheet  = "발주서"
)

var ordersHeaders = []string{"발주번호", "제목", "거래처", "현장", "담당자", "발주일", "납기일", "상태", "결재", "금액"}

var itemHeaders = []string{"No", "품목", "규격", "단위", "수량", "단가", "금액", "납기일", "비고"}

// ContentType MIME de los libros generados.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportOrders genera el listado de órdenes (una fila por orden) con fila de total.
func ExportOrders(orders []*entity.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	if err := writeHeader(f, ordersSheet, ordersHeaders); err != nil {
		return nil, err
	}

	var total float64
	for i, o := range orders {
		r := i + 2
		values := []any{
			o.OrderNumber, o.Title, o.VendorName, o.ProjectName, o.UserName,
			format.Date(o.OrderDate), format.DatePtr(o.DeliveryDate),
			format.OrderStatusLabels.Lookup(o.EffectiveOrderStatus()).Text,
			format.ApprovalStatusLabels.Lookup(o.ApprovalStatus).Text,
			o.TotalAmount.InexactFloat64(),
		}
		if err := f.SetSheetRow(ordersSheet, cell(1, r), &values); err != nil {
			return nil, fmt.Errorf("excel: escribir fila %d: %w", r, err)
		}
		total += o.TotalAmount.InexactFloat64()
	}
	if err := writeTotal(f, ordersSheet, len(orders)+2, len(ordersHeaders), total); err != nil {
		return nil, err
	}
	setWidths(f, ordersSheet, []float64{20, 28, 20, 20, 12, 14, 14, 10, 10, 16})
	return toBytes(f)
}

// ExportOrder genera el libro de una sola orden (cabecera + líneas), usado como adjunto de correo.
func ExportOrder(order *entity.Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", orderSheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	meta := [][]any{
		{"발주번호", order.OrderNumber},
		{"제목", order.Title},
		{"거래처", order.VendorName},
		{"현장", order.ProjectName},
		{"발주일", format.Date(order.OrderDate)},
		{"납기일", format.DatePtr(order.DeliveryDate)},
		{"납품장소", format.OrEmpty(order.DeliveryPlace)},
	}
	for i, m := range meta {
		if err := f.SetSheetRow(orderSheet, cell(1, i+1), &m); err != nil {
			return nil, fmt.Errorf("excel: escribir cabecera: %w", err)
		}
	}

	start := len(meta) + 2
	if err := writeHeaderAt(f, orderSheet, itemHeaders, start); err != nil {
		return nil, err
	}
	for i, it := range order.Items {
		r := start + 1 + i
		values := []any{
			i + 1, it.ItemName, it.Specification, it.Unit,
			it.Quantity.InexactFloat64(), it.UnitPrice.InexactFloat64(), it.TotalAmount.InexactFloat64(),
			format.DatePtr(it.DeliveryDate), it.Notes,
		}
		if err := f.SetSheetRow(orderSheet, cell(1, r), &values); err != nil {
			return nil, fmt.Errorf("excel: escribir línea %d: %w", i+1, err)
		}
	}
	if err := writeTotal(f, orderSheet, start+1+len(order.Items), 7, order.TotalAmount.InexactFloat64()); err != nil {
		return nil, err
	}
	setWidths(f, orderSheet, []float64{12, 28, 20, 8, 10, 14, 16, 14, 24})
	return toBytes(f)
}

// ReadRows lee la primera hoja del libro. Las filas totalmente vacías se omiten y
// las celdas se recortan.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel: abrir libro: %w", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("excel: leer hoja: %w", err)
	}
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		empty := true
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
			if row[i] != "" {
				empty = false
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	return writeHeaderAt(f, sheet, headers, 1)
}

func writeHeaderAt(f *excelize.File, sheet string, headers []string, row int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo cabecera: %w", err)
	}
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
		return fmt.Errorf("excel: escribir cabecera: %w", err)
	}
	return f.SetCellStyle(sheet, cell(1, row), cell(len(headers), row), style)
}

func writeTotal(f *excelize.File, sheet string, row, col int, total float64) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: estilo total: %w", err)
	}
	if err := f.SetCellValue(sheet, cell(1, row), "합계"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell(col, row), total); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell(1, row), cell(col, row), style)
}

func setWidths(f *excelize.File, sheet string, widths []float64) {
	for i, w := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, w)
	}
}

func toBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: serializar libro: %w", err)
	}
	return buf.Bytes(), nil
}
