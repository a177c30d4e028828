package orderform

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/infrastructure/excel"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── StandardForm ─────────────────────────────────────────────────────────────

func TestStandardForm_AddRemoveCopy(t *testing.T) {
	f := NewStandardForm()
	require.Len(t, f.Rows, 1)

	f.Rows[0] = dto.OrderItemInput{ItemName: "철근", Quantity: dec("2"), UnitPrice: dec("5000")}
	require.NoError(t, f.CopyRow(0))
	f.AddRow()
	require.Len(t, f.Rows, 3)
	assert.Equal(t, "철근", f.Rows[1].ItemName)
	assert.True(t, dec("20000").Equal(f.Total()))

	require.NoError(t, f.RemoveRow(2))
	require.NoError(t, f.RemoveRow(1))
	require.NoError(t, f.RemoveRow(0))
	require.Len(t, f.Rows, 1, "siempre queda una fila")
	assert.Empty(t, f.Rows[0].ItemName)
	assert.ErrorIs(t, f.RemoveRow(5), domain.ErrInvalidInput)
}

func TestStandardForm_Payload(t *testing.T) {
	f := &StandardForm{
		Header: dto.OrderHeaderInput{Title: "자재 발주"},
		Rows: []dto.OrderItemInput{
			{ItemName: "시멘트", Quantity: dec("10"), UnitPrice: dec("1000")},
			{Quantity: dec("1")}, // vacía, se descarta
		},
	}
	p, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "자재 발주", p.Header.Title)
	assert.Len(t, p.Items, 1)

	f.Rows = []dto.OrderItemInput{{ItemName: "시멘트", Quantity: dec("0"), UnitPrice: dec("1000")}}
	_, err = f.Payload()
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "items[0].quantity", verrs[0].Field)
}

// ── Grid ─────────────────────────────────────────────────────────────────────

func TestGrid_SetCellRecomputesTotal(t *testing.T) {
	g, err := NewGrid(nil, nil)
	require.NoError(t, err)

	require.NoError(t, g.SetCell(0, 0, "합판"))
	require.NoError(t, g.SetCell(0, 3, "3"))
	require.NoError(t, g.SetCell(0, 4, "12,000"))
	assert.Equal(t, "36000", g.Rows[0][5])

	require.NoError(t, g.SetCell(0, 3, "abc"))
	assert.Empty(t, g.Rows[0][5])

	require.Error(t, g.SetCell(0, 99, "x"))
}

func TestGrid_PayloadSkipsEmptyRows(t *testing.T) {
	g, err := NewGrid([]string{"품목", "수량", "단가", "납기일"}, [][]string{
		{"각목", "5", "2000", "2024-07-01"},
		{"", "", "", ""},
		{"못", "100", "50"},
	})
	require.NoError(t, err)

	p, err := g.Payload(dto.OrderHeaderInput{Title: "현장 자재"})
	require.NoError(t, err)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "2024-07-01", p.Items[0].DeliveryDate)
	assert.True(t, dec("15000").Equal(g.Total()))
}

func TestGrid_RequiresKnownColumns(t *testing.T) {
	_, err := NewGrid([]string{"품목", "비고"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGrid_PayloadReportsBadCells(t *testing.T) {
	g, err := NewGrid([]string{"품목", "수량", "단가"}, [][]string{{"각목", "다섯", "2000"}})
	require.NoError(t, err)
	_, err = g.Payload(dto.OrderHeaderInput{})
	var verrs dto.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "grid[0].quantity", verrs[0].Field)
}

func TestGridFromXLSX_RoundTripsExport(t *testing.T) {
	delivery := time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local)
	o := &entity.Order{
		OrderNumber: "PO-20240601-001",
		Title:       "자재",
		OrderDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local),
		Items: []entity.OrderItem{
			{LineNo: 1, ItemName: "철근", Unit: "톤", Quantity: dec("2"), UnitPrice: dec("850000"), DeliveryDate: &delivery},
			{LineNo: 2, ItemName: "레미콘", Unit: "㎥", Quantity: dec("12"), UnitPrice: dec("90000")},
		},
	}
	o.RecalculateTotals()
	data, err := excel.ExportOrder(o)
	require.NoError(t, err)

	g, err := GridFromXLSX(bytes.NewReader(data))
	require.NoError(t, err)
	p, err := g.Payload(dto.OrderHeaderInput{})
	require.NoError(t, err)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "철근", p.Items[0].ItemName)
	assert.True(t, dec("850000").Equal(p.Items[0].UnitPrice))
	assert.True(t, o.TotalAmount.Equal(g.Total()))
}

// ── TemplateForm ─────────────────────────────────────────────────────────────

func testTemplate(t *testing.T) *entity.OrderTemplate {
	t.Helper()
	fields := []entity.TemplateField{
		{Key: "title", Label: "제목", Type: entity.FieldText, Required: true, Order: 1},
		{Key: "site", Label: "현장구분", Type: entity.FieldSelect, Options: []string{"본사", "현장"}, DefaultValue: "현장", Order: 2},
		{Key: "itemName", Label: "품목", Type: entity.FieldText, Section: entity.SectionItem, Required: true},
		{Key: "quantity", Label: "수량", Type: entity.FieldNumber, Section: entity.SectionItem, Required: true},
		{Key: "unitPrice", Label: "단가", Type: entity.FieldNumber, Section: entity.SectionItem},
		{Key: "color", Label: "색상", Type: entity.FieldText, Section: entity.SectionItem},
	}
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	return &entity.OrderTemplate{ID: "tpl1", TemplateName: "기본", TemplateType: entity.TemplateTypeGeneral, FieldsConfig: raw, IsActive: true}
}

func TestTemplateForm_RequiredFields(t *testing.T) {
	f, err := NewTemplateForm(testTemplate(t))
	require.NoError(t, err)
	assert.Len(t, f.HeaderFields, 2)
	assert.Len(t, f.ItemFields, 4)

	verrs := f.Validate(map[string]string{"site": "지사"}, []map[string]string{{"itemName": "페인트"}})
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	assert.True(t, fields["values.title"])
	assert.True(t, fields["values.site"])
	assert.True(t, fields["itemValues[0].quantity"])
}

func TestTemplateForm_Payload(t *testing.T) {
	f, err := NewTemplateForm(testTemplate(t))
	require.NoError(t, err)

	p, err := f.Payload(dto.OrderHeaderInput{VendorID: "v1"},
		map[string]string{"title": "도장 자재"},
		[]map[string]string{{"itemName": "페인트", "quantity": "4", "unitPrice": "25,000", "color": "흰색"}, {}},
	)
	require.NoError(t, err)
	assert.Equal(t, "도장 자재", p.Header.Title)
	assert.Equal(t, "v1", p.Header.VendorID)
	assert.Equal(t, "tpl1", p.TemplateID)
	require.Len(t, p.Items, 1)
	assert.True(t, dec("25000").Equal(p.Items[0].UnitPrice))
	assert.JSONEq(t, `{"values":{"site":"현장"},"items":[{"color":"흰색"}]}`, string(p.Header.CustomFields))
}

func TestNewTemplateForm_RejectsInactiveAndInvalid(t *testing.T) {
	tpl := testTemplate(t)
	tpl.IsActive = false
	_, err := NewTemplateForm(tpl)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParseFields(json.RawMessage(`[{"key":"a","label":"A","type":"color"}]`))
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
	_, err = ParseFields(json.RawMessage(`{"key":"a"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidTemplate)
}

func TestFromRequest_Modes(t *testing.T) {
	_, err := FromRequest(dto.CreateOrderRequest{Mode: "voice"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = FromRequest(dto.CreateOrderRequest{Mode: ModeTemplate}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := FromRequest(dto.CreateOrderRequest{
		Mode: ModeGrid,
		Grid: &dto.GridInput{Columns: []string{"품목", "수량", "단가"}, Rows: [][]string{{"못", "10", "100"}}},
	}, nil)
	require.NoError(t, err)
	assert.Len(t, p.Items, 1)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024. 6. 3.")
	require.NoError(t, err)
	assert.Equal(t, time.June, d.Month())

	d, err = ParseDate("-")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("3 de junio")
	assert.Error(t, err)
}
