package listing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/pkg/table"
)

type orderSourceStub struct {
	orders []dto.OrderResponse
	err    error
	calls  int
}

func (s *orderSourceStub) ListAll(context.Context, string, dto.OrderListRequest) ([]dto.OrderResponse, error) {
	s.calls++
	return s.orders, s.err
}

func day(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

func sampleOrders() []dto.OrderResponse {
	delivery := day(20)
	return []dto.OrderResponse{
		{ID: "o1", OrderNumber: "PO-20240601-001", Title: "철근", VendorName: "대한건재", TotalAmount: decimal.NewFromInt(10000), EffectiveStatus: "draft", OrderDate: day(1)},
		{ID: "o2", OrderNumber: "PO-20240602-001", Title: "레미콘", VendorName: "", TotalAmount: decimal.NewFromInt(25000), EffectiveStatus: "sent", ApprovalStatus: "approved", OrderDate: day(2), DeliveryDate: &delivery},
		{ID: "o3", OrderNumber: "PO-20240603-001", Title: "합판", VendorName: "한강자재", TotalAmount: decimal.NewFromInt(5000), EffectiveStatus: "draft", OrderDate: day(3)},
	}
}

func cell(row dto.TableRow, key string) table.Cell {
	for _, c := range row.Cells {
		if c.Key == key {
			return c
		}
	}
	return table.Cell{}
}

func ids(v *dto.TableView) []string {
	out := make([]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, r.ID)
	}
	return out
}

func TestOrdersView_TextosYAcciones(t *testing.T) {
	l := NewOrdersList(&orderSourceStub{orders: sampleOrders()})

	v, err := l.View(context.Background(), "c1", dto.OrderListRequest{}, dto.TableViewRequest{})
	require.NoError(t, err)
	require.Len(t, v.Rows, 3)
	assert.Equal(t, 3, v.TotalRows)
	assert.Equal(t, "light", v.Theme)

	r := v.Rows[1]
	assert.Equal(t, "o2", r.ID)
	assert.Equal(t, "/orders/o2", r.Href)
	assert.Equal(t, "₩25,000", cell(r, "totalAmount").Text)
	assert.Equal(t, "발주 완료", cell(r, "orderStatus").Text)
	assert.True(t, cell(r, "orderStatus").Badge)
	assert.Equal(t, "승인 완료", cell(r, "approvalStatus").Text)
	assert.Equal(t, "", cell(r, "vendorName").Text)
	assert.True(t, cell(r, "actions").StopPropagation)
	assert.False(t, r.Selectable)
	require.Len(t, r.Actions, 3)
	assert.True(t, r.Actions[2].Disabled)

	assert.True(t, v.Rows[0].Selectable)
	assert.False(t, v.Rows[0].Actions[2].Disabled)
	assert.Equal(t, "대한건재", cell(v.Rows[0], "vendorName").Text)
}

func TestOrdersView_OrdenYPaginacion(t *testing.T) {
	l := NewOrdersList(&orderSourceStub{orders: sampleOrders()})
	ctx := context.Background()

	v, err := l.View(ctx, "c1", dto.OrderListRequest{}, dto.TableViewRequest{Sort: "totalAmount", Dir: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"o2", "o1", "o3"}, ids(v))

	// sin proveedor queda al final también en orden descendente
	v, err = l.View(ctx, "c1", dto.OrderListRequest{}, dto.TableViewRequest{Sort: "vendorName", Dir: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "o2", v.Rows[2].ID)

	v, err = l.View(ctx, "c1", dto.OrderListRequest{}, dto.TableViewRequest{PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"o3"}, ids(v))
	require.NotNil(t, v.Pagination)
	assert.Equal(t, 2, v.Pagination.PageCount)
	assert.True(t, v.Pagination.HasPrevious)
	assert.False(t, v.Pagination.HasNext)
}

func TestOrdersView_BuscaPorEtiqueta(t *testing.T) {
	l := NewOrdersList(&orderSourceStub{orders: sampleOrders()})

	v, err := l.View(context.Background(), "c1", dto.OrderListRequest{}, dto.TableViewRequest{Query: "임시"})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o3"}, ids(v))

	v, err = l.View(context.Background(), "c1", dto.OrderListRequest{}, dto.TableViewRequest{Query: "없는값"})
	require.NoError(t, err)
	assert.True(t, v.Empty)
	assert.Equal(t, "발주서가 없습니다.", v.EmptyMessage)
}

func TestOrdersView_EsqueletoSinConsultar(t *testing.T) {
	src := &orderSourceStub{orders: sampleOrders()}
	l := NewOrdersList(src)

	v, err := l.View(context.Background(), "c1", dto.OrderListRequest{}, dto.TableViewRequest{Skeleton: true, Theme: "dark"})
	require.NoError(t, err)
	assert.True(t, v.Loading)
	require.NotNil(t, v.Skeleton)
	assert.Equal(t, len(v.Headers), v.Skeleton.Columns)
	assert.Empty(t, v.Rows)
	assert.Equal(t, "dark", v.Theme)
	assert.Zero(t, src.calls)
}

func TestOrdersView_TemaOscuro(t *testing.T) {
	l := NewOrdersList(&orderSourceStub{orders: sampleOrders()})

	light, err := l.View(context.Background(), "c1", dto.OrderListRequest{}, dto.TableViewRequest{})
	require.NoError(t, err)
	dark, err := l.View(context.Background(), "c1", dto.OrderListRequest{}, dto.TableViewRequest{Theme: "dark"})
	require.NoError(t, err)
	assert.NotEqual(t, cell(light.Rows[0], "orderStatus").Class, cell(dark.Rows[0], "orderStatus").Class)
}

func TestOrdersView_ErrorDeOrigen(t *testing.T) {
	boom := errors.New("db caída")
	l := NewOrdersList(&orderSourceStub{err: boom})

	_, err := l.View(context.Background(), "c1", dto.OrderListRequest{}, dto.TableViewRequest{})
	assert.ErrorIs(t, err, boom)
}

type vendorSourceStub []dto.VendorResponse

func (s vendorSourceStub) List(context.Context, string, dto.VendorListRequest) ([]dto.VendorResponse, error) {
	return s, nil
}

func TestVendorsView(t *testing.T) {
	l := NewVendorsList(vendorSourceStub{
		{ID: "v1", Name: "대한건재", BusinessNumber: "220-81-62517", VendorType: "거래처", IsActive: true},
		{ID: "v2", Name: "한강자재", VendorType: "납품처"},
	})

	v, err := l.View(context.Background(), "c1", dto.VendorListRequest{}, dto.TableViewRequest{Query: "220-81"})
	require.NoError(t, err)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "활성", cell(v.Rows[0], "isActive").Text)

	v, err = l.View(context.Background(), "c1", dto.VendorListRequest{}, dto.TableViewRequest{Sort: "isActive", Dir: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "v1"}, ids(v))
	assert.Equal(t, "비활성", cell(v.Rows[0], "isActive").Text)
}

type itemSourceStub []dto.ItemResponse

func (s itemSourceStub) List(context.Context, string, dto.ItemListRequest) ([]dto.ItemResponse, error) {
	return s, nil
}

func TestItemsView(t *testing.T) {
	l := NewItemsList(itemSourceStub{
		{ID: "i1", Name: "철근 D13", CategoryPath: "철강 > 철근", StandardPrice: decimal.NewFromInt(950000), IsActive: true},
		{ID: "i2", Name: "합판 12T", CategoryPath: "목재", StandardPrice: decimal.NewFromInt(18000), IsActive: true},
	})

	v, err := l.View(context.Background(), "c1", dto.ItemListRequest{}, dto.TableViewRequest{Query: "철강"})
	require.NoError(t, err)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "₩950,000", cell(v.Rows[0], "standardPrice").Text)
	assert.Equal(t, 20, v.Pagination.PageSize)
}

type templateSourceStub []dto.TemplateResponse

func (s templateSourceStub) List(context.Context, string, dto.TemplateListRequest) ([]dto.TemplateResponse, error) {
	return s, nil
}

func TestTemplatesView_AccionDeEstado(t *testing.T) {
	l := NewTemplatesList(templateSourceStub{
		{ID: "t1", TemplateName: "기본", TemplateType: "handsontable", IsActive: true},
		{ID: "t2", TemplateName: "현장", TemplateType: "general"},
	})

	v, err := l.View(context.Background(), "c1", dto.TemplateListRequest{}, dto.TableViewRequest{})
	require.NoError(t, err)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "엑셀형", cell(v.Rows[0], "templateType").Text)
	assert.Equal(t, "비활성화", v.Rows[0].Actions[1].Label)
	assert.Equal(t, "활성화", v.Rows[1].Actions[1].Label)
	assert.Equal(t, "PATCH", v.Rows[1].Actions[1].Method)
}
