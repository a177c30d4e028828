package listing

import (
	"context"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/pkg/format"
	"github.com/jhoicas/po-console/pkg/table"
)

// OrderSource órdenes filtradas, sin paginar.
type OrderSource interface {
	ListAll(ctx context.Context, companyID string, in dto.OrderListRequest) ([]dto.OrderResponse, error)
}

// OrderRow fila del listado de órdenes.
type OrderRow struct {
	dto.OrderResponse
}

// Field respaldo por clave para las columnas de texto simple.
func (r OrderRow) Field(key string) (table.Value, bool) {
	switch key {
	case "orderNumber":
		return table.Text(r.OrderNumber), true
	case "title":
		return table.Text(r.Title), true
	case "vendorName":
		return textOrNull(r.VendorName), true
	case "projectName":
		return textOrNull(r.ProjectName), true
	case "userName":
		return textOrNull(r.UserName), true
	}
	return table.Value{}, false
}

// Deletable solo los borradores se pueden borrar o seleccionar.
func (r OrderRow) Deletable() bool {
	return r.EffectiveStatus == entity.OrderStatusDraft
}

// OrdersList listado de órdenes de compra.
type OrdersList struct {
	source OrderSource
	table  *table.Table[OrderRow]
}

// NewOrdersList construye el listado.
func NewOrdersList(source OrderSource) *OrdersList {
	cols := []table.Column[OrderRow]{
		{Key: "orderNumber", Header: "발주번호", Sortable: true, Searchable: true, Width: "160px"},
		{Key: "title", Header: "제목", Sortable: true, Searchable: true},
		{Key: "vendorName", Header: "거래처", Sortable: true, Searchable: true},
		{Key: "projectName", Header: "현장", Sortable: true, Searchable: true},
		{
			Key: "totalAmount", Header: "발주금액", Sortable: true, Align: table.AlignRight,
			Renderer: table.RenderFunc[OrderRow](func(_ *table.RenderContext, r OrderRow) table.Value {
				return table.Number(r.TotalAmount, format.Currency(r.TotalAmount))
			}),
		},
		{
			Key: "orderStatus", Header: "발주상태", Sortable: true, Searchable: true, Align: table.AlignCenter,
			Renderer: table.RenderFunc[OrderRow](func(_ *table.RenderContext, r OrderRow) table.Value {
				return label(format.OrderStatusLabels.Lookup(r.EffectiveStatus))
			}),
		},
		{
			Key: "approvalStatus", Header: "승인상태", Sortable: true, Searchable: true, Align: table.AlignCenter,
			Renderer: table.RenderFunc[OrderRow](func(_ *table.RenderContext, r OrderRow) table.Value {
				if r.ApprovalStatus == "" {
					return table.Null()
				}
				return label(format.ApprovalStatusLabels.Lookup(r.ApprovalStatus))
			}),
		},
		{
			Key: "orderDate", Header: "발주일", Sortable: true, Width: "120px",
			Renderer: table.RenderFunc[OrderRow](func(_ *table.RenderContext, r OrderRow) table.Value {
				return table.Time(r.OrderDate, format.Date(r.OrderDate))
			}),
		},
		{
			Key: "deliveryDate", Header: "납기일", Sortable: true, Width: "120px",
			Renderer: table.RenderFunc[OrderRow](func(_ *table.RenderContext, r OrderRow) table.Value {
				return table.TimePtr(r.DeliveryDate, format.DatePtr(r.DeliveryDate))
			}),
		},
		{
			Key: "emailSentAt", Header: "메일발송", Sortable: true,
			Renderer: table.RenderFunc[OrderRow](func(_ *table.RenderContext, r OrderRow) table.Value {
				return table.TimePtr(r.EmailSentAt, format.DateTimePtr(r.EmailSentAt))
			}),
		},
		{Key: "userName", Header: "작성자", Sortable: true, Searchable: true},
		{
			Key: "actions", Header: "관리", StopPropagation: true, Align: table.AlignCenter,
			Renderer: table.RenderFunc[OrderRow](func(*table.RenderContext, OrderRow) table.Value {
				return table.Text("상세 · 수정 · 삭제")
			}),
		},
	}
	tbl := table.New(cols, table.Config{
		Searchable:   true,
		Paginated:    true,
		StickyHeader: true,
		MaxHeight:    "70vh",
		EmptyMessage: "발주서가 없습니다.",
	})
	tbl.RowLink = func(r OrderRow) string { return "/orders/" + r.ID }
	return &OrdersList{source: source, table: tbl}
}

// Rows órdenes del filtro como filas.
func (l *OrdersList) Rows(ctx context.Context, companyID string, filter dto.OrderListRequest) ([]OrderRow, error) {
	list, err := l.source.ListAll(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]OrderRow, 0, len(list))
	for _, o := range list {
		rows = append(rows, OrderRow{OrderResponse: o})
	}
	return rows, nil
}

// View vista de tabla de órdenes. Las filas en borrador son seleccionables para el borrado masivo.
func (l *OrdersList) View(ctx context.Context, companyID string, filter dto.OrderListRequest, req dto.TableViewRequest) (*dto.TableView, error) {
	var rows []OrderRow
	if !req.Skeleton {
		var err error
		if rows, err = l.Rows(ctx, companyID, filter); err != nil {
			return nil, err
		}
	}
	return build(l.table, rows, req, rowSpec[OrderRow]{
		id: func(r OrderRow) string { return r.ID },
		actions: func(r OrderRow) []dto.TableAction {
			return []dto.TableAction{
				detailAction("/orders/" + r.ID),
				editAction("/orders/" + r.ID + "/edit"),
				deleteAction("/api/orders/"+r.ID, !r.Deletable()),
			}
		},
		selectable: OrderRow.Deletable,
	}), nil
}
