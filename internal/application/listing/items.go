package listing

import (
	"context"
	"strconv"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/pkg/format"
	"github.com/jhoicas/po-console/pkg/table"
)

// ItemSource ítems filtrados.
type ItemSource interface {
	List(ctx context.Context, companyID string, in dto.ItemListRequest) ([]dto.ItemResponse, error)
}

// ItemRow fila del catálogo.
type ItemRow struct {
	dto.ItemResponse
}

// Field respaldo por clave.
func (r ItemRow) Field(key string) (table.Value, bool) {
	switch key {
	case "name":
		return table.Text(r.Name), true
	case "categoryPath":
		return textOrNull(r.CategoryPath), true
	case "specification":
		return textOrNull(r.Specification), true
	case "unit":
		return textOrNull(r.Unit), true
	}
	return table.Value{}, false
}

// ItemsList listado del catálogo de ítems.
type ItemsList struct {
	source ItemSource
	table  *table.Table[ItemRow]
}

// NewItemsList construye el listado.
func NewItemsList(source ItemSource) *ItemsList {
	cols := []table.Column[ItemRow]{
		{Key: "name", Header: "품목명", Sortable: true, Searchable: true},
		{Key: "categoryPath", Header: "분류", Sortable: true, Searchable: true},
		{Key: "specification", Header: "규격", Searchable: true},
		{Key: "unit", Header: "단위", Align: table.AlignCenter, Width: "80px"},
		{
			Key: "standardPrice", Header: "기준단가", Sortable: true, Align: table.AlignRight,
			Renderer: table.RenderFunc[ItemRow](func(_ *table.RenderContext, r ItemRow) table.Value {
				return table.Number(r.StandardPrice, format.Currency(r.StandardPrice))
			}),
		},
		{
			Key: "isActive", Header: "상태", Sortable: true, Align: table.AlignCenter,
			Renderer: table.RenderFunc[ItemRow](func(_ *table.RenderContext, r ItemRow) table.Value {
				l := format.ActiveLabels.Lookup(strconv.FormatBool(r.IsActive))
				return table.Bool(r.IsActive, l.Text).WithTone(string(l.Tone))
			}),
		},
	}
	tbl := table.New(cols, table.Config{
		Searchable:      true,
		Paginated:       true,
		DefaultPageSize: 20,
		EmptyMessage:    "등록된 품목이 없습니다.",
	})
	return &ItemsList{source: source, table: tbl}
}

// View vista de tabla del catálogo.
func (l *ItemsList) View(ctx context.Context, companyID string, filter dto.ItemListRequest, req dto.TableViewRequest) (*dto.TableView, error) {
	var rows []ItemRow
	if !req.Skeleton {
		list, err := l.source.List(ctx, companyID, filter)
		if err != nil {
			return nil, err
		}
		rows = make([]ItemRow, 0, len(list))
		for _, it := range list {
			rows = append(rows, ItemRow{ItemResponse: it})
		}
	}
	return build(l.table, rows, req, rowSpec[ItemRow]{
		id: func(r ItemRow) string { return r.ID },
		actions: func(r ItemRow) []dto.TableAction {
			return []dto.TableAction{editAction("/items/" + r.ID + "/edit"), deleteAction("/api/items/"+r.ID, false)}
		},
	}), nil
}
