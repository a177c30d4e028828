// Package listing construye las vistas de tabla de los listados de la consola (órdenes,
// proveedores, ítems y plantillas): consulta en caché por filtros, traducción de valores a
// texto de presentación, columnas y acciones de fila.
package listing

import (
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/pkg/format"
	"github.com/jhoicas/po-console/pkg/table"
)

// rowSpec describe cómo convertir una fila tipada en dto.TableRow.
type rowSpec[T any] struct {
	id         func(T) string
	actions    func(T) []dto.TableAction
	selectable func(T) bool
}

// build arma la vista con el tema pedido. req.Skeleton devuelve solo el esqueleto de carga.
func build[T any](tbl *table.Table[T], rows []T, req dto.TableViewRequest, spec rowSpec[T]) *dto.TableView {
	ctx := table.NewRenderContext(table.ThemeByName(req.Theme))
	v := tbl.Build(ctx, rows, req.State(), req.Skeleton)
	out := &dto.TableView{
		Headers:      v.Headers,
		Rows:         make([]dto.TableRow, 0, len(v.Rows)),
		TotalRows:    v.TotalRows,
		Pagination:   v.Pagination,
		Loading:      v.Loading,
		Skeleton:     v.Skeleton,
		Empty:        v.Empty,
		EmptyMessage: v.EmptyMessage,
		Query:        v.Query,
		StickyHeader: v.StickyHeader,
		MaxHeight:    v.MaxHeight,
		Theme:        v.Theme,
	}
	for _, r := range v.Rows {
		row := dto.TableRow{ID: spec.id(r.Data), Href: r.Href, Cells: r.Cells}
		if spec.actions != nil {
			row.Actions = spec.actions(r.Data)
		}
		if spec.selectable != nil {
			row.Selectable = spec.selectable(r.Data)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func label(l format.Label) table.Value {
	return table.Text(l.Text).WithTone(string(l.Tone))
}

func textOrNull(s string) table.Value {
	if s == "" {
		return table.Null()
	}
	return table.Text(s)
}

func detailAction(href string) dto.TableAction {
	return dto.TableAction{Kind: "detail", Label: "상세", Href: href, Method: "GET"}
}

func editAction(href string) dto.TableAction {
	return dto.TableAction{Kind: "edit", Label: "수정", Href: href, Method: "GET"}
}

func deleteAction(href string, disabled bool) dto.TableAction {
	return dto.TableAction{Kind: "delete", Label: "삭제", Href: href, Method: "DELETE", Disabled: disabled}
}
