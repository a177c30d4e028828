package dto

import "github.com/jhoicas/po-console/pkg/table"

// TableViewRequest estado de la tabla enviado por la consola.
type TableViewRequest struct {
	Query    string `query:"q"`
	Sort     string `query:"sort"`
	Dir      string `query:"dir"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
	Theme    string `query:"theme"` // light | dark
	Skeleton bool   `query:"skeleton"` // solo el esqueleto de carga, sin consultar datos
}

// State convierte la petición al estado de la tabla.
func (r TableViewRequest) State() table.State {
	return table.State{
		Query:    r.Query,
		SortKey:  r.Sort,
		SortDir:  table.ParseSortDir(r.Dir),
		Page:     r.Page,
		PageSize: r.PageSize,
	}
}

// TableAction acción de fila (detalle, edición, borrado).
type TableAction struct {
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	Href     string `json:"href,omitempty"`
	Method   string `json:"method,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// TableRow fila renderizada.
type TableRow struct {
	ID         string        `json:"id"`
	Href       string        `json:"href,omitempty"`
	Cells      []table.Cell  `json:"cells"`
	Actions    []TableAction `json:"actions,omitempty"`
	Selectable bool          `json:"selectable"`
}

// TableView vista completa de una tabla lista para pintar.
type TableView struct {
	Headers      []table.Header    `json:"headers"`
	Rows         []TableRow        `json:"rows"`
	TotalRows    int               `json:"totalRows"`
	Pagination   *table.Pagination `json:"pagination,omitempty"`
	Loading      bool              `json:"loading"`
	Skeleton     *table.Skeleton   `json:"skeleton,omitempty"`
	Empty        bool              `json:"empty"`
	EmptyMessage string            `json:"emptyMessage,omitempty"`
	Query        string            `json:"query"`
	StickyHeader bool              `json:"stickyHeader"`
	MaxHeight    string            `json:"maxHeight,omitempty"`
	Theme        string            `json:"theme"`
}
