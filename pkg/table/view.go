package table

// View resultado de construir la tabla: lo que se pinta.
type View[T any] struct {
	Headers      []Header
	Rows         []Row[T]
	TotalRows    int
	Query        string
	Loading      bool
	Skeleton     *Skeleton
	Empty        bool
	EmptyMessage string
	Pagination   *Pagination
	StickyHeader bool
	MaxHeight    string
	Theme        string
}

// Header cabecera de columna con el orden actual y el que produciría un clic.
type Header struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Sortable    bool    `json:"sortable"`
	SortDir     SortDir `json:"sortDir,omitempty"`
	NextSortKey string  `json:"nextSortKey,omitempty"`
	NextSortDir SortDir `json:"nextSortDir,omitempty"`
	Width       string  `json:"width,omitempty"`
	Align       Align   `json:"align,omitempty"`
}

// Row fila renderizada; Data es la fila original.
type Row[T any] struct {
	Data  T
	Href  string
	Cells []Cell
}

// Cell celda renderizada.
type Cell struct {
	Key             string `json:"key"`
	Text            string `json:"text"`
	Class           string `json:"class,omitempty"`
	Badge           bool   `json:"badge,omitempty"`
	Align           Align  `json:"align,omitempty"`
	StopPropagation bool   `json:"stopPropagation,omitempty"`
}

// Skeleton filas de relleno mientras se carga.
type Skeleton struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Pagination controles de paginación: primero/anterior/ventana/siguiente/último.
type Pagination struct {
	Page            int   `json:"page"`
	PageSize        int   `json:"pageSize"`
	PageCount       int   `json:"pageCount"`
	TotalRows       int   `json:"totalRows"`
	Window          []int `json:"window"`
	HasPrevious     bool  `json:"hasPrevious"`
	HasNext         bool  `json:"hasNext"`
	PageSizeOptions []int `json:"pageSizeOptions"`
}
