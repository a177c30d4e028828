package table

import (
	"sort"
	"strings"
)

const (
	defaultPageSize     = 10
	defaultSkeletonRows = 5
	pageWindowSize      = 5
	defaultEmptyMessage = "데이터가 없습니다."
)

var defaultPageSizeOptions = []int{10, 20, 50, 100}

// Config banderas de comportamiento de la tabla.
type Config struct {
	Searchable      bool
	Paginated       bool
	PageSizeOptions []int
	DefaultPageSize int
	StickyHeader    bool
	MaxHeight       string
	EmptyMessage    string
	SkeletonRows    int
	SkeletonColumns int
}

// Table tabla genérica sobre filas de tipo T.
type Table[T any] struct {
	Columns []Column[T]
	Config  Config
	// RowLink destino de navegación de la fila (opcional).
	RowLink func(row T) string
	// OnRowClick se invoca con la fila completa al hacer clic (opcional).
	OnRowClick func(row T)
}

// New construye una tabla aplicando valores por defecto a la configuración.
func New[T any](columns []Column[T], cfg Config) *Table[T] {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = defaultPageSize
	}
	if len(cfg.PageSizeOptions) == 0 {
		cfg.PageSizeOptions = defaultPageSizeOptions
	}
	if cfg.EmptyMessage == "" {
		cfg.EmptyMessage = defaultEmptyMessage
	}
	if cfg.SkeletonRows <= 0 {
		cfg.SkeletonRows = defaultSkeletonRows
	}
	if cfg.SkeletonColumns <= 0 {
		cfg.SkeletonColumns = len(columns)
	}
	return &Table[T]{Columns: columns, Config: cfg}
}

// Column busca una columna por clave.
func (t *Table[T]) Column(key string) (Column[T], bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Filter devuelve las filas donde al menos una columna buscable contiene query
// (sin distinguir mayúsculas). Query vacío devuelve todas las filas.
func (t *Table[T]) Filter(ctx *RenderContext, rows []T, query string) []T {
	if query == "" {
		out := make([]T, len(rows))
		copy(out, rows)
		return out
	}
	q := strings.ToLower(query)
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		for _, c := range t.Columns {
			if c.Searchable && c.value(ctx, row).contains(q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort ordena de forma estable por la columna key. Los nulos quedan al final en ambas
// direcciones. Columna inexistente, no ordenable o dir vacío devuelven el orden de entrada.
func (t *Table[T]) Sort(ctx *RenderContext, rows []T, key string, dir SortDir) []T {
	out := make([]T, len(rows))
	copy(out, rows)
	col, ok := t.Column(key)
	if !ok || !col.Sortable || dir == SortNone {
		return out
	}

	keys := make([]Value, len(out))
	for i, row := range out {
		keys[i] = col.value(ctx, row)
	}
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		switch {
		case a.IsNull() && b.IsNull():
			return false
		case a.IsNull():
			return false
		case b.IsNull():
			return true
		}
		if dir == SortDesc {
			return Compare(a, b) > 0
		}
		return Compare(a, b) < 0
	})

	sorted := make([]T, len(out))
	for i, k := range idx {
		sorted[i] = out[k]
	}
	return sorted
}

// PageCount número de páginas para total filas: ceil(total/size).
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// PageWindow ventana de hasta 5 números de página centrada en la página actual.
func PageWindow(page, pageCount int) []int {
	if pageCount <= 0 {
		return []int{}
	}
	start := page - pageWindowSize/2
	if start < 1 {
		start = 1
	}
	end := start + pageWindowSize - 1
	if end > pageCount {
		end = pageCount
		start = end - pageWindowSize + 1
		if start < 1 {
			start = 1
		}
	}
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}

// Build deriva la vista: esqueleto si loading; si no filtra, ordena, pagina y renderiza.
func (t *Table[T]) Build(ctx *RenderContext, rows []T, st State, loading bool) View[T] {
	if ctx == nil {
		ctx = NewRenderContext(nil)
	}
	st = t.normalize(st)
	v := View[T]{
		Headers:      t.headers(st),
		Query:        st.Query,
		StickyHeader: t.Config.StickyHeader,
		MaxHeight:    t.Config.MaxHeight,
		Theme:        ctx.Theme.Name,
	}
	if loading {
		v.Loading = true
		v.Skeleton = &Skeleton{Rows: t.Config.SkeletonRows, Columns: t.Config.SkeletonColumns}
		v.Rows = []Row[T]{}
		return v
	}

	filtered := rows
	if t.Config.Searchable {
		filtered = t.Filter(ctx, rows, st.Query)
	}
	sorted := t.Sort(ctx, filtered, st.SortKey, st.SortDir)

	pageRows := sorted
	if t.Config.Paginated {
		count := PageCount(len(sorted), st.PageSize)
		page := st.Page
		switch {
		case count == 0:
			page = 1
		case page > count:
			page = count
		}
		from := (page - 1) * st.PageSize
		to := from + st.PageSize
		if from > len(sorted) {
			from = len(sorted)
		}
		if to > len(sorted) {
			to = len(sorted)
		}
		pageRows = sorted[from:to]
		v.Pagination = &Pagination{
			Page:            page,
			PageSize:        st.PageSize,
			PageCount:       count,
			TotalRows:       len(sorted),
			Window:          PageWindow(page, count),
			HasPrevious:     page > 1,
			HasNext:         page < count,
			PageSizeOptions: t.Config.PageSizeOptions,
		}
	}

	v.Rows = make([]Row[T], 0, len(pageRows))
	for _, row := range pageRows {
		v.Rows = append(v.Rows, t.renderRow(ctx, row))
	}
	v.TotalRows = len(sorted)
	if len(sorted) == 0 {
		v.Empty = true
		v.EmptyMessage = t.Config.EmptyMessage
	}
	return v
}

// Click aplica un clic en la celda colKey de la fila rowIdx de la vista. Devuelve true si se
// invocó OnRowClick; las columnas con StopPropagation no lo disparan.
func (t *Table[T]) Click(v View[T], rowIdx int, colKey string) bool {
	if t.OnRowClick == nil || rowIdx < 0 || rowIdx >= len(v.Rows) {
		return false
	}
	if col, ok := t.Column(colKey); ok && col.StopPropagation {
		return false
	}
	t.OnRowClick(v.Rows[rowIdx].Data)
	return true
}

func (t *Table[T]) normalize(st State) State {
	if st.PageSize <= 0 {
		st.PageSize = t.Config.DefaultPageSize
	}
	if st.Page < 1 {
		st.Page = 1
	}
	if st.SortKey == "" {
		st.SortDir = SortNone
	}
	if st.SortDir == SortNone {
		st.SortKey = ""
	}
	return st
}

func (t *Table[T]) headers(st State) []Header {
	out := make([]Header, 0, len(t.Columns))
	for _, c := range t.Columns {
		h := Header{
			Key:      c.Key,
			Label:    c.Header,
			Sortable: c.Sortable,
			Width:    c.Width,
			Align:    c.Align,
		}
		if c.Sortable {
			if st.SortKey == c.Key {
				h.SortDir = st.SortDir
			}
			h.NextSortKey, h.NextSortDir = st.NextSort(c.Key)
		}
		out = append(out, h)
	}
	return out
}

func (t *Table[T]) renderRow(ctx *RenderContext, row T) Row[T] {
	r := Row[T]{Data: row, Cells: make([]Cell, 0, len(t.Columns))}
	if t.RowLink != nil {
		r.Href = t.RowLink(row)
	}
	for _, c := range t.Columns {
		val := c.value(ctx, row)
		r.Cells = append(r.Cells, Cell{
			Key:             c.Key,
			Text:            val.Display(),
			Class:           ctx.Theme.Class(val.Tone),
			Badge:           val.Tone != "",
			Align:           c.Align,
			StopPropagation: c.StopPropagation,
		})
	}
	return r
}
