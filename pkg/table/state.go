package table

// SortDir dirección de ordenamiento.
type SortDir string

const (
	SortNone SortDir = ""
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ParseSortDir interpreta el parámetro dir de una petición.
func ParseSortDir(s string) SortDir {
	switch s {
	case "asc":
		return SortAsc
	case "desc":
		return SortDesc
	default:
		return SortNone
	}
}

// State estado local de la tabla: búsqueda, orden y página.
type State struct {
	Query    string
	SortKey  string
	SortDir  SortDir
	Page     int
	PageSize int
}

// SetQuery cambia el texto de búsqueda y vuelve a la página 1.
func (s *State) SetQuery(q string) {
	s.Query = q
	s.Page = 1
}

// ToggleSort aplica un clic sobre la cabecera key: asc → desc → sin orden en la misma
// columna; una columna distinta empieza en asc.
func (s *State) ToggleSort(key string) {
	s.SortKey, s.SortDir = s.NextSort(key)
}

// NextSort devuelve el orden resultante de un clic en key sin modificar el estado.
func (s State) NextSort(key string) (string, SortDir) {
	if s.SortKey != key || s.SortDir == SortNone {
		return key, SortAsc
	}
	if s.SortDir == SortAsc {
		return key, SortDesc
	}
	return "", SortNone
}

// SetPage fija la página actual (se acota al construir la vista).
func (s *State) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.Page = page
}

// SetPageSize cambia el tamaño de página y vuelve a la página 1.
func (s *State) SetPageSize(size int) {
	s.PageSize = size
	s.Page = 1
}
