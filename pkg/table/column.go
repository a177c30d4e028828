package table

// Align alineación horizontal de una columna.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// CellRenderer produce el valor de una celda a partir de la fila completa.
type CellRenderer[T any] interface {
	RenderCell(ctx *RenderContext, row T) Value
}

// RenderFunc adapta una función a CellRenderer.
type RenderFunc[T any] func(ctx *RenderContext, row T) Value

// RenderCell implementa CellRenderer.
func (f RenderFunc[T]) RenderCell(ctx *RenderContext, row T) Value { return f(ctx, row) }

// Fielder lo implementan las filas que exponen sus campos por clave. Es el respaldo de las
// columnas sin renderer; si la fila no lo implementa, o no conoce la clave, la celda es Null.
type Fielder interface {
	Field(key string) (Value, bool)
}

// Column describe una columna de la tabla.
type Column[T any] struct {
	Key        string
	Header     string
	Renderer   CellRenderer[T]
	Sortable   bool
	Searchable bool
	Width      string
	Align      Align
	// StopPropagation evita que un clic en la celda dispare el clic de fila
	// (columnas con botones de acción).
	StopPropagation bool
}

func (c Column[T]) value(ctx *RenderContext, row T) Value {
	if c.Renderer != nil {
		return c.Renderer.RenderCell(ctx, row)
	}
	if f, ok := any(row).(Fielder); ok {
		if v, ok := f.Field(c.Key); ok {
			return v
		}
	}
	return Null()
}
