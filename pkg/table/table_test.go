package table_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/po-console/pkg/table"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fila struct {
	ID     string
	Nombre string
	Monto  *int64
	Nota   string
}

// Field expone Nota por clave para probar el respaldo de columnas sin renderer.
func (f fila) Field(key string) (table.Value, bool) {
	if key == "nota" {
		return table.Text(f.Nota), true
	}
	return table.Value{}, false
}

func monto(n int64) *int64 { return &n }

func columnas() []table.Column[fila] {
	return []table.Column[fila]{
		{
			Key: "nombre", Header: "이름", Sortable: true, Searchable: true,
			Renderer: table.RenderFunc[fila](func(_ *table.RenderContext, f fila) table.Value {
				return table.Text(f.Nombre)
			}),
		},
		{
			Key: "monto", Header: "금액", Sortable: true, Searchable: true, Align: table.AlignRight,
			Renderer: table.RenderFunc[fila](func(_ *table.RenderContext, f fila) table.Value {
				if f.Monto == nil {
					return table.Null()
				}
				return table.Number(decimal.NewFromInt(*f.Monto), fmt.Sprintf("₩%d", *f.Monto))
			}),
		},
		{Key: "nota", Header: "비고", Searchable: true},
		{Key: "calculada", Header: "계산", Sortable: true},
		{
			Key: "acciones", Header: "", StopPropagation: true,
			Renderer: table.RenderFunc[fila](func(*table.RenderContext, fila) table.Value {
				return table.Text("수정")
			}),
		},
	}
}

func filas() []fila {
	return []fila{
		{ID: "1", Nombre: "Bolt", Monto: monto(10000), Nota: "urgente"},
		{ID: "2", Nombre: "nut", Monto: nil, Nota: ""},
		{ID: "3", Nombre: "Washer", Monto: monto(25000), Nota: "BOLT compatible"},
		{ID: "4", Nombre: "Anchor", Monto: monto(5000), Nota: ""},
		{ID: "5", Nombre: "Screw", Monto: monto(7500), Nota: "caja"},
	}
}

func ids(rows []fila) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func viewIDs(v table.View[fila]) []string {
	out := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Data.ID
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Búsqueda
// ──────────────────────────────────────────────────────────────────────────────

func TestFilter_ContieneSinDistinguirMayusculas(t *testing.T) {
	tb := table.New(columnas(), table.Config{Searchable: true})
	ctx := table.NewRenderContext(nil)

	got := tb.Filter(ctx, filas(), "bolt")
	assert.Equal(t, []string{"1", "3"}, ids(got), "coincide por nombre y por nota (columna sin renderer)")

	got = tb.Filter(ctx, filas(), "₩25")
	assert.Equal(t, []string{"3"}, ids(got), "la búsqueda usa el texto renderizado")
}

func TestFilter_PropiedadExacta(t *testing.T) {
	tb := table.New(columnas(), table.Config{Searchable: true})
	ctx := table.NewRenderContext(nil)

	for _, q := range []string{"a", "S", "000", "zzz", "caja", "₩"} {
		got := tb.Filter(ctx, filas(), q)
		var want []string
		for _, f := range filas() {
			texts := []string{f.Nombre, f.Nota}
			if f.Monto != nil {
				texts = append(texts, fmt.Sprintf("₩%d", *f.Monto))
			}
			for _, s := range texts {
				if strings.Contains(strings.ToLower(s), strings.ToLower(q)) {
					want = append(want, f.ID)
					break
				}
			}
		}
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, ids(got), "query %q", q)
	}
}

func TestSetQuery_VuelveAPagina1(t *testing.T) {
	st := table.State{Page: 4}
	st.SetQuery("x")
	assert.Equal(t, 1, st.Page)
	st.Page = 3
	st.SetQuery("x")
	assert.Equal(t, 1, st.Page, "cualquier cambio de búsqueda reinicia la página")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ordenamiento
// ──────────────────────────────────────────────────────────────────────────────

func TestToggleSort_Ciclo(t *testing.T) {
	var st table.State
	st.ToggleSort("monto")
	assert.Equal(t, "monto", st.SortKey)
	assert.Equal(t, table.SortAsc, st.SortDir)

	st.ToggleSort("monto")
	assert.Equal(t, table.SortDesc, st.SortDir)

	st.ToggleSort("monto")
	assert.Equal(t, "", st.SortKey)
	assert.Equal(t, table.SortNone, st.SortDir)

	st.ToggleSort("monto")
	st.ToggleSort("nombre")
	assert.Equal(t, "nombre", st.SortKey, "otra columna reinicia en asc")
	assert.Equal(t, table.SortAsc, st.SortDir)
}

func TestSort_NulosAlFinalEnAmbasDirecciones(t *testing.T) {
	tb := table.New(columnas(), table.Config{})
	ctx := table.NewRenderContext(nil)

	asc := tb.Sort(ctx, filas(), "monto", table.SortAsc)
	assert.Equal(t, []string{"4", "5", "1", "3", "2"}, ids(asc))

	desc := tb.Sort(ctx, filas(), "monto", table.SortDesc)
	assert.Equal(t, []string{"3", "1", "5", "4", "2"}, ids(desc))

	// Sin el nulo, desc es exactamente el reverso de asc.
	nonNullAsc := ids(asc)[:4]
	nonNullDesc := ids(desc)[:4]
	for i := range nonNullAsc {
		assert.Equal(t, nonNullAsc[i], nonNullDesc[len(nonNullDesc)-1-i])
	}
}

func TestSort_TextoComparacionGenerica(t *testing.T) {
	tb := table.New(columnas(), table.Config{})
	got := tb.Sort(table.NewRenderContext(nil), filas(), "nombre", table.SortAsc)
	// comparación por código: mayúsculas antes que minúsculas
	assert.Equal(t, []string{"4", "1", "5", "3", "2"}, ids(got))
}

func TestSort_ColumnaSinRendererNiCampo_EsNula(t *testing.T) {
	tb := table.New(columnas(), table.Config{})
	got := tb.Sort(table.NewRenderContext(nil), filas(), "calculada", table.SortAsc)
	assert.Equal(t, ids(filas()), ids(got), "todas las celdas son nulas: se conserva el orden de entrada")

	v := tb.Build(nil, filas(), table.State{}, false)
	assert.Equal(t, "", v.Rows[0].Cells[3].Text)
}

func TestSort_ColumnaNoOrdenable_NoCambiaOrden(t *testing.T) {
	tb := table.New(columnas(), table.Config{})
	got := tb.Sort(table.NewRenderContext(nil), filas(), "nota", table.SortAsc)
	assert.Equal(t, ids(filas()), ids(got))
}

// ──────────────────────────────────────────────────────────────────────────────
// Paginación
// ──────────────────────────────────────────────────────────────────────────────

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, table.PageCount(0, 10))
	assert.Equal(t, 1, table.PageCount(10, 10))
	assert.Equal(t, 2, table.PageCount(11, 10))
	assert.Equal(t, 5, table.PageCount(5, 1))
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, table.PageWindow(1, 10))
	assert.Equal(t, []int{4, 5, 6, 7, 8}, table.PageWindow(6, 10))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, table.PageWindow(10, 10))
	assert.Equal(t, []int{1, 2, 3}, table.PageWindow(2, 3))
	assert.Empty(t, table.PageWindow(1, 0))
}

func TestBuild_PaginasConcatenadasReproducenElConjunto(t *testing.T) {
	var rows []fila
	for i := 0; i < 23; i++ {
		rows = append(rows, fila{ID: fmt.Sprint(i), Nombre: fmt.Sprintf("item-%02d", 22-i), Monto: monto(int64(i * 100))})
	}
	tb := table.New(columnas(), table.Config{Searchable: true, Paginated: true})
	st := table.State{SortKey: "nombre", SortDir: table.SortAsc, PageSize: 5}

	first := tb.Build(nil, rows, st, false)
	require.NotNil(t, first.Pagination)
	assert.Equal(t, 5, first.Pagination.PageCount, "ceil(23/5)")
	assert.Equal(t, 23, first.Pagination.TotalRows)

	var all []string
	seen := map[string]bool{}
	for p := 1; p <= first.Pagination.PageCount; p++ {
		st.Page = p
		v := tb.Build(nil, rows, st, false)
		for _, id := range viewIDs(v) {
			assert.False(t, seen[id], "fila %s duplicada", id)
			seen[id] = true
			all = append(all, id)
		}
	}
	full := tb.Sort(table.NewRenderContext(nil), rows, "nombre", table.SortAsc)
	assert.Equal(t, ids(full), all)
}

func TestBuild_PaginaFueraDeRangoSeAcota(t *testing.T) {
	tb := table.New(columnas(), table.Config{Paginated: true})
	v := tb.Build(nil, filas(), table.State{Page: 9, PageSize: 2}, false)
	assert.Equal(t, 3, v.Pagination.Page)
	assert.Equal(t, []string{"5"}, viewIDs(v))
	assert.True(t, v.Pagination.HasPrevious)
	assert.False(t, v.Pagination.HasNext)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados, cabeceras y clic
// ──────────────────────────────────────────────────────────────────────────────

func TestBuild_Cargando_DevuelveEsqueleto(t *testing.T) {
	tb := table.New(columnas(), table.Config{SkeletonRows: 3})
	v := tb.Build(nil, filas(), table.State{}, true)
	assert.True(t, v.Loading)
	require.NotNil(t, v.Skeleton)
	assert.Equal(t, 3, v.Skeleton.Rows)
	assert.Equal(t, 5, v.Skeleton.Columns)
	assert.Empty(t, v.Rows)
}

func TestBuild_SinResultados_MensajeVacio(t *testing.T) {
	tb := table.New(columnas(), table.Config{Searchable: true, EmptyMessage: "발주서가 없습니다."})
	v := tb.Build(nil, filas(), table.State{Query: "no-existe"}, false)
	assert.True(t, v.Empty)
	assert.Equal(t, "발주서가 없습니다.", v.EmptyMessage)
}

func TestBuild_CabecerasIndicanSiguienteOrden(t *testing.T) {
	tb := table.New(columnas(), table.Config{})
	v := tb.Build(nil, filas(), table.State{SortKey: "monto", SortDir: table.SortDesc}, false)

	assert.Equal(t, table.SortDesc, v.Headers[1].SortDir)
	assert.Equal(t, "", v.Headers[1].NextSortKey, "desc → sin orden")
	assert.Equal(t, "nombre", v.Headers[0].NextSortKey)
	assert.Equal(t, table.SortAsc, v.Headers[0].NextSortDir)
	assert.False(t, v.Headers[2].Sortable)
}

func TestBuild_TemaExplicito(t *testing.T) {
	cols := []table.Column[fila]{{
		Key: "estado",
		Renderer: table.RenderFunc[fila](func(*table.RenderContext, fila) table.Value {
			return table.Text("임시 저장").WithTone("gray")
		}),
	}}
	tb := table.New(cols, table.Config{})
	dark := tb.Build(table.NewRenderContext(table.DarkTheme()), filas()[:1], table.State{}, false)
	light := tb.Build(table.NewRenderContext(table.LightTheme()), filas()[:1], table.State{}, false)

	assert.True(t, dark.Rows[0].Cells[0].Badge)
	assert.Equal(t, "bg-gray-700 text-gray-200", dark.Rows[0].Cells[0].Class)
	assert.Equal(t, "bg-gray-100 text-gray-800", light.Rows[0].Cells[0].Class)
	assert.Equal(t, "dark", dark.Theme)
}

func TestClick_InvocaConFilaCompletaSalvoStopPropagation(t *testing.T) {
	var clicked []fila
	tb := table.New(columnas(), table.Config{})
	tb.OnRowClick = func(f fila) { clicked = append(clicked, f) }
	v := tb.Build(nil, filas(), table.State{}, false)

	assert.True(t, tb.Click(v, 2, "nombre"))
	require.Len(t, clicked, 1)
	assert.Equal(t, filas()[2], clicked[0])

	assert.False(t, tb.Click(v, 2, "acciones"), "la celda de acciones detiene la propagación")
	assert.False(t, tb.Click(v, 99, "nombre"))
	assert.Len(t, clicked, 1)
}
