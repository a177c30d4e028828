package table

// Theme paleta de presentación. Se pasa explícitamente a los renderers vía RenderContext.
type Theme struct {
	Name   string
	Dark   bool
	badges map[string]string
	plain  string
}

var (
	lightTheme = &Theme{
		Name: "light",
		badges: map[string]string{
			"gray":   "bg-gray-100 text-gray-800",
			"blue":   "bg-blue-100 text-blue-800",
			"green":  "bg-green-100 text-green-800",
			"yellow": "bg-yellow-100 text-yellow-800",
			"red":    "bg-red-100 text-red-800",
			"purple": "bg-purple-100 text-purple-800",
			"orange": "bg-orange-100 text-orange-800",
		},
		plain: "text-gray-900",
	}
	darkTheme = &Theme{
		Name: "dark",
		Dark: true,
		badges: map[string]string{
			"gray":   "bg-gray-700 text-gray-200",
			"blue":   "bg-blue-900 text-blue-200",
			"green":  "bg-green-900 text-green-200",
			"yellow": "bg-yellow-900 text-yellow-200",
			"red":    "bg-red-900 text-red-200",
			"purple": "bg-purple-900 text-purple-200",
			"orange": "bg-orange-900 text-orange-200",
		},
		plain: "text-gray-100",
	}
)

// LightTheme tema claro por defecto.
func LightTheme() *Theme { return lightTheme }

// DarkTheme tema oscuro.
func DarkTheme() *Theme { return darkTheme }

// ThemeByName devuelve el tema pedido; cualquier valor distinto de "dark" es el claro.
func ThemeByName(name string) *Theme {
	if name == "dark" {
		return darkTheme
	}
	return lightTheme
}

// Class clases CSS para una celda con el tono indicado (vacío = texto plano).
func (t *Theme) Class(tone string) string {
	if tone == "" {
		return t.plain
	}
	if c, ok := t.badges[tone]; ok {
		return c
	}
	return t.badges["gray"]
}

// RenderContext contexto explícito de renderizado.
type RenderContext struct {
	Theme *Theme
}

// NewRenderContext construye el contexto; theme nil usa el tema claro.
func NewRenderContext(theme *Theme) *RenderContext {
	if theme == nil {
		theme = lightTheme
	}
	return &RenderContext{Theme: theme}
}
