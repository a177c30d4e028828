package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto y límites a Limit/Offset.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP. Message es el texto que la consola muestra tal cual.
// En 401, Redirect y RedirectAfterMs indican a dónde y cuándo redirigir.
type ErrorResponse struct {
	Code            string            `json:"code"`
	Message         string            `json:"message"`
	Fields          []ValidationError `json:"fields,omitempty"`
	Redirect        string            `json:"redirect,omitempty"`
	RedirectAfterMs int               `json:"redirectAfterMs,omitempty"`
}

// ValidationError error de un campo del formulario.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lista de errores de campo; implementa error.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return v[0].Field + ": " + v[0].Message
}

// Add agrega un error de campo.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err devuelve nil si no hay errores.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IDsRequest lista de ids (selección múltiple).
type IDsRequest struct {
	IDs []string `json:"ids"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
