package entity

import (
	"encoding/json"
	"time"
)

// Draft borrador de formulario guardado localmente por usuario y clave.
type Draft struct {
	UserID  string
	Key     string // ej. "order-form", "order-form:<templateID>"
	Version int
	Payload json.RawMessage
	SavedAt time.Time
}
