package dto

import (
	"encoding/json"
	"time"
)

// DraftRequest contenido del borrador a guardar.
type DraftRequest struct {
	Payload json.RawMessage `json:"payload"`
}

// DraftResponse borrador cargado (ya migrado a la versión vigente).
type DraftResponse struct {
	Key     string          `json:"key"`
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	Pending bool            `json:"pending"` // aún no persistido (auto-guardado en espera)
	Payload json.RawMessage `json:"payload"`
}
