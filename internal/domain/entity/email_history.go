package entity

import "time"

// Estados de un envío.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// EmailAttachment adjunto guardado en el almacenamiento de objetos (permite el reenvío).
type EmailAttachment struct {
	Filename    string `json:"filename"`
	ObjectKey   string `json:"objectKey"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// EmailHistory envío de una orden por correo.
type EmailHistory struct {
	ID           string
	CompanyID    string
	OrderID      string
	OrderNumber  string
	Recipients   []string
	CC           []string
	Subject      string
	Body         string
	Attachments  []EmailAttachment
	Status       string
	ErrorMessage string
	SentBy       string
	SentAt       *time.Time
	OpenedAt     *time.Time
	ResendOf     string // id del envío original si es reenvío
	CreatedAt    time.Time
}
