package dto

import "time"

// GeneratePDFRequest generación del PDF de una orden.
type GeneratePDFRequest struct {
	OrderID string `json:"orderId"`
}

// DocumentResponse documento generado y guardado.
type DocumentResponse struct {
	ObjectKey string `json:"objectKey"`
	Filename  string `json:"filename"`
	URL       string `json:"url,omitempty"`
	Size      int    `json:"size"`
}

// SendEmailRequest envío de una orden por correo.
type SendEmailRequest struct {
	OrderID   string   `json:"orderId"`
	To        []string `json:"to"`
	CC        []string `json:"cc"`
	Subject   string   `json:"subject"`
	Message   string   `json:"message"`
	AttachPDF bool     `json:"attachPdf"`
}

// EmailHistoryRequest filtros del historial.
type EmailHistoryRequest struct {
	OrderID string `query:"orderId"`
	Status  string `query:"status"`
	From    string `query:"from"`
	To      string `query:"to"`
	PageRequest
}

// EmailAttachmentResponse adjunto registrado.
type EmailAttachmentResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// EmailHistoryResponse envío registrado.
type EmailHistoryResponse struct {
	ID           string                    `json:"id"`
	OrderID      string                    `json:"orderId,omitempty"`
	OrderNumber  string                    `json:"orderNumber"`
	Recipients   []string                  `json:"recipients"`
	CC           []string                  `json:"cc"`
	Subject      string                    `json:"subject"`
	Attachments  []EmailAttachmentResponse `json:"attachments"`
	Status       string                    `json:"status"`
	StatusLabel  string                    `json:"statusLabel"`
	ErrorMessage string                    `json:"errorMessage,omitempty"`
	SentBy       string                    `json:"sentBy"`
	SentAt       *time.Time                `json:"sentAt,omitempty"`
	OpenedAt     *time.Time                `json:"openedAt,omitempty"`
	ResendOf     string                    `json:"resendOf,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
}

// EmailHistoryListResponse página del historial.
type EmailHistoryListResponse struct {
	Items []EmailHistoryResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
