// Package documents generación de PDF/Excel de órdenes, envío por correo, historial de envíos,
// seguimiento de apertura y regeneración diferida de la vista previa.
package documents

import (
	"context"
	"time"

	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/infrastructure/mail"
)

// PDFRenderer genera el PDF de una orden.
type PDFRenderer interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order, company *entity.Company, vendor *entity.Vendor) ([]byte, error)
}

// ObjectStore almacenamiento de los documentos generados.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	PresignedURL(ctx context.Context, key, filename string, ttl time.Duration) (string, error)
}

// Mailer envío de correo.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}
