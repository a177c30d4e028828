package repository

import (
	"context"
	"time"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// OrderFilter filtros del listado de órdenes. Status se compara contra el estado efectivo
// (orderStatus con respaldo en el status legado).
type OrderFilter struct {
	CompanyID      string
	Status         string
	ApprovalStatus string
	VendorID       string
	ProjectID      string
	UserID         string
	From           *time.Time
	To             *time.Time
	Search         string // número de orden, título o proveedor
	Limit          int    // 0 = sin límite
	Offset         int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	// Create persiste la orden con sus líneas.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID devuelve nil, nil si la orden no existe en la empresa.
	GetByID(ctx context.Context, companyID, id string) (*entity.Order, error)
	// Update reemplaza cabecera y líneas.
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, companyID, id string) error
	// DeleteDrafts borra de ids solo las órdenes en borrador; devuelve cuántas borró.
	DeleteDrafts(ctx context.Context, companyID string, ids []string) (int64, error)
	ListByIDs(ctx context.Context, companyID string, ids []string) ([]*entity.Order, error)
	// List devuelve la página pedida y el total sin paginar.
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, int, error)
	// CountByNumberPrefix cuenta órdenes cuyo número empieza por prefix (secuencia diaria).
	CountByNumberPrefix(ctx context.Context, companyID, prefix string) (int, error)
	RecordEmailSent(ctx context.Context, orderID string, at time.Time) error
	RecordEmailOpened(ctx context.Context, orderID string, at time.Time) error
}
