// Package orders casos de uso de órdenes de compra: CRUD, numeración, selección para
// borrado masivo y exportación.
package orders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/po-console/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(orderRepo repository.OrderRepository, auditRepo repository.AuditRepository) error) error
}

// PreviewScheduler programa la regeneración (con retardo) de la vista previa PDF de una orden.
type PreviewScheduler interface {
	SchedulePreview(companyID, orderID string)
}

// ApprovalPolicy decide si una orden de cierto monto requiere aprobación.
type ApprovalPolicy interface {
	RequiresApproval(ctx context.Context, companyID string, amount decimal.Decimal) (bool, error)
}
