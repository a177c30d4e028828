package repository

import (
	"context"
	"time"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// EmailHistoryFilter filtros del historial de envíos.
type EmailHistoryFilter struct {
	CompanyID string
	OrderID   string
	Status    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// EmailHistoryRepository historial de envíos de órdenes por correo.
type EmailHistoryRepository interface {
	Create(ctx context.Context, h *entity.EmailHistory) error
	// UpdateResult fija el estado final del envío.
	UpdateResult(ctx context.Context, id, status, errMsg string, sentAt *time.Time) error
	GetByID(ctx context.Context, companyID, id string) (*entity.EmailHistory, error)
	List(ctx context.Context, f EmailHistoryFilter) ([]*entity.EmailHistory, int, error)
	// MarkOpened registra la primera apertura; devuelve nil, nil si el id no existe.
	// Las aperturas posteriores no cambian OpenedAt.
	MarkOpened(ctx context.Context, id string, at time.Time) (*entity.EmailHistory, error)
}
