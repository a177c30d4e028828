package repository

import (
	"context"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// DraftRepository almacén local de borradores por (usuario, clave).
type DraftRepository interface {
	// Get devuelve nil, nil si no hay borrador.
	Get(ctx context.Context, userID, key string) (*entity.Draft, error)
	// Save crea o reemplaza el borrador.
	Save(ctx context.Context, d *entity.Draft) error
	Delete(ctx context.Context, userID, key string) error
}
