package repository

import (
	"context"
	"time"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// AuditFilter filtros del visor de auditoría.
type AuditFilter struct {
	CompanyID  string
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// ActionCount conteo de registros por acción.
type ActionCount struct {
	Action string
	Count  int
}

// DailyCount conteo de registros por día (fecha truncada a medianoche UTC).
type DailyCount struct {
	Day   time.Time
	Count int
}

// UserCount actividad de un usuario.
type UserCount struct {
	UserID   string
	UserName string
	Count    int
}

// AuditRepository log append-only más consultas de resumen read-only para el dashboard.
type AuditRepository interface {
	Insert(ctx context.Context, log *entity.AuditLog) error
	List(ctx context.Context, f AuditFilter) ([]*entity.AuditLog, int, error)

	// GetSettings devuelve nil, nil si la empresa no tiene configuración guardada.
	GetSettings(ctx context.Context, companyID string) (*entity.AuditSettings, error)
	SaveSettings(ctx context.Context, s *entity.AuditSettings) error

	// ArchiveBefore mueve a audit_logs_archive los registros anteriores a before.
	ArchiveBefore(ctx context.Context, companyID string, before time.Time) (int64, error)

	// ── Dashboard ────────────────────────────────────────────────────────────

	CountByAction(ctx context.Context, companyID string, since time.Time) ([]ActionCount, error)
	CountByDay(ctx context.Context, companyID string, since time.Time) ([]DailyCount, error)
	TopUsers(ctx context.Context, companyID string, since time.Time, limit int) ([]UserCount, error)
}
