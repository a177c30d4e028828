package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo log de auditoría append-only y consultas de resumen sobre PostgreSQL.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

const auditColumns = `id, company_id, user_id, user_name, action, entity_type, entity_id, description, metadata,
	ip_address, user_agent, created_at`

// Insert agrega un registro.
func (r *AuditRepo) Insert(ctx context.Context, l *entity.AuditLog) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (`+auditColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		l.ID, l.CompanyID, l.UserID, l.UserName, l.Action, l.EntityType, l.EntityID, l.Description, l.Metadata,
		l.IPAddress, l.UserAgent, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List filtra el log (más reciente primero) y devuelve el total sin paginar.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter) ([]*entity.AuditLog, int, error) {
	var w whereBuilder
	w.add("company_id = ?", f.CompanyID)
	if f.UserID != "" {
		w.add("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		w.add("action = ?", f.Action)
	}
	if f.EntityType != "" {
		w.add("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		w.add("entity_id = ?", f.EntityID)
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at <= ?", *f.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}
	query := `SELECT ` + auditColumns + ` FROM audit_logs` + w.sql() + ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.arg(f.Limit) + ` OFFSET ` + w.arg(f.Offset)
	}
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLog
	for rows.Next() {
		var l entity.AuditLog
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.UserID, &l.UserName, &l.Action, &l.EntityType, &l.EntityID,
			&l.Description, &l.Metadata, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		list = append(list, &l)
	}
	return list, total, rows.Err()
}

// GetSettings obtiene la configuración de auditoría. nil, nil si no hay.
func (r *AuditRepo) GetSettings(ctx context.Context, companyID string) (*entity.AuditSettings, error) {
	var s entity.AuditSettings
	err := r.q.QueryRow(ctx, `
		SELECT company_id, enabled, retention_days, enabled_categories, updated_by, updated_at
		FROM audit_settings WHERE company_id = $1`, companyID).Scan(
		&s.CompanyID, &s.Enabled, &s.RetentionDays, &s.EnabledCategories, &s.UpdatedBy, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit settings: %w", err)
	}
	return &s, nil
}

// SaveSettings crea o reemplaza la configuración.
func (r *AuditRepo) SaveSettings(ctx context.Context, s *entity.AuditSettings) error {
	cats := s.EnabledCategories
	if cats == nil {
		cats = []string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_settings (company_id, enabled, retention_days, enabled_categories, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			retention_days = EXCLUDED.retention_days,
			enabled_categories = EXCLUDED.enabled_categories,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`,
		s.CompanyID, s.Enabled, s.RetentionDays, cats, s.UpdatedBy, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save audit settings: %w", err)
	}
	return nil
}

// ArchiveBefore copia al archivo y borra del log activo en una sola sentencia.
func (r *AuditRepo) ArchiveBefore(ctx context.Context, companyID string, before time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		WITH moved AS (
			DELETE FROM audit_logs WHERE company_id = $1 AND created_at < $2
			RETURNING `+auditColumns+`
		)
		INSERT INTO audit_logs_archive (`+auditColumns+`)
		SELECT `+auditColumns+` FROM moved`, companyID, before)
	if err != nil {
		return 0, fmt.Errorf("archive audit logs: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// CountByAction conteo por acción desde since.
func (r *AuditRepo) CountByAction(ctx context.Context, companyID string, since time.Time) ([]repository.ActionCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT action, COUNT(*) FROM audit_logs
		WHERE company_id = $1 AND created_at >= $2
		GROUP BY action ORDER BY COUNT(*) DESC, action`, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("audit.CountByAction: %w", err)
	}
	defer rows.Close()
	var out []repository.ActionCount
	for rows.Next() {
		var c repository.ActionCount
		if err := rows.Scan(&c.Action, &c.Count); err != nil {
			return nil, fmt.Errorf("audit.CountByAction scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountByDay conteo diario desde since.
func (r *AuditRepo) CountByDay(ctx context.Context, companyID string, since time.Time) ([]repository.DailyCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*) FROM audit_logs
		WHERE company_id = $1 AND created_at >= $2
		GROUP BY day ORDER BY day`, companyID, since)
	if err != nil {
		return nil, fmt.Errorf("audit.CountByDay: %w", err)
	}
	defer rows.Close()
	var out []repository.DailyCount
	for rows.Next() {
		var c repository.DailyCount
		if err := rows.Scan(&c.Day, &c.Count); err != nil {
			return nil, fmt.Errorf("audit.CountByDay scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopUsers usuarios con más actividad desde since.
func (r *AuditRepo) TopUsers(ctx context.Context, companyID string, since time.Time, limit int) ([]repository.UserCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT user_id, MAX(user_name), COUNT(*) FROM audit_logs
		WHERE company_id = $1 AND created_at >= $2 AND user_id <> ''
		GROUP BY user_id ORDER BY COUNT(*) DESC LIMIT $3`, companyID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("audit.TopUsers: %w", err)
	}
	defer rows.Close()
	var out []repository.UserCount
	for rows.Next() {
		var c repository.UserCount
		if err := rows.Scan(&c.UserID, &c.UserName, &c.Count); err != nil {
			return nil, fmt.Errorf("audit.TopUsers scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
