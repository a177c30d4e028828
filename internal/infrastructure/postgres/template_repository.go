package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

var _ repository.TemplateRepository = (*TemplateRepo)(nil)

// TemplateRepo plantillas de orden sobre PostgreSQL.
type TemplateRepo struct {
	q Querier
}

// NewTemplateRepository construye el adaptador.
func NewTemplateRepository(q Querier) *TemplateRepo {
	return &TemplateRepo{q: q}
}

const templateColumns = `id, company_id, template_name, template_type, description, fields_config, is_active,
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanTemplate(row pgx.Row) (*entity.OrderTemplate, error) {
	var t entity.OrderTemplate
	if err := row.Scan(&t.ID, &t.CompanyID, &t.TemplateName, &t.TemplateType, &t.Description, &t.FieldsConfig,
		&t.IsActive, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste una plantilla. ErrDuplicate si el nombre ya existe en la empresa.
func (r *TemplateRepo) Create(ctx context.Context, t *entity.OrderTemplate) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_templates (id, company_id, template_name, template_type, description, fields_config,
			is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.CompanyID, t.TemplateName, t.TemplateType, t.Description, t.FieldsConfig, t.IsActive,
		nullIfEmpty(t.CreatedBy), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// GetByID obtiene una plantilla. nil, nil si no existe.
func (r *TemplateRepo) GetByID(ctx context.Context, companyID, id string) (*entity.OrderTemplate, error) {
	if !isUUID(id) {
		return nil, nil
	}
	t, err := scanTemplate(r.q.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM order_templates WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// Update actualiza una plantilla.
func (r *TemplateRepo) Update(ctx context.Context, t *entity.OrderTemplate) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE order_templates SET template_name = $3, template_type = $4, description = $5, fields_config = $6,
			is_active = $7, updated_at = $8
		WHERE company_id = $1 AND id = $2`,
		t.CompanyID, t.ID, t.TemplateName, t.TemplateType, t.Description, t.FieldsConfig, t.IsActive, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update template: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una plantilla. ErrConflict si hay órdenes creadas con ella.
func (r *TemplateRepo) Delete(ctx context.Context, companyID, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM order_templates WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete template: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista plantillas por nombre.
func (r *TemplateRepo) List(ctx context.Context, f repository.TemplateFilter) ([]*entity.OrderTemplate, error) {
	var w whereBuilder
	w.add("company_id = ?", f.CompanyID)
	if f.TemplateType != "" {
		w.add("template_type = ?", f.TemplateType)
	}
	if f.ActiveOnly {
		w.add("is_active = ?", true)
	}
	if f.Search != "" {
		w.add("(template_name ILIKE ? OR description ILIKE ?)", likePattern(f.Search))
	}
	rows, err := r.q.Query(ctx, `SELECT `+templateColumns+` FROM order_templates`+w.sql()+` ORDER BY template_name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// SetActive activa o desactiva una plantilla.
func (r *TemplateRepo) SetActive(ctx context.Context, companyID, id string, active bool) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE order_templates SET is_active = $3, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id, active)
	if err != nil {
		return fmt.Errorf("toggle template: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
