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

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo configuración de aprobación y plantillas de etapas sobre PostgreSQL.
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador.
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

// GetSettings obtiene la configuración de la empresa. nil, nil si no hay.
func (r *ApprovalRepo) GetSettings(ctx context.Context, companyID string) (*entity.ApprovalWorkflowSettings, error) {
	var s entity.ApprovalWorkflowSettings
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, approval_mode, direct_approval_roles, staged_template_name, require_all_stages,
			allow_skip_stages, is_active, created_at, updated_at
		FROM approval_workflow_settings WHERE company_id = $1`, companyID).Scan(
		&s.ID, &s.CompanyID, &s.ApprovalMode, &s.DirectApprovalRoles, &s.StagedTemplateName, &s.RequireAllStages,
		&s.AllowSkipStages, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval settings: %w", err)
	}
	return &s, nil
}

// UpsertSettings crea o reemplaza la configuración (una fila por empresa).
func (r *ApprovalRepo) UpsertSettings(ctx context.Context, s *entity.ApprovalWorkflowSettings) error {
	roles := s.DirectApprovalRoles
	if roles == nil {
		roles = []string{}
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO approval_workflow_settings (id, company_id, approval_mode, direct_approval_roles, staged_template_name,
			require_all_stages, allow_skip_stages, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (company_id) DO UPDATE SET
			approval_mode = EXCLUDED.approval_mode,
			direct_approval_roles = EXCLUDED.direct_approval_roles,
			staged_template_name = EXCLUDED.staged_template_name,
			require_all_stages = EXCLUDED.require_all_stages,
			allow_skip_stages = EXCLUDED.allow_skip_stages,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		s.ID, s.CompanyID, s.ApprovalMode, roles, s.StagedTemplateName, s.RequireAllStages, s.AllowSkipStages,
		s.IsActive, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert approval settings: %w", err)
	}
	return nil
}

const stepColumns = `id, company_id, template_name, description, step_order, step_name, required_role,
	min_amount, max_amount, is_optional, can_skip, is_active, created_at, updated_at`

func scanStep(row pgx.Row) (*entity.ApprovalStepTemplate, error) {
	var s entity.ApprovalStepTemplate
	if err := row.Scan(&s.ID, &s.CompanyID, &s.TemplateName, &s.Description, &s.StepOrder, &s.StepName,
		&s.RequiredRole, &s.MinAmount, &s.MaxAmount, &s.IsOptional, &s.CanSkip, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStepTemplates lista los pasos de la empresa por plantilla y orden.
func (r *ApprovalRepo) ListStepTemplates(ctx context.Context, companyID string) ([]*entity.ApprovalStepTemplate, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stepColumns+` FROM approval_step_templates
		WHERE company_id = $1 ORDER BY template_name, step_order`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list step templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.ApprovalStepTemplate
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, fmt.Errorf("scan step template: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetStepTemplate obtiene un paso. nil, nil si no existe.
func (r *ApprovalRepo) GetStepTemplate(ctx context.Context, companyID, id string) (*entity.ApprovalStepTemplate, error) {
	if !isUUID(id) {
		return nil, nil
	}
	s, err := scanStep(r.q.QueryRow(ctx,
		`SELECT `+stepColumns+` FROM approval_step_templates WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get step template: %w", err)
	}
	return s, nil
}

// CreateStepTemplate persiste un paso. ErrDuplicate si el orden ya existe en la plantilla.
func (r *ApprovalRepo) CreateStepTemplate(ctx context.Context, s *entity.ApprovalStepTemplate) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO approval_step_templates (`+stepColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		s.ID, s.CompanyID, s.TemplateName, s.Description, s.StepOrder, s.StepName, s.RequiredRole,
		s.MinAmount, s.MaxAmount, s.IsOptional, s.CanSkip, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert step template: %w", err)
	}
	return nil
}

// UpdateStepTemplate actualiza un paso.
func (r *ApprovalRepo) UpdateStepTemplate(ctx context.Context, s *entity.ApprovalStepTemplate) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE approval_step_templates SET template_name = $3, description = $4, step_order = $5, step_name = $6,
			required_role = $7, min_amount = $8, max_amount = $9, is_optional = $10, can_skip = $11,
			is_active = $12, updated_at = $13
		WHERE company_id = $1 AND id = $2`,
		s.CompanyID, s.ID, s.TemplateName, s.Description, s.StepOrder, s.StepName, s.RequiredRole,
		s.MinAmount, s.MaxAmount, s.IsOptional, s.CanSkip, s.IsActive, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update step template: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteStepTemplate elimina un paso.
func (r *ApprovalRepo) DeleteStepTemplate(ctx context.Context, companyID, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM approval_step_templates WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete step template: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
