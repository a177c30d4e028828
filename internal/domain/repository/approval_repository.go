package repository

import (
	"context"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// ApprovalRepository persistencia de workflow-settings y step-templates por empresa.
type ApprovalRepository interface {
	// GetSettings devuelve nil, nil si la empresa no tiene configuración guardada.
	GetSettings(ctx context.Context, companyID string) (*entity.ApprovalWorkflowSettings, error)
	UpsertSettings(ctx context.Context, settings *entity.ApprovalWorkflowSettings) error

	ListStepTemplates(ctx context.Context, companyID string) ([]*entity.ApprovalStepTemplate, error)
	GetStepTemplate(ctx context.Context, companyID, id string) (*entity.ApprovalStepTemplate, error)
	CreateStepTemplate(ctx context.Context, step *entity.ApprovalStepTemplate) error
	UpdateStepTemplate(ctx context.Context, step *entity.ApprovalStepTemplate) error
	DeleteStepTemplate(ctx context.Context, companyID, id string) error
}
