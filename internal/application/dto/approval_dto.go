package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkflowSettingsRequest alta/reemplazo de la configuración de aprobación.
type WorkflowSettingsRequest struct {
	CompanyID           string   `json:"companyId"`
	ApprovalMode        string   `json:"approvalMode"`
	DirectApprovalRoles []string `json:"directApprovalRoles"`
	StagedTemplateName  string   `json:"stagedTemplateName"`
	RequireAllStages    bool     `json:"requireAllStages"`
	AllowSkipStages     bool     `json:"allowSkipStages"`
	IsActive            *bool    `json:"isActive"`
}

// WorkflowSettingsResponse configuración de aprobación.
type WorkflowSettingsResponse struct {
	ID                  string    `json:"id"`
	CompanyID           string    `json:"companyId"`
	ApprovalMode        string    `json:"approvalMode"`
	DirectApprovalRoles []string  `json:"directApprovalRoles"`
	StagedTemplateName  string    `json:"stagedTemplateName"`
	RequireAllStages    bool      `json:"requireAllStages"`
	AllowSkipStages     bool      `json:"allowSkipStages"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// StepTemplateRequest alta/edición de un paso.
type StepTemplateRequest struct {
	CompanyID    string           `json:"companyId"`
	TemplateName string           `json:"templateName"`
	Description  string           `json:"description"`
	StepOrder    int              `json:"stepOrder"`
	StepName     string           `json:"stepName"`
	RequiredRole string           `json:"requiredRole"`
	MinAmount    decimal.Decimal  `json:"minAmount"`
	MaxAmount    *decimal.Decimal `json:"maxAmount"`
	IsOptional   bool             `json:"isOptional"`
	CanSkip      bool             `json:"canSkip"`
	IsActive     *bool            `json:"isActive"`
}

// StepTemplateResponse paso de plantilla.
type StepTemplateResponse struct {
	ID           string           `json:"id"`
	CompanyID    string           `json:"companyId"`
	TemplateName string           `json:"templateName"`
	Description  string           `json:"description"`
	StepOrder    int              `json:"stepOrder"`
	StepName     string           `json:"stepName"`
	RequiredRole string           `json:"requiredRole"`
	MinAmount    decimal.Decimal  `json:"minAmount"`
	MaxAmount    *decimal.Decimal `json:"maxAmount"`
	IsOptional   bool             `json:"isOptional"`
	CanSkip      bool             `json:"canSkip"`
	IsActive     bool             `json:"isActive"`
}

// StepTemplateGroup pasos de una misma plantilla ordenados por stepOrder.
type StepTemplateGroup struct {
	TemplateName string                 `json:"templateName"`
	Steps        []StepTemplateResponse `json:"steps"`
}

// ApprovalPreviewStep paso que aplicaría a un monto.
type ApprovalPreviewStep struct {
	StepOrder    int    `json:"stepOrder"`
	StepName     string `json:"stepName"`
	RequiredRole string `json:"requiredRole"`
	Optional     bool   `json:"optional"`
	Skippable    bool   `json:"skippable"`
}

// ApprovalPreviewResponse ruta de aprobación para un monto.
type ApprovalPreviewResponse struct {
	Mode             string                `json:"mode"`
	Amount           decimal.Decimal       `json:"amount"`
	AmountFormatted  string                `json:"amountFormatted"`
	Required         bool                  `json:"required"`
	DirectRoles      []string              `json:"directRoles,omitempty"`
	RequireAllStages bool                  `json:"requireAllStages"`
	Steps            []ApprovalPreviewStep `json:"steps,omitempty"`
}
