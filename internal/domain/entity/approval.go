package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de aprobación de la empresa.
const (
	ApprovalModeDirect = "direct" // un rol autorizado aprueba en un solo paso
	ApprovalModeStaged = "staged" // pasos ordenados según plantilla de etapas
)

// ApprovalWorkflowSettings configuración de aprobación por empresa (una fila por company).
type ApprovalWorkflowSettings struct {
	ID                  string
	CompanyID           string
	ApprovalMode        string
	DirectApprovalRoles []string
	StagedTemplateName  string // plantilla de etapas vigente en modo staged; vacío = todas
	RequireAllStages    bool
	AllowSkipStages     bool
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ApprovalStepTemplate paso de una plantilla de etapas. Los pasos con el mismo TemplateName
// forman una plantilla y se ordenan por StepOrder.
type ApprovalStepTemplate struct {
	ID           string
	CompanyID    string
	TemplateName string
	Description  string
	StepOrder    int
	StepName     string
	RequiredRole string
	MinAmount    decimal.Decimal
	MaxAmount    *decimal.Decimal // nil = sin tope
	IsOptional   bool
	CanSkip      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Covers informa si el monto cae dentro del rango [MinAmount, MaxAmount] del paso.
func (s *ApprovalStepTemplate) Covers(amount decimal.Decimal) bool {
	if amount.LessThan(s.MinAmount) {
		return false
	}
	return s.MaxAmount == nil || amount.LessThanOrEqual(*s.MaxAmount)
}
