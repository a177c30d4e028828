// Package approval configuración del flujo de aprobación (modo directo o por etapas), sus
// plantillas de pasos y la ruta de aprobación que corresponde a un monto.
package approval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/query"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
	"github.com/jhoicas/po-console/pkg/format"
)

// Service casos de uso de aprobación.
type Service struct {
	repo     repository.ApprovalRepository
	recorder *audit.Recorder
	cache    *query.Client
	now      func() time.Time
}

// NewService construye el servicio. recorder y cache pueden ser nil.
func NewService(repo repository.ApprovalRepository, recorder *audit.Recorder, cache *query.Client) *Service {
	return &Service{repo: repo, recorder: recorder, cache: cache, now: time.Now}
}

// DefaultSettings configuración vigente cuando la empresa nunca guardó una.
func DefaultSettings(companyID string) *entity.ApprovalWorkflowSettings {
	return &entity.ApprovalWorkflowSettings{
		CompanyID:           companyID,
		ApprovalMode:        entity.ApprovalModeDirect,
		DirectApprovalRoles: []string{entity.RoleAdmin, entity.RoleManager},
		IsActive:            true,
	}
}

// scope resuelve la empresa pedida: vacía = la de la sesión; otra distinta está prohibida.
func scope(sessionCompany, requested string) (string, error) {
	if requested == "" || requested == sessionCompany {
		return sessionCompany, nil
	}
	return "", domain.ErrForbidden
}

// ── Workflow settings ────────────────────────────────────────────────────────

// Settings configuración de la empresa (por defecto si no existe).
func (s *Service) Settings(ctx context.Context, sessionCompany, companyID string) (*dto.WorkflowSettingsResponse, error) {
	companyID, err := scope(sessionCompany, companyID)
	if err != nil {
		return nil, err
	}
	st, err := s.settings(ctx, companyID)
	if err != nil {
		return nil, err
	}
	r := toSettingsResponse(st)
	return &r, nil
}

func (s *Service) settings(ctx context.Context, companyID string) (*entity.ApprovalWorkflowSettings, error) {
	st, err := s.repo.GetSettings(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st = DefaultSettings(companyID)
	}
	return st, nil
}

// SaveSettings valida y guarda (alta o reemplazo) la configuración.
func (s *Service) SaveSettings(ctx context.Context, actor audit.Actor, in dto.WorkflowSettingsRequest) (*dto.WorkflowSettingsResponse, error) {
	companyID, err := scope(actor.CompanyID, in.CompanyID)
	if err != nil {
		return nil, err
	}
	var verrs dto.ValidationErrors
	switch in.ApprovalMode {
	case entity.ApprovalModeDirect:
		if len(in.DirectApprovalRoles) == 0 {
			verrs.Add("directApprovalRoles", "승인 권한을 하나 이상 선택하세요.")
		}
	case entity.ApprovalModeStaged:
		steps, err := s.repo.ListStepTemplates(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if len(activeSteps(steps, in.StagedTemplateName)) == 0 {
			verrs.Add("stagedTemplateName", "단계별 승인에 사용할 활성 단계가 없습니다.")
		}
	default:
		verrs.Add("approvalMode", "승인 방식을 선택하세요.")
	}
	for _, r := range in.DirectApprovalRoles {
		if !entity.ValidRole(r) {
			verrs.Add("directApprovalRoles", "알 수 없는 역할입니다: "+r)
			break
		}
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	st := &entity.ApprovalWorkflowSettings{
		ID:                  uuid.New().String(),
		CompanyID:           companyID,
		ApprovalMode:        in.ApprovalMode,
		DirectApprovalRoles: in.DirectApprovalRoles,
		StagedTemplateName:  strings.TrimSpace(in.StagedTemplateName),
		RequireAllStages:    in.RequireAllStages,
		AllowSkipStages:     in.AllowSkipStages,
		IsActive:            in.IsActive == nil || *in.IsActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.UpsertSettings(ctx, st); err != nil {
		return nil, err
	}
	s.changed(ctx, actor, "", fmt.Sprintf("승인 설정 변경 (%s)", st.ApprovalMode), in)
	r := toSettingsResponse(st)
	return &r, nil
}

// ── Step templates ───────────────────────────────────────────────────────────

// ListSteps pasos de la empresa, ordenados por plantilla y stepOrder.
func (s *Service) ListSteps(ctx context.Context, sessionCompany, companyID string) ([]dto.StepTemplateResponse, error) {
	companyID, err := scope(sessionCompany, companyID)
	if err != nil {
		return nil, err
	}
	key := query.Key(query.ResourceApproval, companyID, map[string]string{"list": "steps"})
	return query.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]dto.StepTemplateResponse, error) {
		steps, err := s.repo.ListStepTemplates(ctx, companyID)
		if err != nil {
			return nil, err
		}
		out := make([]dto.StepTemplateResponse, 0, len(steps))
		for _, st := range steps {
			out = append(out, toStepResponse(st))
		}
		return out, nil
	})
}

// Groups pasos agrupados por plantilla.
func (s *Service) Groups(ctx context.Context, companyID string) ([]dto.StepTemplateGroup, error) {
	steps, err := s.repo.ListStepTemplates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return GroupStepTemplates(steps), nil
}

// GetStep paso por id.
func (s *Service) GetStep(ctx context.Context, companyID, id string) (*dto.StepTemplateResponse, error) {
	st, err := s.repo.GetStepTemplate(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	r := toStepResponse(st)
	return &r, nil
}

// CreateStep alta de un paso. ErrDuplicate si ya existe ese stepOrder en la plantilla.
func (s *Service) CreateStep(ctx context.Context, actor audit.Actor, in dto.StepTemplateRequest) (*dto.StepTemplateResponse, error) {
	companyID, err := scope(actor.CompanyID, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := validateStep(in); err != nil {
		return nil, err
	}
	now := s.now()
	st := &entity.ApprovalStepTemplate{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		CreatedAt: now,
	}
	applyStep(st, in, now)
	if err := s.repo.CreateStepTemplate(ctx, st); err != nil {
		return nil, err
	}
	s.changed(ctx, actor, st.ID, fmt.Sprintf("승인 단계 추가: %s %d. %s", st.TemplateName, st.StepOrder, st.StepName), nil)
	r := toStepResponse(st)
	return &r, nil
}

// UpdateStep edición de un paso.
func (s *Service) UpdateStep(ctx context.Context, actor audit.Actor, id string, in dto.StepTemplateRequest) (*dto.StepTemplateResponse, error) {
	st, err := s.repo.GetStepTemplate(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	if err := validateStep(in); err != nil {
		return nil, err
	}
	applyStep(st, in, s.now())
	if err := s.repo.UpdateStepTemplate(ctx, st); err != nil {
		return nil, err
	}
	s.changed(ctx, actor, st.ID, fmt.Sprintf("승인 단계 수정: %s %d. %s", st.TemplateName, st.StepOrder, st.StepName), nil)
	r := toStepResponse(st)
	return &r, nil
}

// DeleteStep baja de un paso.
func (s *Service) DeleteStep(ctx context.Context, actor audit.Actor, id string) error {
	if err := s.repo.DeleteStepTemplate(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	s.changed(ctx, actor, id, "승인 단계 삭제", nil)
	return nil
}

func (s *Service) changed(ctx context.Context, actor audit.Actor, entityID, description string, meta any) {
	s.cache.Invalidate(ctx, actor.CompanyID, query.ResourceApproval)
	s.recorder.Record(ctx, actor, audit.Entry{
		Action:      entity.AuditSettingsChange,
		EntityType:  entity.AuditEntityApproval,
		EntityID:    entityID,
		Description: description,
		Metadata:    meta,
	})
}

func validateStep(in dto.StepTemplateRequest) error {
	var verrs dto.ValidationErrors
	if strings.TrimSpace(in.TemplateName) == "" {
		verrs.Add("templateName", "템플릿 이름을 입력하세요.")
	}
	if strings.TrimSpace(in.StepName) == "" {
		verrs.Add("stepName", "단계 이름을 입력하세요.")
	}
	if in.StepOrder < 1 {
		verrs.Add("stepOrder", "단계 순서는 1 이상이어야 합니다.")
	}
	if !entity.ValidRole(in.RequiredRole) {
		verrs.Add("requiredRole", "승인 역할을 선택하세요.")
	}
	if in.MinAmount.IsNegative() {
		verrs.Add("minAmount", "최소 금액은 0 이상이어야 합니다.")
	}
	if in.MaxAmount != nil && in.MaxAmount.LessThan(in.MinAmount) {
		verrs.Add("maxAmount", "최대 금액은 최소 금액 이상이어야 합니다.")
	}
	return verrs.Err()
}

func applyStep(st *entity.ApprovalStepTemplate, in dto.StepTemplateRequest, now time.Time) {
	st.TemplateName = strings.TrimSpace(in.TemplateName)
	st.Description = in.Description
	st.StepOrder = in.StepOrder
	st.StepName = strings.TrimSpace(in.StepName)
	st.RequiredRole = in.RequiredRole
	st.MinAmount = in.MinAmount
	st.MaxAmount = in.MaxAmount
	st.IsOptional = in.IsOptional
	st.CanSkip = in.CanSkip
	st.IsActive = in.IsActive == nil || *in.IsActive
	st.UpdatedAt = now
}

// GroupStepTemplates agrupa por nombre de plantilla (orden alfabético) y ordena cada grupo por
// stepOrder.
func GroupStepTemplates(steps []*entity.ApprovalStepTemplate) []dto.StepTemplateGroup {
	index := map[string]int{}
	var groups []dto.StepTemplateGroup
	for _, st := range steps {
		i, ok := index[st.TemplateName]
		if !ok {
			i = len(groups)
			index[st.TemplateName] = i
			groups = append(groups, dto.StepTemplateGroup{TemplateName: st.TemplateName})
		}
		groups[i].Steps = append(groups[i].Steps, toStepResponse(st))
	}
	for i := range groups {
		sort.SliceStable(groups[i].Steps, func(a, b int) bool {
			return groups[i].Steps[a].StepOrder < groups[i].Steps[b].StepOrder
		})
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].TemplateName < groups[b].TemplateName })
	return groups
}

// ── Preview ──────────────────────────────────────────────────────────────────

// Preview ruta de aprobación que aplicaría a una orden de amount.
func (s *Service) Preview(ctx context.Context, companyID string, amount decimal.Decimal) (*dto.ApprovalPreviewResponse, error) {
	st, err := s.settings(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := &dto.ApprovalPreviewResponse{
		Mode:             st.ApprovalMode,
		Amount:           amount,
		AmountFormatted:  format.Currency(amount),
		RequireAllStages: st.RequireAllStages,
	}
	if !st.IsActive {
		return out, nil
	}
	if st.ApprovalMode == entity.ApprovalModeDirect {
		out.Required = len(st.DirectApprovalRoles) > 0
		out.DirectRoles = st.DirectApprovalRoles
		return out, nil
	}

	steps, err := s.repo.ListStepTemplates(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, step := range activeSteps(steps, st.StagedTemplateName) {
		if !step.Covers(amount) {
			continue
		}
		optional := step.IsOptional && !st.RequireAllStages
		out.Steps = append(out.Steps, dto.ApprovalPreviewStep{
			StepOrder:    step.StepOrder,
			StepName:     step.StepName,
			RequiredRole: step.RequiredRole,
			Optional:     optional,
			Skippable:    st.AllowSkipStages && step.CanSkip && !st.RequireAllStages,
		})
		if !optional {
			out.Required = true
		}
	}
	return out, nil
}

// RequiresApproval informa si una orden de amount necesita aprobación.
func (s *Service) RequiresApproval(ctx context.Context, companyID string, amount decimal.Decimal) (bool, error) {
	p, err := s.Preview(ctx, companyID, amount)
	if err != nil {
		return false, err
	}
	return p.Required, nil
}

// activeSteps pasos activos de la plantilla name (la primera alfabéticamente si name está vacío),
// ordenados por stepOrder.
func activeSteps(steps []*entity.ApprovalStepTemplate, name string) []*entity.ApprovalStepTemplate {
	if name == "" {
		for _, st := range steps {
			if st.IsActive && (name == "" || st.TemplateName < name) {
				name = st.TemplateName
			}
		}
	}
	var out []*entity.ApprovalStepTemplate
	for _, st := range steps {
		if st.IsActive && st.TemplateName == name {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StepOrder < out[j].StepOrder })
	return out
}

func toSettingsResponse(st *entity.ApprovalWorkflowSettings) dto.WorkflowSettingsResponse {
	roles := st.DirectApprovalRoles
	if roles == nil {
		roles = []string{}
	}
	return dto.WorkflowSettingsResponse{
		ID:                  st.ID,
		CompanyID:           st.CompanyID,
		ApprovalMode:        st.ApprovalMode,
		DirectApprovalRoles: roles,
		StagedTemplateName:  st.StagedTemplateName,
		RequireAllStages:    st.RequireAllStages,
		AllowSkipStages:     st.AllowSkipStages,
		IsActive:            st.IsActive,
		CreatedAt:           st.CreatedAt,
		UpdatedAt:           st.UpdatedAt,
	}
}

func toStepResponse(st *entity.ApprovalStepTemplate) dto.StepTemplateResponse {
	return dto.StepTemplateResponse{
		ID:           st.ID,
		CompanyID:    st.CompanyID,
		TemplateName: st.TemplateName,
		Description:  st.Description,
		StepOrder:    st.StepOrder,
		StepName:     st.StepName,
		RequiredRole: st.RequiredRole,
		MinAmount:    st.MinAmount,
		MaxAmount:    st.MaxAmount,
		IsOptional:   st.IsOptional,
		CanSkip:      st.CanSkip,
		IsActive:     st.IsActive,
	}
}
