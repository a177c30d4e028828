package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/orderform"
	"github.com/jhoicas/po-console/internal/application/query"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

// TemplateUseCase plantillas de orden (administración).
type TemplateUseCase struct {
	repo     repository.TemplateRepository
	recorder *audit.Recorder
	cache    *query.Client
}

// NewTemplateUseCase construye el caso de uso.
func NewTemplateUseCase(repo repository.TemplateRepository, recorder *audit.Recorder, cache *query.Client) *TemplateUseCase {
	return &TemplateUseCase{repo: repo, recorder: recorder, cache: cache}
}

// List plantillas de la empresa.
func (uc *TemplateUseCase) List(ctx context.Context, companyID string, in dto.TemplateListRequest) ([]dto.TemplateResponse, error) {
	f := repository.TemplateFilter{
		CompanyID:    companyID,
		TemplateType: in.TemplateType,
		ActiveOnly:   in.ActiveOnly,
		Search:       strings.TrimSpace(in.Search),
	}
	key := query.Key(query.ResourceTemplates, companyID, map[string]string{
		"type": f.TemplateType, "search": f.Search, "active": strconv.FormatBool(f.ActiveOnly),
	})
	return query.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]dto.TemplateResponse, error) {
		list, err := uc.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out := make([]dto.TemplateResponse, 0, len(list))
		for _, t := range list {
			out = append(out, toTemplateResponse(t))
		}
		return out, nil
	})
}

// GetByID obtiene una plantilla.
func (uc *TemplateUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.TemplateResponse, error) {
	t, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	r := toTemplateResponse(t)
	return &r, nil
}

func (uc *TemplateUseCase) load(ctx context.Context, companyID, id string) (*entity.OrderTemplate, error) {
	t, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// Create da de alta una plantilla. FieldsConfig debe ser una lista válida de campos.
func (uc *TemplateUseCase) Create(ctx context.Context, actor audit.Actor, in dto.TemplateRequest) (*dto.TemplateResponse, error) {
	now := time.Now()
	t := &entity.OrderTemplate{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		IsActive:  true,
		CreatedBy: actor.UserID,
		CreatedAt: now,
	}
	if err := applyTemplate(t, in); err != nil {
		return nil, err
	}
	t.UpdatedAt = now
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.changed(ctx, actor, entity.AuditCreate, t, "발주 양식 등록: ")
	r := toTemplateResponse(t)
	return &r, nil
}

// Update modifica una plantilla.
func (uc *TemplateUseCase) Update(ctx context.Context, actor audit.Actor, id string, in dto.TemplateRequest) (*dto.TemplateResponse, error) {
	t, err := uc.load(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if err := applyTemplate(t, in); err != nil {
		return nil, err
	}
	t.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	uc.changed(ctx, actor, entity.AuditUpdate, t, "발주 양식 수정: ")
	r := toTemplateResponse(t)
	return &r, nil
}

// ToggleStatus invierte el estado activo de la plantilla.
func (uc *TemplateUseCase) ToggleStatus(ctx context.Context, actor audit.Actor, id string) (*dto.TemplateResponse, error) {
	t, err := uc.load(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	t.IsActive = !t.IsActive
	if err := uc.repo.SetActive(ctx, actor.CompanyID, id, t.IsActive); err != nil {
		return nil, err
	}
	state := "비활성화"
	if t.IsActive {
		state = "활성화"
	}
	uc.changed(ctx, actor, entity.AuditUpdate, t, "발주 양식 "+state+": ")
	r := toTemplateResponse(t)
	return &r, nil
}

// Delete elimina una plantilla. ErrConflict si alguna orden la usa.
func (uc *TemplateUseCase) Delete(ctx context.Context, actor audit.Actor, id string) error {
	t, err := uc.load(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	uc.changed(ctx, actor, entity.AuditDelete, t, "발주 양식 삭제: ")
	return nil
}

func (uc *TemplateUseCase) changed(ctx context.Context, actor audit.Actor, action string, t *entity.OrderTemplate, desc string) {
	uc.cache.Invalidate(ctx, actor.CompanyID, query.ResourceTemplates)
	uc.recorder.Record(ctx, actor, audit.Entry{
		Action:      action,
		EntityType:  entity.AuditEntityTemplate,
		EntityID:    t.ID,
		Description: desc + t.TemplateName,
	})
}

func applyTemplate(t *entity.OrderTemplate, in dto.TemplateRequest) error {
	var verrs dto.ValidationErrors
	if strings.TrimSpace(in.TemplateName) == "" {
		verrs.Add("templateName", "양식명을 입력하세요.")
	}
	if in.TemplateType != entity.TemplateTypeSheet && in.TemplateType != entity.TemplateTypeGeneral {
		verrs.Add("templateType", "양식 유형이 올바르지 않습니다.")
	}
	fields, err := orderform.ParseFields(in.FieldsConfig)
	if err != nil {
		verrs.Add("fieldsConfig", "양식 필드 설정이 올바르지 않습니다.")
	}
	if err := verrs.Err(); err != nil {
		return err
	}
	// se guarda la forma normalizada (secciones por defecto, orden)
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	t.TemplateName = strings.TrimSpace(in.TemplateName)
	t.TemplateType = in.TemplateType
	t.Description = in.Description
	t.FieldsConfig = raw
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}
	return nil
}

func toTemplateResponse(t *entity.OrderTemplate) dto.TemplateResponse {
	fields, err := orderform.ParseFields(t.FieldsConfig)
	if err != nil {
		fields = []entity.TemplateField{}
	}
	return dto.TemplateResponse{
		ID:           t.ID,
		TemplateName: t.TemplateName,
		TemplateType: t.TemplateType,
		Description:  t.Description,
		Fields:       fields,
		IsActive:     t.IsActive,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
