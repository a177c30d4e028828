package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/po-console/internal/application/audit"
	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/application/query"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
	"github.com/jhoicas/po-console/pkg/bizreg"
)

// VendorUseCase casos de uso CRUD para proveedores (거래처/납품처).
type VendorUseCase struct {
	repo     repository.VendorRepository
	recorder *audit.Recorder
	cache    *query.Client
}

// NewVendorUseCase construye el caso de uso. recorder y cache pueden ser nil.
func NewVendorUseCase(repo repository.VendorRepository, recorder *audit.Recorder, cache *query.Client) *VendorUseCase {
	return &VendorUseCase{repo: repo, recorder: recorder, cache: cache}
}

// List proveedores de la empresa, servidos desde la caché.
func (uc *VendorUseCase) List(ctx context.Context, companyID string, in dto.VendorListRequest) ([]dto.VendorResponse, error) {
	f := repository.VendorFilter{
		CompanyID:  companyID,
		VendorType: in.VendorType,
		ActiveOnly: in.ActiveOnly,
		Search:     strings.TrimSpace(in.Search),
	}
	key := query.Key(query.ResourceVendors, companyID, map[string]string{
		"type": f.VendorType, "search": f.Search, "active": strconv.FormatBool(f.ActiveOnly),
	})
	return query.Fetch(ctx, uc.cache, key, func(ctx context.Context) ([]dto.VendorResponse, error) {
		list, err := uc.repo.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out := make([]dto.VendorResponse, 0, len(list))
		for _, v := range list {
			out = append(out, *toVendorResponse(v))
		}
		return out, nil
	})
}

// GetByID obtiene un proveedor; ErrNotFound si no existe en la empresa.
func (uc *VendorUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.VendorResponse, error) {
	v, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return toVendorResponse(v), nil
}

// Validate comprueba el número de registro empresarial y si el nombre o el número ya existen.
func (uc *VendorUseCase) Validate(ctx context.Context, companyID string, in dto.VendorValidateRequest) (*dto.VendorValidateResponse, error) {
	out := &dto.VendorValidateResponse{}
	var verrs dto.ValidationErrors
	name := strings.TrimSpace(in.Name)
	if name != "" {
		v, err := uc.repo.FindByName(ctx, companyID, name)
		if err != nil {
			return nil, err
		}
		out.DuplicateName = v != nil && v.ID != in.ExcludeID
		if out.DuplicateName {
			verrs.Add("name", "이미 등록된 거래처명입니다.")
		}
	}
	if strings.TrimSpace(in.BusinessNumber) != "" {
		if err := bizreg.Validate(in.BusinessNumber); err != nil {
			verrs.Add("businessNumber", "사업자등록번호가 올바르지 않습니다.")
		} else {
			out.NormalizedNumber = bizreg.Normalize(in.BusinessNumber)
			v, err := uc.repo.FindByBusinessNumber(ctx, companyID, out.NormalizedNumber)
			if err != nil {
				return nil, err
			}
			out.DuplicateNumber = v != nil && v.ID != in.ExcludeID
			if out.DuplicateNumber {
				verrs.Add("businessNumber", "이미 등록된 사업자등록번호입니다.")
			}
		}
	}
	out.Valid = len(verrs) == 0
	out.Errors = verrs
	return out, nil
}

// Create da de alta un proveedor. Nombre y número de registro deben ser únicos en la empresa.
func (uc *VendorUseCase) Create(ctx context.Context, actor audit.Actor, in dto.VendorRequest) (*dto.VendorResponse, error) {
	if err := uc.check(ctx, actor.CompanyID, "", in); err != nil {
		return nil, err
	}
	now := time.Now()
	v := &entity.Vendor{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		IsActive:  true,
		CreatedAt: now,
	}
	applyVendor(v, in)
	v.UpdatedAt = now
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, actor.CompanyID, query.ResourceVendors)
	uc.recorder.Record(ctx, actor, audit.Entry{
		Action:      entity.AuditCreate,
		EntityType:  entity.AuditEntityVendor,
		EntityID:    v.ID,
		Description: "거래처 등록: " + v.Name,
	})
	return toVendorResponse(v), nil
}

// Update modifica un proveedor.
func (uc *VendorUseCase) Update(ctx context.Context, actor audit.Actor, id string, in dto.VendorRequest) (*dto.VendorResponse, error) {
	v, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.check(ctx, actor.CompanyID, id, in); err != nil {
		return nil, err
	}
	applyVendor(v, in)
	v.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, actor.CompanyID, query.ResourceVendors, query.ResourceOrders)
	uc.recorder.Record(ctx, actor, audit.Entry{
		Action:      entity.AuditUpdate,
		EntityType:  entity.AuditEntityVendor,
		EntityID:    v.ID,
		Description: "거래처 수정: " + v.Name,
	})
	return toVendorResponse(v), nil
}

// Delete elimina un proveedor. ErrConflict si tiene órdenes asociadas.
func (uc *VendorUseCase) Delete(ctx context.Context, actor audit.Actor, id string) error {
	v, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx, actor.CompanyID, query.ResourceVendors)
	uc.recorder.Record(ctx, actor, audit.Entry{
		Action:      entity.AuditDelete,
		EntityType:  entity.AuditEntityVendor,
		EntityID:    id,
		Description: "거래처 삭제: " + v.Name,
	})
	return nil
}

func (uc *VendorUseCase) check(ctx context.Context, companyID, excludeID string, in dto.VendorRequest) error {
	var verrs dto.ValidationErrors
	if strings.TrimSpace(in.Name) == "" {
		verrs.Add("name", "거래처명을 입력하세요.")
	}
	if in.VendorType != "" && !entity.ValidVendorType(in.VendorType) {
		verrs.Add("vendorType", "거래처 구분이 올바르지 않습니다.")
	}
	if err := verrs.Err(); err != nil {
		return err
	}
	res, err := uc.Validate(ctx, companyID, dto.VendorValidateRequest{
		Name:           in.Name,
		BusinessNumber: in.BusinessNumber,
		ExcludeID:      excludeID,
	})
	if err != nil {
		return err
	}
	if res.DuplicateName || res.DuplicateNumber {
		return domain.ErrDuplicate
	}
	if !res.Valid {
		return dto.ValidationErrors(res.Errors)
	}
	return nil
}

func applyVendor(v *entity.Vendor, in dto.VendorRequest) {
	v.Name = strings.TrimSpace(in.Name)
	v.BusinessNumber = bizreg.Normalize(strings.TrimSpace(in.BusinessNumber))
	v.Industry = in.Industry
	v.ContactPerson = in.ContactPerson
	v.Phone = in.Phone
	v.Email = strings.TrimSpace(in.Email)
	v.Address = in.Address
	v.VendorType = in.VendorType
	if v.VendorType == "" {
		v.VendorType = entity.VendorTypeSupplier
	}
	if in.IsActive != nil {
		v.IsActive = *in.IsActive
	}
}

func toVendorResponse(v *entity.Vendor) *dto.VendorResponse {
	return &dto.VendorResponse{
		ID:             v.ID,
		Name:           v.Name,
		BusinessNumber: v.BusinessNumber,
		Industry:       v.Industry,
		ContactPerson:  v.ContactPerson,
		Phone:          v.Phone,
		Email:          v.Email,
		Address:        v.Address,
		VendorType:     v.VendorType,
		IsActive:       v.IsActive,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
