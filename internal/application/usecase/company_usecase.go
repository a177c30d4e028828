package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/po-console/internal/application/dto"
	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
	"github.com/jhoicas/po-console/pkg/bizreg"
)

// CompanyUseCase aplica reglas de negocio para empresas y sus proyectos.
type CompanyUseCase struct {
	repo     repository.CompanyRepository
	projects repository.ProjectRepository
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, projects repository.ProjectRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, projects: projects}
}

// Create crea una nueva empresa. Genera ID y estado inicial.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	var verrs dto.ValidationErrors
	if strings.TrimSpace(in.Name) == "" {
		verrs.Add("name", "회사명을 입력하세요.")
	}
	if in.BusinessNumber != "" {
		if err := bizreg.Validate(in.BusinessNumber); err != nil {
			verrs.Add("businessNumber", "사업자등록번호가 올바르지 않습니다.")
		}
	}
	if err := verrs.Err(); err != nil {
		return nil, err
	}
	now := time.Now()
	company := &entity.Company{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(in.Name),
		BusinessNumber: bizreg.Normalize(in.BusinessNumber),
		Address:        in.Address,
		Phone:          in.Phone,
		Email:          in.Email,
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa por ID.
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Projects proyectos de la empresa para el selector del formulario de orden.
func (uc *CompanyUseCase) Projects(ctx context.Context, companyID string, activeOnly bool) ([]dto.ProjectResponse, error) {
	list, err := uc.projects.ListByCompany(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ProjectResponse{
			ID:       p.ID,
			Code:     p.Code,
			Name:     p.Name,
			Location: p.Location,
			Status:   p.Status,
		})
	}
	return out, nil
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		BusinessNumber: c.BusinessNumber,
		Address:        c.Address,
		Phone:          c.Phone,
		Email:          c.Email,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
