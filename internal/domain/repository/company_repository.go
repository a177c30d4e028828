package repository

import (
	"context"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}

// ProjectRepository proyectos/obras de una empresa (solo lectura desde la consola).
type ProjectRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.Project, error)
	ListByCompany(ctx context.Context, companyID string, activeOnly bool) ([]*entity.Project, error)
}
