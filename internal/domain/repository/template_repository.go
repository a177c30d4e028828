package repository

import (
	"context"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// TemplateFilter filtros del listado de plantillas.
type TemplateFilter struct {
	CompanyID    string
	TemplateType string
	ActiveOnly   bool
	Search       string
}

// TemplateRepository define el puerto de persistencia para OrderTemplate.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *entity.OrderTemplate) error
	GetByID(ctx context.Context, companyID, id string) (*entity.OrderTemplate, error)
	Update(ctx context.Context, tpl *entity.OrderTemplate) error
	Delete(ctx context.Context, companyID, id string) error
	List(ctx context.Context, f TemplateFilter) ([]*entity.OrderTemplate, error)
	SetActive(ctx context.Context, companyID, id string, active bool) error
}
