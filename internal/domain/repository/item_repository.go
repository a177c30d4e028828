package repository

import (
	"context"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// ItemFilter filtros del catálogo. CategoryID filtra por cualquier nivel de la jerarquía.
type ItemFilter struct {
	CompanyID  string
	CategoryID string
	ActiveOnly bool
	Search     string
}

// ItemRepository define el puerto de persistencia para Item.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, companyID, id string) error
	List(ctx context.Context, f ItemFilter) ([]*entity.Item, error)
}

// CategoryRepository jerarquía de categorías major/middle/minor.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Category, error)
	// ListByLevel lista un nivel; parentID vacío no filtra por padre.
	ListByLevel(ctx context.Context, companyID, level, parentID string) ([]*entity.Category, error)
	ListAll(ctx context.Context, companyID string) ([]*entity.Category, error)
}
