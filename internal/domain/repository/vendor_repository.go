package repository

import (
	"context"

	"github.com/jhoicas/po-console/internal/domain/entity"
)

// VendorFilter filtros del listado de proveedores.
type VendorFilter struct {
	CompanyID  string
	VendorType string
	ActiveOnly bool
	Search     string
}

// VendorRepository define el puerto de persistencia para Vendor.
type VendorRepository interface {
	Create(ctx context.Context, vendor *entity.Vendor) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Vendor, error)
	Update(ctx context.Context, vendor *entity.Vendor) error
	Delete(ctx context.Context, companyID, id string) error
	List(ctx context.Context, f VendorFilter) ([]*entity.Vendor, error)
	FindByBusinessNumber(ctx context.Context, companyID, businessNumber string) (*entity.Vendor, error)
	FindByName(ctx context.Context, companyID, name string) (*entity.Vendor, error)
}
