package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/po-console/internal/domain"
	"github.com/jhoicas/po-console/internal/domain/entity"
	"github.com/jhoicas/po-console/internal/domain/repository"
)

var _ repository.VendorRepository = (*VendorRepo)(nil)

// VendorRepo implementación de VendorRepository sobre PostgreSQL.
type VendorRepo struct {
	q Querier
}

// NewVendorRepository construye el adaptador de proveedores.
func NewVendorRepository(q Querier) *VendorRepo {
	return &VendorRepo{q: q}
}

const vendorColumns = `id, company_id, name, business_number, industry, contact_person, phone, email, address,
	vendor_type, is_active, created_at, updated_at`

func scanVendor(row pgx.Row) (*entity.Vendor, error) {
	var v entity.Vendor
	if err := row.Scan(&v.ID, &v.CompanyID, &v.Name, &v.BusinessNumber, &v.Industry, &v.ContactPerson,
		&v.Phone, &v.Email, &v.Address, &v.VendorType, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persiste un proveedor. ErrDuplicate si el número de registro ya existe en la empresa.
func (r *VendorRepo) Create(ctx context.Context, v *entity.Vendor) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO vendors (`+vendorColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		v.ID, v.CompanyID, v.Name, v.BusinessNumber, v.Industry, v.ContactPerson, v.Phone, v.Email, v.Address,
		v.VendorType, v.IsActive, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert vendor: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor. nil, nil si no existe.
func (r *VendorRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Vendor, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE company_id = $1 AND id = $2`, companyID, id)
}

// FindByBusinessNumber busca por número de registro empresarial.
func (r *VendorRepo) FindByBusinessNumber(ctx context.Context, companyID, brn string) (*entity.Vendor, error) {
	return r.one(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE company_id = $1 AND business_number = $2`, companyID, brn)
}

// FindByName busca por nombre exacto (sin distinguir mayúsculas).
func (r *VendorRepo) FindByName(ctx context.Context, companyID, name string) (*entity.Vendor, error) {
	return r.one(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE company_id = $1 AND lower(name) = lower($2) LIMIT 1`, companyID, name)
}

func (r *VendorRepo) one(ctx context.Context, query string, args ...any) (*entity.Vendor, error) {
	v, err := scanVendor(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// Update actualiza un proveedor existente.
func (r *VendorRepo) Update(ctx context.Context, v *entity.Vendor) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE vendors SET name = $3, business_number = $4, industry = $5, contact_person = $6, phone = $7,
			email = $8, address = $9, vendor_type = $10, is_active = $11, updated_at = $12
		WHERE company_id = $1 AND id = $2`,
		v.CompanyID, v.ID, v.Name, v.BusinessNumber, v.Industry, v.ContactPerson, v.Phone, v.Email, v.Address,
		v.VendorType, v.IsActive, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update vendor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un proveedor. ErrConflict si tiene órdenes asociadas.
func (r *VendorRepo) Delete(ctx context.Context, companyID, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM vendors WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista proveedores ordenados por nombre.
func (r *VendorRepo) List(ctx context.Context, f repository.VendorFilter) ([]*entity.Vendor, error) {
	var w whereBuilder
	w.add("company_id = ?", f.CompanyID)
	if f.VendorType != "" {
		w.add("vendor_type = ?", f.VendorType)
	}
	if f.ActiveOnly {
		w.add("is_active = ?", true)
	}
	if f.Search != "" {
		w.add("(name ILIKE ? OR business_number ILIKE ? OR contact_person ILIKE ?)", likePattern(f.Search))
	}
	rows, err := r.q.Query(ctx, `SELECT `+vendorColumns+` FROM vendors`+w.sql()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
