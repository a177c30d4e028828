package dto

import "time"

// VendorRequest alta/edición de proveedor.
type VendorRequest struct {
	Name           string `json:"name"`
	BusinessNumber string `json:"businessNumber"`
	Industry       string `json:"industry"`
	ContactPerson  string `json:"contactPerson"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	VendorType     string `json:"vendorType"`
	IsActive       *bool  `json:"isActive"`
}

// VendorResponse proveedor.
type VendorResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BusinessNumber string    `json:"businessNumber"`
	Industry       string    `json:"industry"`
	ContactPerson  string    `json:"contactPerson"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Address        string    `json:"address"`
	VendorType     string    `json:"vendorType"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// VendorValidateRequest validación previa al alta (número de registro y nombre).
type VendorValidateRequest struct {
	Name           string `json:"name"`
	BusinessNumber string `json:"businessNumber"`
	ExcludeID      string `json:"excludeId"` // al editar, el propio proveedor
}

// VendorValidateResponse resultado de la validación.
type VendorValidateResponse struct {
	Valid            bool              `json:"valid"`
	NormalizedNumber string            `json:"normalizedNumber,omitempty"`
	DuplicateName    bool              `json:"duplicateName"`
	DuplicateNumber  bool              `json:"duplicateNumber"`
	Errors           []ValidationError `json:"errors,omitempty"`
}

// VendorListRequest filtros del listado de proveedores.
type VendorListRequest struct {
	VendorType string `query:"vendorType"`
	Search     string `query:"search"`
	ActiveOnly bool   `query:"activeOnly"`
}
