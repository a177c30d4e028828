package entity

import "time"

// Tipos de proveedor.
const (
	VendorTypeSupplier = "거래처" // proveedor con el que se negocia
	VendorTypeDelivery = "납품처" // destino de entrega
)

// Vendor proveedor (거래처/납품처) de una empresa.
type Vendor struct {
	ID             string
	CompanyID      string
	Name           string
	BusinessNumber string // número de registro empresarial (사업자등록번호), 10 dígitos
	Industry       string
	ContactPerson  string
	Phone          string
	Email          string
	Address        string
	VendorType     string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidVendorType informa si t es uno de los tipos admitidos.
func ValidVendorType(t string) bool {
	return t == VendorTypeSupplier || t == VendorTypeDelivery
}
