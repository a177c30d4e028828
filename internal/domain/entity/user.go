package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"   // aprueba órdenes
	RolePurchaser = "purchaser" // crea y envía órdenes
	RoleViewer    = "viewer"
)

// ValidRole informa si r es un rol conocido.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RolePurchaser, RoleViewer:
		return true
	}
	return false
}

// User representa un usuario de la consola (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
