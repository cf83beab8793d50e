package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin    = "super_admin" // operador de plataforma, sin negocio asociado
	RoleBusinessAdmin = "business_admin"
	RoleManager       = "manager"
	RoleCashier       = "cashier"
)

// User representa un usuario del directorio. BusinessID vacío para super_admin.
type User struct {
	ID         string
	BusinessID string
	Email      string
	Name       string
	Role       string
	CreatedAt  time.Time
}
