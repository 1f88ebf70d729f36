package entity

import "time"

// Roles de usuario de la aplicación.
const (
	RoleAdmin     = "admin"
	RoleAlmacen   = "almacen"   // gestiona stock y entregas
	RoleConsultor = "consultor" // solo lectura
)

// User es un operador del sistema (no un asociado). Su identidad viaja como
// "actor" opaco en movimientos, entregas y retiros.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
