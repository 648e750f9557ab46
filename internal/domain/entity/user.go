package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin = "ADM"
	RoleUser  = "USUARIO"
)

// User usuario local de la aplicación (tabla no sincronizable).
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	Email        string
	FullName     string
	Phone        string
	Address      string
	LastUpdated  time.Time
}
