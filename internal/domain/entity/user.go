package entity

import "time"

// User perfil de un usuario. ID coincide con el de la cuenta en el proveedor de identidad.
type User struct {
	ID        string
	Email     string
	Name      string
	Phone     string
	CreatedAt time.Time
}

// StaffMember vista de un usuario de sucursal con su concesión (listados de personal).
type StaffMember struct {
	User
	BranchUser BranchUser
	BranchName string
}
