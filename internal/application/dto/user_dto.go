package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignupRequest alta de un usuario junto con su negocio.
type SignupRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Phone        string `json:"phone" validate:"max=30"`
	BusinessName string `json:"business_name" validate:"required,min=2,max=200"`
}

// SignupResponse resultado del alta.
type SignupResponse struct {
	UserID     string `json:"user_id"`
	BusinessID string `json:"business_id"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT, perfil y alcance resuelto.
type LoginResponse struct {
	Token string        `json:"token"`
	User  UserResponse  `json:"user"`
	Scope ScopeResponse `json:"scope"`
}

// ScopeResponse alcance efectivo del usuario.
type ScopeResponse struct {
	Kind       string           `json:"kind"`
	Role       string           `json:"role,omitempty"`
	BusinessID string           `json:"business_id,omitempty"`
	BranchID   string           `json:"branch_id,omitempty"`
	Benefit    *decimal.Decimal `json:"benefit,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStaffRequest alta de personal. BranchID es obligatorio para manager/cashier.
type CreateStaffRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Phone    string `json:"phone" validate:"max=30"`
	BranchID string `json:"branch_id" validate:"omitempty,uuid"`
}

// UpdateStaffRequest edición de un usuario de sucursal.
type UpdateStaffRequest struct {
	Name    *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Phone   *string          `json:"phone" validate:"omitempty,max=30"`
	Role    *string          `json:"role" validate:"omitempty,oneof=manager cashier"`
	Benefit *decimal.Decimal `json:"benefit" validate:"omitempty,gte=0"`
}

// StaffResponse usuario de sucursal con su concesión.
type StaffResponse struct {
	UserResponse
	Role       string          `json:"role"`
	BranchID   string          `json:"branch_id,omitempty"`
	BranchName string          `json:"branch_name,omitempty"`
	IsActive   bool            `json:"is_active"`
	Benefit    decimal.Decimal `json:"benefit"`
}

// MeResponse perfil y alcance del usuario autenticado.
type MeResponse struct {
	User  UserResponse  `json:"user"`
	Scope ScopeResponse `json:"scope"`
}
