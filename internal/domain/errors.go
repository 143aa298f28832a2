package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: detalle") para que el detalle llegue al usuario
// y errors.Is siga clasificando.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthenticated    = errors.New("no autenticado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrCrossTenant        = errors.New("el recurso no pertenece a tu negocio")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("Stock insuficiente")
	ErrPartialWrite       = errors.New("la operación falló a mitad de camino y fue revertida")
	ErrBusinessNameTaken  = errors.New("ya existe un negocio con ese nombre")
	ErrAlreadyHasBusiness = errors.New("el usuario ya tiene un negocio")
)
