package ports

import "context"

// IdentityGateway proveedor de identidad: cuentas con credenciales, separadas de los perfiles.
type IdentityGateway interface {
	CreateAccount(ctx context.Context, email, password string) (userID string, err error)
	DeleteAccount(ctx context.Context, userID string) error
	// Authenticate devuelve domain.ErrUnauthenticated si las credenciales no son válidas.
	Authenticate(ctx context.Context, email, password string) (userID string, err error)
}
