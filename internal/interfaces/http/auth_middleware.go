package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
	"github.com/marko-code-lab/noiddea/internal/domain/authz"
	"github.com/marko-code-lab/noiddea/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalScope  = "scope"
)

// ScopeResolver resuelve el alcance efectivo del usuario. Lo implementa *access.Resolver.
type ScopeResolver interface {
	Resolve(ctx context.Context, userID string) (authz.Scope, error)
}

// AuthMiddleware valida el Bearer Token JWT y deja UserID y Email en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, email, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalEmail, email)
		return c.Next()
	}
}

// ScopeMiddleware resuelve el alcance del usuario en cada request contra las concesiones vigentes.
// Debe usarse DESPUÉS de AuthMiddleware. Un usuario sin concesiones sigue adelante con NoScope: cada
// caso de uso decide si lo acepta. Un error de infraestructura corta el request.
func ScopeMiddleware(resolver ScopeResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := resolver.Resolve(c.UserContext(), GetUserID(c))
		if err != nil {
			return err
		}
		c.Locals(LocalScope, scope)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}

// GetScope devuelve el alcance resuelto; sin ScopeMiddleware es NoScope.
func GetScope(c *fiber.Ctx) authz.Scope {
	if scope, ok := c.Locals(LocalScope).(authz.Scope); ok {
		return scope
	}
	return authz.NoScope(GetUserID(c))
}
