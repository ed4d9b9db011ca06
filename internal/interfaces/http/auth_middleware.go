package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/commerce-invoicing/internal/application/dto"
	"github.com/jhoicas/commerce-invoicing/pkg/jwt"
)

// Locals keys para el actor autenticado en Fiber.
const (
	LocalUserID    = "user_id"
	LocalActorType = "actor_type"
)

// AuthMiddleware valida el Bearer Token JWT y extrae el actor a c.Locals.
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
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalActorType, claims.ActorType)
		return c.Next()
	}
}

// RequireActor autoriza sólo a los tipos de actor indicados. Debe usarse
// DESPUÉS de AuthMiddleware.
func RequireActor(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := GetActorType(c)
		if actor == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ACTOR", Message: "el token no indica el tipo de actor"})
		}
		for _, a := range allowed {
			if a == actor {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetActorType devuelve el tipo de actor del contexto.
func GetActorType(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalActorType).(string)
	return s
}
