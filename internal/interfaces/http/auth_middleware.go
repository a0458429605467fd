package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smart-locker-kiosk/internal/application/dto"
	"github.com/jhoicas/smart-locker-kiosk/internal/application/session"
	"github.com/jhoicas/smart-locker-kiosk/pkg/jwt"
)

// Locals keys para UserID, SessionID y la sesión cargada en Fiber.
const (
	LocalUserID    = "user_id"
	LocalSessionID = "session_id"
	LocalSession   = "session"
)

// SessionLookup resuelve la sesión de kiosco por ID.
type SessionLookup interface {
	Get(id string) (*session.Session, error)
}

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y SessionID a c.Locals.
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
		userID, sessionID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalSessionID, sessionID)
		return c.Next()
	}
}

// SessionMiddleware carga la sesión del token (después de AuthMiddleware).
// Una sesión cerrada o perdida (reinicio del servicio) responde 401 para forzar un nuevo login.
func SessionMiddleware(sessions SessionLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := sessions.Get(GetSessionID(c))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: err.Error()})
		}
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) int {
	v, _ := c.Locals(LocalUserID).(int)
	return v
}

// GetSessionID devuelve el SessionID del contexto (después del middleware de auth).
func GetSessionID(c *fiber.Ctx) string {
	v, _ := c.Locals(LocalSessionID).(string)
	return v
}

// GetSession devuelve la sesión cargada por SessionMiddleware (nil si no hay).
func GetSession(c *fiber.Ctx) *session.Session {
	v, _ := c.Locals(LocalSession).(*session.Session)
	return v
}
