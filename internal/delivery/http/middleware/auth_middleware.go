package middleware

import (
	"errors"
	"strings"

	"referral-radar/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxUserIDKey = "user_id"

// AuthMiddleware resolves the request's user. With auth enabled it requires a
// valid bearer access token; disabled, every request runs as the configured
// default user so the API stays usable without an identity provider.
type AuthMiddleware struct {
	jwt           jwt.Service
	enabled       bool
	defaultUserID string
}

func NewAuthMiddleware(jwtSvc jwt.Service, enabled bool, defaultUserID string) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, enabled: enabled, defaultUserID: defaultUserID}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if !m.enabled {
			c.Locals(CtxUserIDKey, m.defaultUserID)
			return c.Next()
		}

		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		return c.Next()
	}
}

// UserID reads the authenticated user set by the middleware.
func UserID(c fiber.Ctx) string {
	if v, ok := c.Locals(CtxUserIDKey).(string); ok && v != "" {
		return v
	}
	return ""
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
