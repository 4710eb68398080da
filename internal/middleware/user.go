package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// UserIDKey is the context key for the authenticated user ID
const UserIDKey contextKey = "user_id"

// UserMiddleware resolves the calling user from the X-User-ID header. The
// service sits behind a gateway that authenticates the session and forwards
// the resolved user ID; requests without it are rejected.
type UserMiddleware struct{}

// NewUserMiddleware creates a new UserMiddleware
func NewUserMiddleware() *UserMiddleware {
	return &UserMiddleware{}
}

// Identify returns an Echo middleware that extracts the user ID
func (m *UserMiddleware) Identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("X-User-ID")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing user id")
			}

			id, err := strconv.ParseInt(header, 10, 32)
			if err != nil || id <= 0 {
				log.Debug().Str("header", header).Msg("Invalid user id header")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
			}

			ctx := context.WithValue(c.Request().Context(), UserIDKey, int32(id))
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetUserID extracts the user ID from the context
func GetUserID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(UserIDKey).(int32); ok {
		return id
	}
	return 0
}
