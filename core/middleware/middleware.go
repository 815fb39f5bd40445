package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"schedbot/core/controller"
	"schedbot/core/errors"
	"schedbot/core/utils"
)

const userIDContextKey = "user_id"

type Middleware struct {
	jwtSecret string
}

func New(jwtSecret string) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

// AuthMiddleware extracts the caller's user id from a Bearer token and
// stores it on the request context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}
			token := strings.TrimPrefix(header, "Bearer ")
			if token == header {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "authorization header must be a bearer token")
			}

			data, err := utils.ValidateAndParseToken(m.jwtSecret, token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.CodeOf(err), "invalid token")
			}

			c.Set(userIDContextKey, data.UserID)
			return next(c)
		}
	}
}

// RequestID assigns a short correlation id to every request.
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = utils.GenerateID()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// UserID returns the authenticated caller's id from the request context.
func UserID(c echo.Context) (int64, error) {
	id, ok := c.Get(userIDContextKey).(int64)
	if !ok || id == 0 {
		return 0, errors.NewAppError(errors.ErrUnauthorized, "no authenticated user", nil)
	}
	return id, nil
}
