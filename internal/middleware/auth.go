package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/Eursukkul/canchas-booking/pkg/auth"
	"github.com/labstack/echo/v4"
)

// Authenticate requires a valid bearer token and stores the actor it names
// in the request context.
func Authenticate(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := auth.ParseValidate(token, secret)
			if err != nil {
				log.Printf("[Auth] rejected token: %v", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			userID, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			actor := session.Actor{UserID: userID, Email: claims.Email, Role: models.Role(claims.Role)}
			if !actor.Role.Valid() {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			ctx := session.WithActor(c.Request().Context(), actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequirePermission lets the request through only when the actor's role
// grants access to module.
func RequirePermission(module session.Module) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := session.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			if !actor.Can(module) {
				return echo.NewHTTPError(http.StatusForbidden, "role "+string(actor.Role)+" cannot access "+string(module))
			}
			return next(c)
		}
	}
}
