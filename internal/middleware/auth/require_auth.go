package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/restbuck/coffeeshop/internal/models"
)

const actorContextKey = "actor"

// RequireAuth resolves the acting client from a Bearer token issued by the
// auth service. Requests without a verifiable identity never reach the core.
type RequireAuth struct {
	JWTSecret []byte
}

func (m *RequireAuth) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
			}
			return m.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		sub, ok := claims["sub"].(float64)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}

		actor := models.User{ID: uint(sub)}
		if email, ok := claims["email"].(string); ok {
			actor.Email = email
		}
		if role, ok := claims["role"].(string); ok {
			actor.Role = role
		}
		c.Set(actorContextKey, actor)

		return next(c)
	}
}

// Actor returns the authenticated identity stored by RequireAuth.
func Actor(c echo.Context) (models.User, bool) {
	actor, ok := c.Get(actorContextKey).(models.User)
	return actor, ok
}

// ManagerOnly gates the staff surface behind the manager role claim.
func ManagerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := Actor(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}
		if actor.Role != "manager" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}
		return next(c)
	}
}
