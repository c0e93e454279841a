package middleware

import (
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"catalog/internal/auth"
	"catalog/internal/repository"
)

const identityKey = "identity"

// JWT returns the bearer-token middleware, with verification delegated to
// the token service. Bad signatures, wrong issuers and malformed tokens all
// reject the request with 401 before any handler runs.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, ok := jwtService.Verify(tokenString)
			if !ok {
				return nil, errors.New("invalid token")
			}
			return claims, nil
		},
	})
}

// Identity resolves the verified token subject against the credential store
// and attaches the caller's identity to the request context. The role always
// comes from the fresh lookup, never from the token itself.
func Identity(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			user, err := users.FindByUsername(c.Request().Context(), claims.Subject)
			if err != nil || !user.Active {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			c.Set(identityKey, auth.Identity{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			})
			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not in the allowed set. This is
// an authorization failure (403), distinct from the 401 cases above.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := GetIdentity(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			for _, role := range roles {
				if ident.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

// GetIdentity returns the identity attached by the Identity middleware.
func GetIdentity(c echo.Context) (auth.Identity, bool) {
	ident, ok := c.Get(identityKey).(auth.Identity)
	return ident, ok
}
