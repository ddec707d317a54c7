package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/shop_admin/pkg/jwt"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/tokens"
)

type AdminAuth struct {
	JWTSecret []byte
}

func NewAdminAuth(secret []byte) *AdminAuth {
	return &AdminAuth{JWTSecret: secret}
}

// RequireAdmin accepts the access token from the accessToken cookie or an
// Authorization: Bearer header.
func (m *AdminAuth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "require_admin")

		raw := tokenFromRequest(c)
		if raw == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing access token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err != nil || claims == nil {
			c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookieName, "/"))
			l.Warn("auth_failed", "status", 401, "reason", "invalid or expired token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}
		if claims.Role != tokens.RoleAdmin {
			l.Warn("auth_failed", "status", 403, "reason", "not an admin", "role", claims.Role)
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}

		setUserContext(c, claims)
		return next(c)
	}
}

func tokenFromRequest(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if v, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(v)
		}
	}
	if ck, err := c.Cookie(jwthelp.AccessCookieName); err == nil {
		return ck.Value
	}
	return ""
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
}
