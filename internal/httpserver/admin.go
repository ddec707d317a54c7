package httpserver

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_admin/internal/service"
	"github.com/Skotchmaster/shop_admin/internal/transport"
	"github.com/Skotchmaster/shop_admin/pkg/hash"
	jwthelp "github.com/Skotchmaster/shop_admin/pkg/jwt"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
	"github.com/Skotchmaster/shop_admin/pkg/tokens"
)

const (
	DefaultTokenTTL   = 12 * time.Hour
	MinPasswordLength = 8
)

type AdminHTTP struct {
	Creds     *service.CredentialService
	JWTSecret []byte
	TokenTTL  time.Duration
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Email     string    `json:"email"`
}

func (h *AdminHTTP) ttl() time.Duration {
	if h.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return h.TokenTTL
}

func (h *AdminHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "login_error", err)
	}
	if req.Password == "" {
		l.Warn("login_error", "status", 400, "reason", "password missing")
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}

	admin, err := h.Creds.Current(ctx)
	if err != nil {
		l.Warn("login_error", "status", 401, "reason", "no credential", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if req.Email != "" && !strings.EqualFold(strings.TrimSpace(req.Email), admin.Email) {
		l.Warn("login_error", "status", 401, "reason", "email mismatch")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !h.Creds.Verify(ctx, req.Password) {
		l.Warn("login_error", "status", 401, "reason", "wrong password")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	exp := time.Now().Add(h.ttl())
	token, err := tokens.NewAccessToken(h.JWTSecret, admin.ID, tokens.RoleAdmin, admin.Email, exp)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign token").SetInternal(err)
	}

	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookieName, token, "/", exp))
	l.Info("login_success", "admin_id", admin.ID)
	return c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: exp.UTC(), Email: admin.Email})
}

func (h *AdminHTTP) Logout(c echo.Context) error {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookieName, "/"))
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.me")

	admin, err := h.Creds.Current(ctx)
	if err != nil {
		return fail(l, "admin_me_error", err, "admin not found", "failed to read admin")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"admin":   admin,
		"store":   h.Creds.Tier(),
		"hashing": h.Creds.HasherKind().String(),
	})
}

func (h *AdminHTTP) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_password")

	var req transport.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_password_error", err)
	}
	if len(req.NewPassword) < MinPasswordLength {
		l.Warn("update_password_error", "status", 400, "reason", "password too short")
		return echo.NewHTTPError(http.StatusBadRequest, "new password must be at least 8 characters")
	}
	if !h.Creds.Verify(ctx, req.CurrentPassword) {
		l.Warn("update_password_error", "status", 401, "reason", "wrong current password")
		return echo.NewHTTPError(http.StatusUnauthorized, "current password is incorrect")
	}

	if h.Creds.HasherKind() == hash.KindUnavailable {
		l.Error("update_password_error", "status", 503, "reason", "hashing unavailable")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "password hashing unavailable").
			SetInternal(service.ErrCapabilityUnavailable)
	}
	if !h.Creds.UpdatePassword(ctx, req.NewPassword) {
		l.Error("update_password_error", "status", 500, "reason", "update rejected")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update password").
			SetInternal(errors.New("credential store rejected update"))
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (h *AdminHTTP) UpdateEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_email")

	var req transport.UpdateEmailRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_email_error", err)
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		l.Warn("update_email_error", "status", 400, "reason", "invalid email", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email").SetInternal(err)
	}

	if !h.Creds.UpdateEmail(ctx, addr.Address) {
		l.Error("update_email_error", "status", 500, "reason", "update rejected")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update email").
			SetInternal(errors.New("credential store rejected update"))
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "email": addr.Address})
}
