package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/divaskloset/storefront/internal/logging"
	"github.com/divaskloset/storefront/internal/service/auth"
)

type AuthHTTP struct {
	Svc *auth.Service
	// Production suppresses the debug echo of the OTP in responses.
	Production bool
}

func createCookie(name, value, path string, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func deleteCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHTTP) RequestOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_request_otp")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("request_otp_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	code, err := h.Svc.RequestOTP(ctx, req.Email)
	if err != nil {
		l.Warn("request_otp_failed", "error", err)
		return serveError(c, err, http.StatusBadRequest, "request_otp")
	}

	resp := echo.Map{"message": "verification code sent"}
	if !h.Production {
		resp["otp"] = code
	}
	return ok(c, resp)
}

func (h *AuthHTTP) VerifyOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_verify_otp")

	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_otp_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.VerifyOTP(ctx, req.Email, req.OTP)
	if err != nil {
		l.Warn("verify_otp_failed", "status", statusFor(err, http.StatusBadRequest), "error", err)
		return serveError(c, err, http.StatusBadRequest, "verify_otp")
	}

	c.SetCookie(createCookie(SessionCookie, res.Token, "/", time.Now().Add(auth.TokenTTL)))
	return ok(c, echo.Map{
		"message": "logged in",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return fail(c, http.StatusUnauthorized, "invalid email or password")
	}

	c.SetCookie(createCookie(SessionCookie, res.Token, "/", time.Now().Add(auth.TokenTTL)))
	return ok(c, echo.Map{
		"message": "logged in",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(deleteCookie(SessionCookie, "/"))
	return ok(c, echo.Map{"message": "logged out"})
}

// Me returns the account behind the presented token; the admin panel uses
// it to restore sessions on reload.
func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	id, _ := c.Get("user_id").(string)

	user, err := h.Svc.CurrentUser(ctx, id)
	if err != nil {
		return serveError(c, err, http.StatusNotFound, "me")
	}
	return ok(c, echo.Map{"user": user})
}

func (h *AuthHTTP) ConfirmEmail(c echo.Context) error {
	ctx := c.Request().Context()
	token := c.QueryParam("token")
	if token == "" {
		return fail(c, http.StatusBadRequest, "token required")
	}
	if err := h.Svc.ConfirmEmail(ctx, token); err != nil {
		return serveError(c, err, http.StatusBadRequest, "confirm_email")
	}
	return ok(c, echo.Map{"message": "email confirmed"})
}
