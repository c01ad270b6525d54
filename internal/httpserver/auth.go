package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/api/internal/middleware"
	"github.com/sweetshop/api/internal/service"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	l.Info("register_success", "username", req.Username)
	return respondData(c, http.StatusCreated, res, "User registered successfully")
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	l.Info("login_success", "username", req.Username)
	return respondData(c, http.StatusOK, res, "Login successful")
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, _ := c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return respondError(c, http.StatusUnauthorized, "missing access token")
	}

	user, err := h.Svc.Profile(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, http.StatusOK, echo.Map{"user": user}, "")
}
