package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sweetshop/api/internal/middleware"
	"github.com/sweetshop/api/internal/service"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, http.StatusOK, echo.Map{"users": users}, "")
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "id is not a valid UUID")
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, http.StatusOK, echo.Map{"user": user}, "")
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req transport.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.Svc.CreateUser(ctx, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	l.Info("create_user_success", "user_id", user.ID)
	return respondData(c, http.StatusCreated, echo.Map{"user": user}, "User created successfully")
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "id is not a valid UUID")
	}

	var req transport.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.Svc.UpdateUser(ctx, id, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	l.Info("update_user_success", "user_id", user.ID)
	return respondData(c, http.StatusOK, echo.Map{"user": user}, "User updated successfully")
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "id is not a valid UUID")
	}

	callerID, _ := c.Get(middleware.ContextUserID).(string)

	if err := h.Svc.DeleteUser(ctx, id, callerID); err != nil {
		return respondServiceError(c, err)
	}

	l.Info("delete_user_success", "user_id", id)
	return respondData(c, http.StatusOK, nil, "User deleted successfully")
}
