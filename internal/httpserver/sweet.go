package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sweetshop/api/internal/service"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/logging"
)

type SweetHTTP struct {
	Svc *service.CatalogService
}

func sweetID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *SweetHTTP) ListSweets(c echo.Context) error {
	ctx := c.Request().Context()

	sweets, err := h.Svc.ListSweets(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, http.StatusOK, echo.Map{"sweets": sweets}, "")
}

func (h *SweetHTTP) SearchSweets(c echo.Context) error {
	ctx := c.Request().Context()

	q := c.QueryParam("q")
	if q == "" {
		return respondError(c, http.StatusBadRequest, "query parameter q is required")
	}

	sweets, err := h.Svc.Search(ctx, q)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, http.StatusOK, echo.Map{"sweets": sweets}, "")
}

func (h *SweetHTTP) GetSweet(c echo.Context) error {
	ctx := c.Request().Context()

	id, ok := sweetID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id is not a valid UUID")
	}

	sweet, err := h.Svc.GetSweet(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, http.StatusOK, echo.Map{"sweet": sweet}, "")
}

func (h *SweetHTTP) CreateSweet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.create")

	var req transport.CreateSweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sweet, err := h.Svc.CreateSweet(ctx, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	l.Info("create_sweet_success", "sweet_id", sweet.ID)
	return respondData(c, http.StatusCreated, echo.Map{"sweet": sweet}, "Sweet created successfully")
}

func (h *SweetHTTP) UpdateSweet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.update")

	id, ok := sweetID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id is not a valid UUID")
	}

	var req transport.UpdateSweetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sweet, err := h.Svc.UpdateSweet(ctx, id, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	l.Info("update_sweet_success", "sweet_id", sweet.ID)
	return respondData(c, http.StatusOK, echo.Map{"sweet": sweet}, "Sweet updated successfully")
}

func (h *SweetHTTP) DeleteSweet(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sweet.delete")

	id, ok := sweetID(c)
	if !ok {
		return respondError(c, http.StatusBadRequest, "id is not a valid UUID")
	}

	if err := h.Svc.DeleteSweet(ctx, id); err != nil {
		return respondServiceError(c, err)
	}

	l.Info("delete_sweet_success", "sweet_id", id)
	return respondData(c, http.StatusOK, nil, "Sweet deleted successfully")
}
