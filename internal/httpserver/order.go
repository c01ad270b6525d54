package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sweetshop/api/internal/service"
	"github.com/sweetshop/api/internal/transport"
	"github.com/sweetshop/api/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return respondData(c, http.StatusCreated, echo.Map{"order": order}, "Order placed successfully")
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.Svc.ListOrders(ctx)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, http.StatusOK, echo.Map{"orders": orders}, "")
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "id is not a valid UUID")
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return respondData(c, http.StatusOK, echo.Map{"order": order}, "")
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "id is not a valid UUID")
	}

	var req transport.UpdateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}

	l.Info("update_order_success", "order_id", order.ID, "status", order.Status)
	return respondData(c, http.StatusOK, echo.Map{"order": order}, "Order updated successfully")
}
