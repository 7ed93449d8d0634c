package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/restbuck/coffeeshop/internal/logging"
	"github.com/restbuck/coffeeshop/internal/middleware/auth"
	"github.com/restbuck/coffeeshop/internal/models"
	"github.com/restbuck/coffeeshop/internal/service"
	"github.com/restbuck/coffeeshop/internal/transport"
)

// Stable client-facing messages, kept word for word for compatibility with
// existing clients (including the long-lived typo in the 404 one).
const (
	msgNotFound     = "requested order dose not exist"
	msgForbidden    = "Not your order"
	msgInvalidState = "Not valid order state"
	msgInvalidID    = "Not valid order id"
)

type OrderHandler struct {
	Svc *service.OrderService
}

func errorJSON(c echo.Context, code int, message string) error {
	return c.JSON(code, transport.ErrorResponse{Error: true, Message: message})
}

func dataJSON(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, transport.DataResponse{Data: data, Error: false})
}

// orderID parses the :id path param. Anything that is not a positive integer
// is rejected before touching the service.
func orderID(c echo.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *OrderHandler) mapServiceError(c echo.Context, err error) error {
	l := logging.FromContext(c.Request().Context())
	switch {
	case errors.Is(err, service.ErrNotFound):
		l.Warn("order_error", "status", 404, "error", err)
		return errorJSON(c, http.StatusNotFound, msgNotFound)
	case errors.Is(err, service.ErrForbidden):
		l.Warn("order_error", "status", 403, "error", err)
		return errorJSON(c, http.StatusForbidden, msgForbidden)
	case errors.Is(err, service.ErrInvalidState):
		l.Warn("order_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, msgInvalidState)
	case errors.Is(err, service.ErrValidation):
		l.Warn("order_error", "status", 400, "error", err)
		return errorJSON(c, http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": "))
	default:
		l.Error("order_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}

// GetOrders handles GET /client_order/.
func (h *OrderHandler) GetOrders(c echo.Context) error {
	actor, ok := auth.Actor(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	orders, err := h.Svc.ListOrders(c.Request().Context(), actor)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return dataJSON(c, http.StatusOK, transport.OrdersToResponse(orders))
}

// GetOrder handles GET /client_order/:id/.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	actor, ok := auth.Actor(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	id, ok := orderID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, msgInvalidID)
	}

	order, err := h.Svc.GetOrder(c.Request().Context(), id, actor)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return dataJSON(c, http.StatusOK, transport.OrderToResponse(order))
}

// CancelOrder handles DELETE /client_order/:id/.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	actor, ok := auth.Actor(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}
	id, ok := orderID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, msgInvalidID)
	}

	if err := h.Svc.CancelOrder(c.Request().Context(), id, actor); err != nil {
		return h.mapServiceError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// SubmitOrder handles POST /client_order/ and POST /client_order/:id/. Without
// an id it creates a new order, with one it replaces the item set of an
// existing waiting order.
func (h *OrderHandler) SubmitOrder(c echo.Context) error {
	actor, ok := auth.Actor(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
	}

	var id uint
	if c.Param("id") != "" {
		id, ok = orderID(c)
		if !ok {
			return errorJSON(c, http.StatusBadRequest, msgInvalidID)
		}
	}

	var req transport.SubmitOrderRequest
	if err := c.Bind(&req); err != nil {
		logging.FromContext(c.Request().Context()).Warn("submit_order_error", "status", 400, "reason", "invalid body", "error", err)
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}

	order, created, err := h.Svc.SubmitOrder(c.Request().Context(), id, actor, req.Data)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	logging.FromContext(c.Request().Context()).Info("submit_order_success", "orderID", order.ID, "created", created)
	return dataJSON(c, http.StatusCreated, transport.OrderToResponse(order))
}

// UpdateStatus handles PATCH /staff/client_order/:id/status, the manager-only
// pipeline advancement.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, ok := orderID(c)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, msgInvalidID)
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	next, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "unknown status")
	}

	order, err := h.Svc.AdvanceStatus(c.Request().Context(), id, next)
	if err != nil {
		return h.mapServiceError(c, err)
	}
	return dataJSON(c, http.StatusOK, transport.OrderToResponse(order))
}
