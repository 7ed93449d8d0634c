package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/restbuck/coffeeshop/internal/logging"
	"github.com/restbuck/coffeeshop/internal/service"
)

type MenuHandler struct {
	Svc *service.CatalogService
}

// GetMenu handles GET /menu/.
func (h *MenuHandler) GetMenu(c echo.Context) error {
	products, err := h.Svc.Menu(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("get_menu_error", "status", 500, "error", err)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
	return dataJSON(c, http.StatusOK, products)
}
