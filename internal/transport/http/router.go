package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/restbuck/coffeeshop/internal/handlers"
	"github.com/restbuck/coffeeshop/internal/middleware/auth"
	"github.com/restbuck/coffeeshop/internal/middleware/ratelimit"
)

type Deps struct {
	MenuHandler  *handlers.MenuHandler
	OrderHandler *handlers.OrderHandler
	Auth         *auth.RequireAuth
	Limiter      *ratelimit.Limiter
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	client := e.Group("", d.Auth.Middleware, d.Limiter.Middleware)

	client.GET("/menu", d.MenuHandler.GetMenu)

	client.GET("/client_order", d.OrderHandler.GetOrders)
	client.GET("/client_order/:id", d.OrderHandler.GetOrder)
	client.POST("/client_order", d.OrderHandler.SubmitOrder)
	client.POST("/client_order/:id", d.OrderHandler.SubmitOrder)
	client.DELETE("/client_order/:id", d.OrderHandler.CancelOrder)

	staff := e.Group("/staff", d.Auth.Middleware, auth.ManagerOnly)

	staff.PATCH("/client_order/:id/status", d.OrderHandler.UpdateStatus)
}
