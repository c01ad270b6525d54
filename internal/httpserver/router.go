package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/api/internal/middleware"
	"github.com/sweetshop/api/pkg/tokens"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	SweetHandler *SweetHTTP
	OrderHandler *OrderHTTP
	UserHandler  *UserHTTP
	Tokens       tokens.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := middleware.NewAuthMiddleware(d.Tokens)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/profile", d.AuthHandler.Profile, authMW.RequireAuth)

	sweets := e.Group("/sweets")
	sweets.GET("", d.SweetHandler.ListSweets)
	sweets.GET("/search", d.SweetHandler.SearchSweets)
	sweets.GET("/:id", d.SweetHandler.GetSweet)
	sweets.POST("", d.SweetHandler.CreateSweet, authMW.RequireAdmin)
	sweets.PUT("/:id", d.SweetHandler.UpdateSweet, authMW.RequireAdmin)
	sweets.DELETE("/:id", d.SweetHandler.DeleteSweet, authMW.RequireAdmin)

	orders := e.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder, authMW.RequireAuth)
	orders.GET("", d.OrderHandler.ListOrders, authMW.RequireAdmin)
	orders.GET("/:id", d.OrderHandler.GetOrder, authMW.RequireAdmin)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder, authMW.RequireAdmin)

	users := e.Group("/users", authMW.RequireAdmin)
	users.GET("", d.UserHandler.ListUsers)
	users.GET("/:id", d.UserHandler.GetUser)
	users.POST("", d.UserHandler.CreateUser)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)
}
