package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	ProductHandler *ProductHTTP
	SearchHandler  *SearchHTTP
	OrderHandler   *OrderHTTP
	UserHandler    *UserHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := NewAuthMiddleware(d.JWTSecret)
	api := e.Group("/api")

	// One code request per 20s per client, small burst for retries.
	otpLimit := RateLimit(rate.Every(20*time.Second), 3)

	authGroup := api.Group("/auth")
	authGroup.POST("/request-otp", d.AuthHandler.RequestOTP, otpLimit)
	authGroup.POST("/verify-otp", d.AuthHandler.VerifyOTP)
	authGroup.POST("/login", d.AuthHandler.Login)
	authGroup.POST("/logout", d.AuthHandler.Logout)
	authGroup.GET("/confirm-email", d.AuthHandler.ConfirmEmail)
	authGroup.GET("/me", d.AuthHandler.Me, authMw.RequireAuth)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.List)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.Get)

	api.GET("/categories", d.ProductHandler.Categories)

	api.POST("/orders", d.OrderHandler.Create, authMw.RequireAuth)

	admin := api.Group("/admin", authMw.RequireAdmin)

	admin.POST("/products", d.ProductHandler.Create)
	admin.PATCH("/products/:id", d.ProductHandler.Patch)
	admin.DELETE("/products/:id", d.ProductHandler.Delete)

	admin.GET("/orders", d.OrderHandler.List)
	admin.GET("/orders/:id", d.OrderHandler.Get)
	admin.PATCH("/orders/:id", d.OrderHandler.UpdateStatus)
	admin.DELETE("/orders/:id", d.OrderHandler.Delete)

	admin.GET("/users", d.UserHandler.List)
	admin.GET("/users/:id", d.UserHandler.Get)
	admin.PATCH("/users/:id", d.UserHandler.Patch)
	admin.DELETE("/users/:id", d.UserHandler.Delete)
}
