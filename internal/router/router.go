package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"catalog/internal/auth"
	"catalog/internal/config"
	"catalog/internal/handler"
	authmw "catalog/internal/middleware"
	"catalog/internal/model"
	"catalog/internal/repository"
)

// Register wires routes and middleware. Registration and login are open;
// every other /api route sits behind the bearer-token gateway, and the
// user/product surfaces additionally require the "user" role.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes: token check, then identity resolution against the
	// credential store.
	secured := api.Group("", authmw.JWT(jwtService), authmw.Identity(userRepo))

	// Category routes: reads need only a valid identity, creation is
	// admin-only.
	secured.GET("/categories", categoryHandler.ListCategories)
	secured.POST("/categories", categoryHandler.CreateCategory, authmw.RequireRole(model.RoleAdmin))

	// User routes
	users := secured.Group("/user", authmw.RequireRole(model.RoleUser))
	users.GET("/info", userHandler.Info)

	// Product routes
	products := secured.Group("/products", authmw.RequireRole(model.RoleUser))
	products.GET("", productHandler.ListProducts)
	products.GET("/count", productHandler.CountProducts)
	products.GET("/category/:categoryId", productHandler.ListByCategory)
	products.GET("/:id", productHandler.GetProduct)
	products.POST("", productHandler.CreateProduct)
	products.PUT("/:id", productHandler.UpdateProduct)
	products.DELETE("/:id", productHandler.DeleteProduct)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
