package server

import (
	"time"

	"alliedparts/internal/handlers"
	"alliedparts/internal/middleware"
	"alliedparts/internal/payment"
	"alliedparts/internal/repositories"
	"alliedparts/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the collaborators the HTTP app is built from.
type Dependencies struct {
	Store     *repositories.Store
	Auth      *services.AuthService
	Gateway   payment.Gateway
	Publisher services.EventPublisher // optional
	Cache     services.ListingCache   // optional

	ProfileUpdateRequiresAuth bool
	DisableAccessLog          bool
}

// NewApp wires services, handlers and middleware into a fiber app.
func NewApp(deps Dependencies) *fiber.App {
	userService := services.NewUserService(deps.Store.Users, deps.Auth)
	orderService := services.NewOrderService(deps.Store.Orders, deps.Publisher)
	catalogService := services.NewCatalogService(deps.Store.Parts, deps.Store.Reviews, deps.Store.Blogs, deps.Cache)

	guards := handlers.Guards{
		Authenticated: middleware.RequireAuthenticated(deps.Auth),
		Admin:         middleware.RequireAdmin(userService),
	}

	app := fiber.New(fiber.Config{
		AppName:      "Allied Parts",
		Immutable:    true,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	if !deps.DisableAccessLog {
		app.Use(logger.New())
	}
	app.Use(cors.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("This is Turbo Server")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handlers.NewUserHandler(userService, deps.ProfileUpdateRequiresAuth).RegisterRoutes(app, guards)
	handlers.NewCatalogHandler(catalogService).RegisterRoutes(app, guards)
	handlers.NewOrderHandler(orderService).RegisterRoutes(app, guards)
	handlers.NewPaymentHandler(deps.Gateway).RegisterRoutes(app, guards)

	return app
}
