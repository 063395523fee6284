package server

import (
	"io/fs"
	"net/http"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"productsvc/internal/config"
	"productsvc/internal/handlers"
	"productsvc/internal/metrics"
	"productsvc/internal/middleware"
	"productsvc/internal/repositories"
	"productsvc/internal/services"
	"productsvc/web"
)

// Dependencies are the components the HTTP app is assembled from.
type Dependencies struct {
	Config         *config.Config
	Store          *repositories.Store
	ProductService *services.ProductService
	Metrics        *metrics.Metrics
}

// New builds the Fiber app with middleware and all routes registered.
func New(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: !deps.Config.IsDevelopment(),
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.Metrics(deps.Metrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	handlers.NewHealthHandler(deps.Store).RegisterRoutes(app)
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")
	handlers.NewProductHandler(deps.ProductService).RegisterRoutes(api)

	if deps.Config.UIEnabled {
		static, err := fs.Sub(web.Assets, "static")
		if err != nil {
			panic(err)
		}
		app.Use("/app", filesystem.New(filesystem.Config{
			Root:  http.FS(static),
			Index: "/index.html",
		}))
	}

	return app
}
