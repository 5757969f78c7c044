package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dkr290/go-hf-imagegen/internal/metrics"
	"github.com/dkr290/go-hf-imagegen/static"
	"github.com/dkr290/go-hf-imagegen/templates"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewApp builds the fiber app with views, middleware and routes. m may be
// nil to disable /metrics.
func NewApp(h *Handler, m *metrics.Metrics) *fiber.App {
	engine := html.NewFileSystem(http.FS(templates.FS), ".html")
	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger())
	if m != nil {
		app.Use(m.Middleware())
		app.Get("/metrics", m.Handler())
	}

	// Static files
	app.Use("/static", filesystem.New(filesystem.Config{Root: http.FS(static.FS)}))

	// Routes
	app.Get("/", h.HomeHandler)
	app.Post("/generate", h.GenerateHandler)
	app.Get("/healthz", h.HealthHandler)

	// API endpoints
	app.Post("/api/generate", h.GenerateAPIHandler)
	app.Get("/api/models", h.ModelsAPIHandler)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		evt := log.Info()
		if status >= fiber.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return err
	}
}
