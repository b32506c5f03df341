// Package server exposes the editor over HTTP. Sessions live in memory and
// each one owns a single editor guarded by its own lock.
package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/setanarut/wrapstudio/config"
	"github.com/setanarut/wrapstudio/pattern"
)

// New builds the application. A nil registry selects pattern.Default().
func New(cfg *config.Config, patterns *pattern.Registry) *fiber.App {
	if patterns == nil {
		patterns = pattern.Default()
	}
	opt := cfg.EditorOptions()
	opt.Patterns = patterns
	h := &Handler{store: NewStore(opt, cfg.SessionIdleDuration()), patterns: patterns}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "wrapstudio",
		ErrorHandler: errorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	if !cfg.IsProduction() {
		app.Use(accessLog())
	}

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", func(c fiber.Ctx) error {
		h.store.Sweep()
		return c.JSON(fiber.Map{"status": "ready", "sessions": h.store.Len()})
	})

	// ============================================================
	// Pattern Library Routes
	// ============================================================

	app.Get("/patterns", h.ListPatterns)
	app.Get("/patterns/:id", h.RenderPattern)

	// ============================================================
	// Session Routes
	// ============================================================

	s := app.Group("/sessions")
	s.Post("/", h.CreateSession)
	s.Delete("/:id", h.DeleteSession)

	s.Post("/:id/template", h.LoadTemplate)
	s.Get("/:id/overlay", h.Overlay)

	s.Get("/:id/layers", h.ListLayers)
	s.Post("/:id/layers", h.ImportImage)
	s.Delete("/:id/layers", h.ClearLayers)
	s.Get("/:id/layers/:layer", h.LayerImage)
	s.Patch("/:id/layers/:layer", h.TransformLayer)
	s.Delete("/:id/layers/:layer", h.RemoveLayer)
	s.Post("/:id/layers/:layer/adjust", h.AdjustLayer)
	s.Post("/:id/layers/:layer/tint", h.TintLayer)
	s.Post("/:id/layers/:layer/front", h.BringToFront)

	s.Post("/:id/patterns/:pattern", h.AddPattern)
	s.Post("/:id/textfill", h.TextFill)
	s.Post("/:id/fill", h.Fill)

	s.Post("/:id/undo", h.Undo)
	s.Post("/:id/redo", h.Redo)
	s.Get("/:id/export", h.Export)

	return app
}

func accessLog() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

// shutdownGrace bounds the wait for in-flight requests.
const shutdownGrace = 10 * time.Second

// Shutdown stops app, waiting at most shutdownGrace.
func Shutdown(app *fiber.App) error {
	return app.ShutdownWithTimeout(shutdownGrace)
}
