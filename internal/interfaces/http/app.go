package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// AppConfig parámetros del servidor Fiber.
type AppConfig struct {
	Name     string
	Log      zerolog.Logger
	Observer RequestObserver
}

// NewApp crea la app Fiber con el ErrorHandler de dominio, recover y el log de requests.
// Las rutas se registran aparte con Router.
func NewApp(cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		// la importación desde Excel admite archivos de hasta 10 MB más el resto del multipart
		BodyLimit:    12 << 20,
		ErrorHandler: NewErrorHandler(cfg.Log),
	})
	app.Use(RequestLogger(cfg.Log, cfg.Observer))
	app.Use(recover.New())
	return app
}
