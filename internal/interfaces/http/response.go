package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marko-code-lab/noiddea/internal/application/dto"
)

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(dto.Envelope{Success: true, Data: data})
}

// sendFile responde un archivo generado como adjunto.
func sendFile(c *fiber.Ctx, file *dto.FileResponse) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Attachment(file.Filename)
	return c.Status(fiber.StatusOK).Send(file.Content)
}
