package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/services"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/storage"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/validate"
)

// UploadHandler proxies a browser upload into storage so the storage
// credentials never leave the server.
type UploadHandler struct {
	Media *services.Media
}

// POST /admin/uploads (multipart: file, resource)
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	folder := ""
	if r := c.FormValue("resource"); r != "" {
		name, ok := validate.Resource(r)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown resource"})
		}
		folder = name
	}
	fh, err := c.FormFile("file")
	if err != nil || fh.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.UploadMessage(storage.ErrEmpty)})
	}
	src, err := fh.Open()
	if err != nil {
		applog.Error(c, "upload.open.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.UploadMessage(err)})
	}
	defer src.Close()

	url, err := h.Media.Upload(c.UserContext(), storage.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	}, storage.Options{Folder: folder})
	if err != nil {
		status := fiber.StatusBadGateway
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			status = fiber.StatusRequestEntityTooLarge
		case errors.Is(err, storage.ErrContentType), errors.Is(err, storage.ErrEmpty):
			status = fiber.StatusUnsupportedMediaType
		}
		applog.Error(c, "upload.fail", err, map[string]any{"name": fh.Filename, "size": fh.Size})
		return c.Status(status).JSON(fiber.Map{"error": services.UploadMessage(err)})
	}
	applog.Audit(c, "upload.success", map[string]any{"url": url, "size": fh.Size, "resource": folder})
	return c.JSON(fiber.Map{"url": url})
}
