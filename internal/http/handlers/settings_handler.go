package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/settings"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/validate"
)

type SettingsHandler struct {
	Settings *settings.Store
}

// POST /admin/settings/sidebar (section, open)
func (h *SettingsHandler) ToggleSidebar(c *fiber.Ctx) error {
	section, ok := validate.Section(c.FormValue("section"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).SendString("invalid section")
	}
	open, err := strconv.ParseBool(c.FormValue("open"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid state")
	}
	if err := h.Settings.SetSidebar(c.UserContext(), section, open); err != nil {
		applog.Error(c, "settings.sidebar.save.fail", err, map[string]any{"section": section})
		return c.Status(fiber.StatusInternalServerError).SendString("could not save")
	}
	if c.Get(fiber.HeaderAccept) == fiber.MIMEApplicationJSON || c.XHR() {
		return c.SendStatus(fiber.StatusNoContent)
	}
	back := c.Get(fiber.HeaderReferer)
	if back == "" {
		back = "/admin"
	}
	return c.Redirect(back)
}
