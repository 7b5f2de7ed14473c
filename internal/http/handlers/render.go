package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
)

// Locals keys shared by middleware and templates.
const (
	localIdentity = "identity"
	localSidebar  = "sidebar"
	localNotes    = "notes"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if id := c.Locals(localIdentity); id != nil {
		data["Identity"] = id
	}
	if sb, ok := c.Locals(localSidebar).(map[string]bool); ok {
		data["Sidebar"] = sb
	}
	data["Nav"] = domain.Schemas()
	data["Sections"] = domain.Sections()
	data["Notes"] = notesOf(c).notes

	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	return c.Render(tmpl, data)
}

// notFound renders the shared error page.
func notFound(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg})
}
