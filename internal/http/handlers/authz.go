package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/apiclient"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/domain"
	applog "github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/settings"
)

const browserCookie = "sid"

// Browser tags every request with a stable browser id (the "sid" cookie),
// which scopes persisted preferences and page state.
func Browser(secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(browserCookie)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     browserCookie,
				Value:    sid,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
				Secure:   secure,
				Expires:  time.Now().AddDate(1, 0, 0),
			})
		}
		c.Locals(applog.LocalBrowser, sid)
		c.SetUserContext(settings.WithBrowser(c.UserContext(), sid))
		return c.Next()
	}
}

func browserID(c *fiber.Ctx) string {
	sid, _ := c.Locals(applog.LocalBrowser).(string)
	return sid
}

// RequireToken sends browsers without a stored backend token to /login and
// loads the header and sidebar state for everyone else.
func RequireToken(st *settings.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		tok, err := st.Token(ctx)
		if err != nil {
			applog.Error(c, "auth.token.read.fail", err, nil)
		}
		if tok == "" {
			return c.Redirect("/login")
		}
		if id, err := apiclient.ParseIdentity(tok); err == nil {
			c.Locals(localIdentity, id)
			if id.Expired(time.Now()) && c.Method() == fiber.MethodGet {
				notesOf(c).Notify(domain.LevelInfo, "Your sign-in has expired. Requests may be rejected until you sign in again.")
			}
		}
		if sb, err := st.Sidebar(ctx, domain.Sections()); err == nil {
			c.Locals(localSidebar, sb)
		}
		return c.Next()
	}
}
