package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/apiclient"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/services"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/settings"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/validate"
)

type AuthHandler struct {
	Client   *apiclient.Client
	Settings *settings.Store
	Pages    *services.Pages
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if tok, _ := h.Settings.Token(c.UserContext()); tok != "" {
		return c.Redirect("/admin")
	}
	return render(c, "login", fiber.Map{"Err": "", "Email": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_format"})
		return loginError(c, fiber.StatusUnauthorized, apiclient.MsgBadLogin, email)
	}
	if !validate.Password(pass) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return loginError(c, fiber.StatusUnauthorized, apiclient.MsgBadLogin, email)
	}

	tok, err := h.Client.Login(c.UserContext(), email, pass)
	if err != nil {
		var ae *apiclient.APIError
		if errors.As(err, &ae) && ae.Status < 500 {
			log.Security(c, "auth.login.fail", map[string]any{"email": email, "status": ae.Status})
			return loginError(c, fiber.StatusUnauthorized, apiclient.MsgBadLogin, email)
		}
		log.Error(c, "auth.login.error", err, map[string]any{"email": email})
		return loginError(c, fiber.StatusBadGateway, apiclient.MsgGeneric, email)
	}
	if err := h.Settings.SetToken(c.UserContext(), tok); err != nil {
		log.Error(c, "auth.token.save.fail", err, nil)
		return loginError(c, fiber.StatusInternalServerError, apiclient.MsgGeneric, email)
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/admin")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Settings.ClearToken(c.UserContext()); err != nil {
		log.Error(c, "auth.token.clear.fail", err, nil)
	}
	h.Pages.Drop(browserID(c))
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/login")
}

func loginError(c *fiber.Ctx, status int, msg, email string) error {
	c.Status(status)
	return render(c, "login", fiber.Map{"Err": msg, "Email": email})
}
