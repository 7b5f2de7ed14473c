package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jmoiron/sqlx"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/apiclient"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/config"
	applog "github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/repos"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/services"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/settings"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/storage"
)

type Deps struct {
	AuthHandler     *AuthHandler
	AdminHandler    *AdminHandler
	UploadHandler   *UploadHandler
	SettingsHandler *SettingsHandler

	Settings     *settings.Store
	Sessions     *session.Store
	CookieSecure bool
}

// NewDeps wires the handlers. kv backs preferences and tokens; files receives
// uploads; db keeps the upload history.
func NewDeps(cfg config.Config, db *sqlx.DB, kv repos.KV, files storage.Uploader) (*Deps, error) {
	store, err := settings.New(kv, cfg.TokenSealKey)
	if err != nil {
		return nil, err
	}
	client := apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout}, store.TokenSource())
	log.Printf("[api] backend -> %s", client.BaseURL())
	pages := services.NewPages()
	media := services.NewMedia(files, storage.Limits{MaxBytes: cfg.Storage.MaxBytes}, repos.NewUploadRepo(db))
	sessions := session.New(session.Config{
		Expiration:     30 * time.Minute,
		KeyLookup:      "cookie:flash_",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
	})

	return &Deps{
		AuthHandler:     &AuthHandler{Client: client, Settings: store, Pages: pages},
		AdminHandler:    &AdminHandler{Client: client, Pages: pages, Settings: store, Media: media, Sessions: sessions},
		UploadHandler:   &UploadHandler{Media: media},
		SettingsHandler: &SettingsHandler{Settings: store},
		Settings:        store,
		Sessions:        sessions,
		CookieSecure:    cfg.CookieSecure,
	}, nil
}

// Mount registers the console routes. loginGuard runs before POST /login
// (a rate limiter in production) and may be nil.
func (d *Deps) Mount(app *fiber.App, loginGuard fiber.Handler) {
	app.Use(Browser(d.CookieSecure))
	app.Use(Flash(d.Sessions))

	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/admin") })
	app.Get("/login", d.AuthHandler.LoginForm)
	if loginGuard != nil {
		app.Post("/login", loginGuard, d.AuthHandler.Login)
	} else {
		app.Post("/login", d.AuthHandler.Login)
	}
	app.Post("/logout", d.AuthHandler.Logout)

	admin := app.Group("/admin", RequireToken(d.Settings))
	admin.Get("/", d.AdminHandler.Dashboard)
	admin.Post("/uploads", d.UploadHandler.Upload)
	admin.Post("/settings/sidebar", d.SettingsHandler.ToggleSidebar)
	admin.Get("/:resource", d.AdminHandler.List)
	admin.Get("/:resource/new", d.AdminHandler.New)
	admin.Get("/:resource/:id/edit", d.AdminHandler.Edit)
	admin.Get("/:resource/:id/delete", d.AdminHandler.ConfirmDelete)
	admin.Post("/:resource/:id/delete", d.AdminHandler.Delete)
	admin.Post("/:resource/:id", d.AdminHandler.Update)
	admin.Post("/:resource", d.AdminHandler.Create)
}

// ErrorHandler logs err and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	applog.Error(c, "server.error", err, nil)
	status := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		status = fe.Code
		switch fe.Code {
		case fiber.StatusNotFound:
			msg = "Page not found"
		case fiber.StatusRequestEntityTooLarge:
			msg = "The upload is too large."
		default:
			msg = "The request could not be processed."
		}
	}
	if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}
