package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/config"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/http/handlers"
	applog "github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/log"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/repos"
	"github.com/LakshanUd/sl-go-tour-frontend-sub002/internal/storage"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Preferences: Redis when configured, the local database otherwise
	var kv repos.KV = repos.NewSQLiteKV(db)
	if cfg.RedisURL != "" {
		rkv, err := repos.NewRedisKV(ctx, cfg.RedisURL, "touradmin:")
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rkv.Close()
		kv = rkv
		log.Printf("[settings] redis")
	}

	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}

	var files storage.Uploader
	switch cfg.Storage.Driver {
	case "s3":
		s3u, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:        cfg.Storage.Bucket,
			Prefix:        cfg.Storage.Prefix,
			Region:        cfg.Storage.Region,
			Endpoint:      cfg.Storage.Endpoint,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			PresignTTL:    cfg.Storage.PresignTTL,
		})
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		files = s3u
	default:
		files = storage.NewLocalUploader(mediaDir, cfg.Storage.Prefix)
	}

	deps, err := handlers.NewDeps(cfg, db, kv, files)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		Views:        handlers.NewViews("./web/templates"),
		ErrorHandler: handlers.ErrorHandler,
		// Uploads plus form fields
		BodyLimit: int(cfg.Storage.MaxBytes) + 1<<20,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		// Uploaded images may live on S3 or a CDN
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' https: data:; style-src 'self'; script-src 'self'",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// ---------- Console ----------
	deps.Mount(app, limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later.", "Email": ""})
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
