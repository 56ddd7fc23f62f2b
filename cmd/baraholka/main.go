package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"

	"baraholka/internal/catalog"
	"baraholka/internal/config"
	"baraholka/internal/docstore"
	"baraholka/internal/http/handlers"
	applog "baraholka/internal/log"
	"baraholka/internal/repos"
	"baraholka/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, using environment")
	}
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
	store, err := docstore.New(db)
	if err != nil {
		log.Fatal(err)
	}

	cats := catalog.Default()
	if cfg.CategoriesFile != "" {
		if loaded, err := catalog.Load(cfg.CategoriesFile); err != nil {
			log.Printf("[warn] categories file %s: %v (using built-in taxonomy)", cfg.CategoriesFile, err)
		} else {
			cats = loaded
		}
	}

	auth := &services.AdminAuthService{
		Sessions:     repos.NewSessionRepo(db),
		PasswordHash: cfg.AdminPasswordHash,
		Allowed:      cfg.IsAdminID,
	}
	if cfg.AdminPasswordHash == "" {
		log.Println("[warn] ADMIN_PASSWORD_HASH not set; admin console login disabled")
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "something went wrong"})
			}
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.Identity())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))
	// CSRF protects the admin console forms; the JSON API authenticates
	// per request and carries no cookies worth forging.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			return !strings.HasPrefix(c.Path(), "/admin")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound",
				fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	deps := handlers.NewDeps(store, db, cats, auth)

	// ---------- Mini-App JSON API ----------
	api := app.Group("/api/v1")
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/listings", deps.ListingHandler.Feed)
	api.Get("/listings/:id", deps.ListingHandler.Detail)

	api.Get("/my/listings", handlers.RequireUser(), deps.ListingHandler.Mine)
	api.Post("/listings", handlers.RequireUser(), deps.ListingHandler.Create)
	api.Put("/listings/:id", handlers.RequireUser(), deps.ListingHandler.Update)
	api.Delete("/listings/:id", handlers.RequireUser(), deps.ListingHandler.Delete)

	sendLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.send.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/messages", handlers.RequireUser(), sendLimiter, deps.ChatHandler.Send)
	api.Get("/messages/unread-count", handlers.RequireUser(), deps.ChatHandler.UnreadCount)
	api.Get("/chats", handlers.RequireUser(), deps.ChatHandler.Summaries)
	api.Get("/listings/:id/messages", handlers.RequireUser(), deps.ChatHandler.Thread)
	api.Post("/listings/:id/read", handlers.RequireUser(), deps.ChatHandler.MarkRead)

	// ---------- Admin console ----------
	adminH := deps.AdminHandler
	app.Get("/admin/login", adminH.LoginForm)
	app.Post("/admin/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.admin.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("admin_login",
				fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), adminH.Login)
	app.Post("/admin/logout", adminH.Logout)

	admin := app.Group("/admin", handlers.RequireAdmin(auth))
	admin.Get("/", adminH.Dashboard)
	admin.Get("/queue", adminH.Queue)
	admin.Post("/queue/:id/approve", adminH.Approve)
	admin.Post("/queue/:id/reject", adminH.Reject)
	admin.Get("/listings", adminH.ManageListings)
	admin.Post("/listings/:id/status", adminH.OverrideStatus)
	admin.Post("/listings/:id/delete", adminH.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(404).JSON(fiber.Map{"error": "not found"})
		}
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
