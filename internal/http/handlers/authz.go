package handlers

import (
	applog "baraholka/internal/log"
	"baraholka/internal/services"
	"baraholka/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// Identity attaches the caller's opaque user id to the request context.
// The Mini-App bootstrap resolves the Telegram identity and forwards it in
// the X-User-Id header; this layer treats it as an opaque stable string.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if uid, ok := validate.UserID(c.Get("X-User-Id")); ok {
			c.Locals("uid", uid)
		}
		return c.Next()
	}
}

// RequireUser rejects requests that carry no user identity.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if uid, _ := c.Locals("uid").(string); uid == "" {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "user identity required"})
		}
		return c.Next()
	}
}

func currentUID(c *fiber.Ctx) string {
	uid, _ := c.Locals("uid").(string)
	return uid
}

// RequireAdmin guards the admin console behind a bound session.
func RequireAdmin(auth *services.AdminAuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/admin/login")
		}
		adminID, err := auth.CurrentAdmin(sid)
		if err != nil || adminID == "" {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Redirect("/admin/login")
		}
		c.Locals("admin_id", adminID)
		return c.Next()
	}
}

func currentAdminID(c *fiber.Ctx) string {
	id, _ := c.Locals("admin_id").(string)
	return id
}
