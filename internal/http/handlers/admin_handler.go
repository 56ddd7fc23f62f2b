package handlers

import (
	"time"

	"baraholka/internal/domain"
	applog "baraholka/internal/log"
	"baraholka/internal/services"
	"baraholka/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AdminHandler serves the server-rendered moderation console.
type AdminHandler struct {
	Listings   *services.ListingService
	Moderation *services.ModerationService
	Auth       *services.AdminAuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

func (h *AdminHandler) actor(c *fiber.Ctx) domain.Actor {
	return domain.Actor{ID: currentAdminID(c), Admin: true}
}

// GET /admin/login
func (h *AdminHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "admin_login", fiber.Map{"Err": ""})
}

// POST /admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	adminID := c.FormValue("admin_id")
	password := c.FormValue("password")
	if err := h.Auth.Login(sid, adminID, password); err != nil {
		applog.Security(c, "admin.login.fail", map[string]any{"admin_id": adminID})
		return c.Status(fiber.StatusUnauthorized).Render("admin_login",
			fiber.Map{"Err": "Invalid admin id or password", "CSRFToken": c.Cookies("csrf_")})
	}
	applog.Audit(c, "admin.login.success", map[string]any{"admin_id": adminID})
	return c.Redirect("/admin")
}

// POST /admin/logout
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	sid := ensureSID(c)
	_ = h.Auth.Logout(sid)
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "admin.logout", nil)
	return c.Redirect("/admin/login")
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	pending, err := h.Moderation.Queue(c.Context(), h.actor(c))
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	return render(c, "admin_dashboard", fiber.Map{"PendingCount": len(pending)})
}

// GET /admin/queue
func (h *AdminHandler) Queue(c *fiber.Ctx) error {
	pending, err := h.Moderation.Queue(c.Context(), h.actor(c))
	if err != nil {
		applog.Error(c, "admin.queue.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load moderation queue"})
	}
	return render(c, "admin_queue", fiber.Map{"Listings": pending})
}

// POST /admin/queue/:id/approve
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid listing id")
	}
	if err := h.Moderation.Approve(c.Context(), id, h.actor(c)); err != nil {
		applog.Error(c, "admin.approve.fail", err, map[string]any{"listing_id": id})
		return c.Status(400).SendString("could not approve listing")
	}
	applog.Audit(c, "admin.approve", map[string]any{"listing_id": id})
	return c.Redirect("/admin/queue")
}

// POST /admin/queue/:id/reject
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid listing id")
	}
	reason := c.FormValue("reason")
	if err := h.Moderation.Reject(c.Context(), id, h.actor(c), reason); err != nil {
		if domain.IsValidation(err) {
			return c.Status(400).SendString("rejection reason is required")
		}
		applog.Error(c, "admin.reject.fail", err, map[string]any{"listing_id": id})
		return c.Status(400).SendString("could not reject listing")
	}
	applog.Audit(c, "admin.reject", map[string]any{"listing_id": id, "reason": reason})
	return c.Redirect("/admin/queue")
}

// GET /admin/listings — every listing in every state.
func (h *AdminHandler) ManageListings(c *fiber.Ctx) error {
	listings, err := h.Listings.ListAll(c.Context())
	if err != nil {
		applog.Error(c, "admin.listings.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load listings"})
	}
	return render(c, "admin_listings", fiber.Map{"Listings": listings})
}

// POST /admin/listings/:id/status — the admin override: set any status
// directly, bypassing the approve/reject path (and its reason rule).
func (h *AdminHandler) OverrideStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid listing id")
	}
	status := domain.Status(c.FormValue("status"))
	upd := services.ListingUpdate{Status: &status}
	if reason := c.FormValue("reason"); reason != "" {
		upd.RejectionReason = &reason
	}
	if _, err := h.Listings.Update(c.Context(), id, h.actor(c), upd); err != nil {
		applog.Error(c, "admin.override.fail", err, map[string]any{"listing_id": id})
		return c.Status(400).SendString("could not update listing")
	}
	applog.Audit(c, "admin.override", map[string]any{"listing_id": id, "status": string(status)})
	return c.Redirect("/admin/listings")
}

// POST /admin/listings/:id/delete
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid listing id")
	}
	if err := h.Listings.Delete(c.Context(), id, h.actor(c)); err != nil {
		applog.Error(c, "admin.delete.fail", err, map[string]any{"listing_id": id})
		return c.Status(400).SendString("could not delete listing")
	}
	applog.Audit(c, "admin.delete", map[string]any{"listing_id": id})
	return c.Redirect("/admin/listings")
}
