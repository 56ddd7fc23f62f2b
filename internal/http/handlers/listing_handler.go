package handlers

import (
	applog "baraholka/internal/log"
	"baraholka/internal/domain"
	"baraholka/internal/services"
	"baraholka/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Listings *services.ListingService
}

type listingPayload struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Category    *string        `json:"category"`
	Subcategory *string        `json:"subcategory"`
	Images      []string       `json:"images"`
	ContactInfo *string        `json:"contactInfo"`
	Status      *domain.Status `json:"status"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GET /api/v1/listings — the public feed: active listings, newest first,
// optionally narrowed to a category/subcategory.
func (h *ListingHandler) Feed(c *fiber.Ctx) error {
	listings, err := h.Listings.ListByStatus(c.Context(), domain.StatusActive)
	if err != nil {
		applog.Error(c, "listings.feed.fail", err, nil)
		return jsonError(c, err)
	}
	category := c.Query("category")
	subcategory := c.Query("subcategory")
	if category != "" || subcategory != "" {
		filtered := listings[:0]
		for _, l := range listings {
			if category != "" && l.Category != category {
				continue
			}
			if subcategory != "" && l.Subcategory != subcategory {
				continue
			}
			filtered = append(filtered, l)
		}
		listings = filtered
	}
	return c.JSON(listings)
}

// GET /api/v1/listings/:id
func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing no longer available"})
	}
	l, err := h.Listings.Get(c.Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(l)
}

// GET /api/v1/my/listings — everything the caller has posted, in any
// moderation state.
func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	listings, err := h.Listings.ListByOwner(c.Context(), currentUID(c))
	if err != nil {
		applog.Error(c, "listings.mine.fail", err, nil)
		return jsonError(c, err)
	}
	return c.JSON(listings)
}

// POST /api/v1/listings
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var p listingPayload
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	in := services.CreateListingInput{
		OwnerID:     currentUID(c),
		Title:       deref(p.Title),
		Description: deref(p.Description),
		Category:    deref(p.Category),
		Subcategory: deref(p.Subcategory),
		Images:      p.Images,
		ContactInfo: deref(p.ContactInfo),
	}
	if p.Price != nil {
		in.Price = *p.Price
	}
	l, err := h.Listings.Create(c.Context(), in)
	if err != nil {
		return jsonError(c, err)
	}
	applog.Audit(c, "listings.create", map[string]any{"listing_id": l.ID})
	return c.Status(fiber.StatusCreated).JSON(l)
}

// PUT /api/v1/listings/:id — owner edit, which is always a resubmission:
// the service forces the listing back to pending whatever the payload
// says about status.
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing no longer available"})
	}
	var p listingPayload
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if p.Title != nil {
		if t, ok := validate.Title(*p.Title); ok {
			p.Title = &t
		} else {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title too short"})
		}
	}
	if p.Description != nil {
		if d, ok := validate.Description(*p.Description); ok {
			p.Description = &d
		} else {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "description too short"})
		}
	}
	if p.Price != nil && !validate.Price(*p.Price) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be positive"})
	}
	actor := domain.Actor{ID: currentUID(c)}
	l, err := h.Listings.Update(c.Context(), id, actor, services.ListingUpdate{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Images:      p.Images,
		ContactInfo: p.ContactInfo,
	})
	if err != nil {
		if domain.IsAuthorization(err) {
			applog.Security(c, "listings.update.denied", map[string]any{"listing_id": id})
		}
		return jsonError(c, err)
	}
	applog.Audit(c, "listings.update", map[string]any{"listing_id": id})
	return c.JSON(l)
}

// DELETE /api/v1/listings/:id
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing no longer available"})
	}
	actor := domain.Actor{ID: currentUID(c)}
	if err := h.Listings.Delete(c.Context(), id, actor); err != nil {
		if domain.IsAuthorization(err) {
			applog.Security(c, "listings.delete.denied", map[string]any{"listing_id": id})
		}
		return jsonError(c, err)
	}
	applog.Audit(c, "listings.delete", map[string]any{"listing_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
