package handlers

import (
	"baraholka/internal/catalog"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Cats *catalog.Taxonomy
}

type subcategoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type categoryJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Subcategories []subcategoryJSON `json:"subcategories"`
}

// GET /api/v1/categories — the static taxonomy the create form renders.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats := h.Cats.Categories()
	out := make([]categoryJSON, 0, len(cats))
	for _, cat := range cats {
		subs := make([]subcategoryJSON, 0, len(cat.Subcategories))
		for _, sc := range cat.Subcategories {
			subs = append(subs, subcategoryJSON{ID: sc.ID, Name: sc.Name})
		}
		out = append(out, categoryJSON{ID: cat.ID, Name: cat.Name, Subcategories: subs})
	}
	return c.JSON(out)
}
