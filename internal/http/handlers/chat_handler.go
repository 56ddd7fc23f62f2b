package handlers

import (
	applog "baraholka/internal/log"
	"baraholka/internal/services"
	"baraholka/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	Chat       *services.ChatService
	Aggregator *services.ChatAggregator
}

// POST /api/v1/messages
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req struct {
		ListingID  string `json:"listingId"`
		ReceiverID string `json:"receiverId"`
		Text       string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	msg, err := h.Chat.Send(c.Context(), req.ListingID, currentUID(c), req.ReceiverID, req.Text)
	if err != nil {
		return jsonError(c, err)
	}
	applog.Audit(c, "chat.send", map[string]any{"listing_id": req.ListingID, "message_id": msg.ID})
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GET /api/v1/listings/:id/messages?with=<userId> — the caller's thread
// with one counterpart on a listing, oldest first.
func (h *ChatHandler) Thread(c *fiber.Ctx) error {
	listingID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing no longer available"})
	}
	other, ok := validate.UserID(c.Query("with"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing counterpart id"})
	}
	msgs, err := h.Chat.MessagesBetween(c.Context(), listingID, currentUID(c), other)
	if err != nil {
		applog.Error(c, "chat.thread.fail", err, map[string]any{"listing_id": listingID})
		return jsonError(c, err)
	}
	return c.JSON(msgs)
}

// POST /api/v1/listings/:id/read — flip the caller's unread messages on
// this listing to read. Idempotent; an empty thread is a no-op.
func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	listingID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "listing no longer available"})
	}
	if err := h.Chat.MarkRead(c.Context(), listingID, currentUID(c)); err != nil {
		return jsonError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/messages/unread-count — drives the navbar badge.
func (h *ChatHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.Chat.UnreadCount(c.Context(), currentUID(c))
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// GET /api/v1/chats — conversation previews, unread first, then most
// recent activity.
func (h *ChatHandler) Summaries(c *fiber.Ctx) error {
	summaries, err := h.Aggregator.Summaries(c.Context(), currentUID(c))
	if err != nil {
		applog.Error(c, "chat.summaries.fail", err, nil)
		return jsonError(c, err)
	}
	return c.JSON(summaries)
}
