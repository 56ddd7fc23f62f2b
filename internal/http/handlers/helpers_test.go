package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"baraholka/internal/catalog"
	"baraholka/internal/docstore"
	"baraholka/internal/http/handlers"
	"baraholka/internal/repos"
	"baraholka/internal/services"

	"github.com/gofiber/fiber/v2"
)

type testEnv struct {
	app   *fiber.App
	store docstore.Store
}

// newEnv wires the JSON API the way main does, minus the template engine
// and the admin console (those need on-disk views).
func newEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := docstore.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(store, db, catalog.Default(), &services.AdminAuthService{})

	app := fiber.New()
	app.Use(handlers.Identity())

	api := app.Group("/api/v1")
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/listings", deps.ListingHandler.Feed)
	api.Get("/listings/:id", deps.ListingHandler.Detail)
	api.Use(handlers.RequireUser())
	api.Get("/my/listings", deps.ListingHandler.Mine)
	api.Post("/listings", deps.ListingHandler.Create)
	api.Put("/listings/:id", deps.ListingHandler.Update)
	api.Delete("/listings/:id", deps.ListingHandler.Delete)
	api.Post("/messages", deps.ChatHandler.Send)
	api.Get("/messages/unread-count", deps.ChatHandler.UnreadCount)
	api.Get("/chats", deps.ChatHandler.Summaries)
	api.Get("/listings/:id/messages", deps.ChatHandler.Thread)
	api.Post("/listings/:id/read", deps.ChatHandler.MarkRead)

	return &testEnv{app: app, store: store}
}

func (e *testEnv) request(t *testing.T, method, path, uid string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if uid != "" {
		req.Header.Set("X-User-Id", uid)
	}
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func validListingBody() map[string]any {
	return map[string]any{
		"title":       "Game Boy Color",
		"description": "Working handheld console, minor scratches on the shell.",
		"price":       1500,
		"category":    "electronics",
		"subcategory": "phones",
		"images":      []string{"https://example.com/gb.jpg"},
		"contactInfo": "@seller",
	}
}
