package handlers

import (
	"baraholka/internal/catalog"
	"baraholka/internal/docstore"
	"baraholka/internal/repos"
	"baraholka/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ListingHandler  *ListingHandler
	ChatHandler     *ChatHandler
	CategoryHandler *CategoryHandler
	AdminHandler    *AdminHandler
}

func NewDeps(store docstore.Store, db *sqlx.DB, cats *catalog.Taxonomy, auth *services.AdminAuthService) *Deps {
	listingSvc := services.NewListingService(store, cats)
	moderationSvc := services.NewModerationService(store)
	chatSvc := services.NewChatService(store)
	aggregator := services.NewChatAggregator(store)

	if auth.Sessions == nil {
		auth.Sessions = repos.NewSessionRepo(db)
	}

	return &Deps{
		ListingHandler:  &ListingHandler{Listings: listingSvc},
		ChatHandler:     &ChatHandler{Chat: chatSvc, Aggregator: aggregator},
		CategoryHandler: &CategoryHandler{Cats: cats},
		AdminHandler:    &AdminHandler{Listings: listingSvc, Moderation: moderationSvc, Auth: auth},
	}
}
