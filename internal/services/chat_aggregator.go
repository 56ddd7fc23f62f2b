package services

import (
	"context"
	"errors"
	"sort"

	"baraholka/internal/docstore"
	"baraholka/internal/domain"
)

// ChatAggregator derives per-viewer conversation previews from the raw
// message log. It is stateless: every call recomputes from the store, so
// there is no materialized view to keep consistent.
type ChatAggregator struct {
	Store docstore.Store
}

func NewChatAggregator(store docstore.Store) *ChatAggregator {
	return &ChatAggregator{Store: store}
}

// Summaries builds one conversation preview per listing the viewer has
// exchanged messages on, ordered with unread conversations first and most
// recent activity next. Listings deleted after messages were sent are
// silently skipped.
func (a *ChatAggregator) Summaries(ctx context.Context, viewerID string) ([]domain.ConversationSummary, error) {
	if viewerID == "" {
		return nil, domain.Validationf("viewer id is required")
	}

	sent, err := a.Store.Query(ctx, collMessages,
		[]docstore.Filter{docstore.Where("senderId", viewerID)}, nil)
	if err != nil {
		return nil, domain.TransientStore("load conversations", err)
	}
	received, err := a.Store.Query(ctx, collMessages,
		[]docstore.Filter{docstore.Where("receiverId", viewerID)}, nil)
	if err != nil {
		return nil, domain.TransientStore("load conversations", err)
	}

	byListing := map[string][]domain.Message{}
	for _, doc := range append(sent, received...) {
		m := *messageFromDoc(doc)
		byListing[m.ListingID] = append(byListing[m.ListingID], m)
	}

	// Deterministic iteration so ties keep a stable order across calls.
	listingIDs := make([]string, 0, len(byListing))
	for id := range byListing {
		listingIDs = append(listingIDs, id)
	}
	sort.Strings(listingIDs)

	summaries := make([]domain.ConversationSummary, 0, len(byListing))
	for _, listingID := range listingIDs {
		doc, err := a.Store.Get(ctx, collListings, listingID)
		if errors.Is(err, docstore.ErrNotFound) {
			continue // listing deleted after the chat started
		}
		if err != nil {
			return nil, domain.TransientStore("load conversations", err)
		}
		listing := listingFromDoc(doc)

		msgs := byListing[listingID]
		if viewerID != listing.OwnerID {
			// Inquirer side: the counterpart is fixed, the listing owner.
			filtered := msgs[:0]
			for _, m := range msgs {
				if betweenPair(m, viewerID, listing.OwnerID) {
					filtered = append(filtered, m)
				}
			}
			msgs = filtered
		}
		if len(msgs) == 0 {
			continue
		}
		sortByTimestamp(msgs)

		last := msgs[len(msgs)-1]
		unread := 0
		for _, m := range msgs {
			if m.ReceiverID == viewerID && !m.Read {
				unread++
			}
		}

		counterpart := listing.OwnerID
		if viewerID == listing.OwnerID {
			// Owner side: infer the counterpart from the latest message.
			// With several inquirers on one listing this picks the most
			// recently active one.
			counterpart = last.SenderID
			if counterpart == viewerID {
				counterpart = last.ReceiverID
			}
		}

		var image string
		if len(listing.Images) > 0 {
			image = listing.Images[0]
		}
		lastCopy := last
		summaries = append(summaries, domain.ConversationSummary{
			ListingID:     listingID,
			ListingTitle:  listing.Title,
			ListingImage:  image,
			CounterpartID: counterpart,
			LastMessage:   &lastCopy,
			UnreadCount:   unread,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if (a.UnreadCount > 0) != (b.UnreadCount > 0) {
			return a.UnreadCount > 0
		}
		return a.LastMessage.Timestamp > b.LastMessage.Timestamp
	})
	return summaries, nil
}
