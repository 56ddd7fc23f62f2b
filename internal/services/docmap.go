package services

import (
	"baraholka/internal/docstore"
	"baraholka/internal/domain"
)

// Collection names in the document store.
const (
	collListings = "listings"
	collMessages = "messages"
)

// Document field access. Values come back from the store after a JSON
// round-trip, so numbers are float64 and lists are []any.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func asInt64(v any) int64 { return int64(asFloat(v)) }

func asStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, e := range list {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func listingFromDoc(doc docstore.Doc) *domain.Listing {
	return &domain.Listing{
		ID:              asString(doc["id"]),
		OwnerID:         asString(doc["ownerId"]),
		Title:           asString(doc["title"]),
		Description:     asString(doc["description"]),
		Price:           asFloat(doc["price"]),
		Category:        asString(doc["category"]),
		Subcategory:     asString(doc["subcategory"]),
		Images:          asStrings(doc["images"]),
		ContactInfo:     asString(doc["contactInfo"]),
		Status:          domain.Status(asString(doc["status"])),
		RejectionReason: asString(doc["rejectionReason"]),
		CreatedAt:       asInt64(doc["createdAt"]),
	}
}

func listingsFromDocs(docs []docstore.Doc) []domain.Listing {
	out := make([]domain.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, *listingFromDoc(d))
	}
	return out
}

func messageFromDoc(doc docstore.Doc) *domain.Message {
	return &domain.Message{
		ID:         asString(doc["id"]),
		ListingID:  asString(doc["listingId"]),
		SenderID:   asString(doc["senderId"]),
		ReceiverID: asString(doc["receiverId"]),
		Text:       asString(doc["text"]),
		Timestamp:  asInt64(doc["timestamp"]),
		Read:       asBool(doc["read"]),
	}
}

func messagesFromDocs(docs []docstore.Doc) []domain.Message {
	out := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, *messageFromDoc(d))
	}
	return out
}
