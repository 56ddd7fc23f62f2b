package domain

// Status is the moderation state of a listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// ValidStatus reports whether s is one of the three listing states.
func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusActive || s == StatusRejected
}

type Listing struct {
	ID              string   `json:"id"`
	OwnerID         string   `json:"ownerId"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Category        string   `json:"category"`
	Subcategory     string   `json:"subcategory"`
	Images          []string `json:"images"`
	ContactInfo     string   `json:"contactInfo,omitempty"`
	Status          Status   `json:"status"`
	RejectionReason string   `json:"rejectionReason,omitempty"`
	CreatedAt       int64    `json:"createdAt"` // milliseconds since epoch, store-assigned
}

// Message is one entry in a listing's two-party thread. Immutable after
// send except for the Read flag, which only ever flips false -> true.
type Message struct {
	ID         string `json:"id"`
	ListingID  string `json:"listingId"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"` // milliseconds since epoch, store-assigned
	Read       bool   `json:"read"`
}

// ConversationSummary is the derived per-viewer chat preview. It is never
// persisted; the aggregator recomputes it from the message log on read.
type ConversationSummary struct {
	ListingID     string   `json:"listingId"`
	ListingTitle  string   `json:"listingTitle"`
	ListingImage  string   `json:"listingImage,omitempty"`
	CounterpartID string   `json:"counterpartId"`
	LastMessage   *Message `json:"lastMessage,omitempty"`
	UnreadCount   int      `json:"unreadCount"`
}
