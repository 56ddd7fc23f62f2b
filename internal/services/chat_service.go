package services

import (
	"context"
	"sort"

	"baraholka/internal/docstore"
	"baraholka/internal/domain"
	"baraholka/internal/validate"
)

// ChatService is the append-only message log per listing with read-state
// tracking. Messages are immutable after send except for the read flag,
// which flips false -> true exactly once, by the receiver.
type ChatService struct {
	Store docstore.Store
}

func NewChatService(store docstore.Store) *ChatService {
	return &ChatService{Store: store}
}

// Send appends a message to a listing's thread. The timestamp is
// store-assigned and never precedes an earlier message of the same
// listing. Messaging yourself is an authorization failure, not a
// validation one: the sender holds no right to occupy both sides.
func (s *ChatService) Send(ctx context.Context, listingID, senderID, receiverID, text string) (*domain.Message, error) {
	text, ok := validate.MessageText(text)
	if !ok {
		return nil, domain.Validationf("message text is required")
	}
	senderID, okSender := validate.UserID(senderID)
	receiverID, okReceiver := validate.UserID(receiverID)
	if !okSender || !okReceiver {
		return nil, domain.Validationf("sender and receiver are required")
	}
	if listingID == "" {
		return nil, domain.Validationf("listing id is required")
	}
	if senderID == receiverID {
		return nil, domain.Authorizationf("cannot send a message to yourself")
	}

	doc := docstore.Doc{
		"listingId":  listingID,
		"senderId":   senderID,
		"receiverId": receiverID,
		"text":       text,
		"timestamp":  docstore.ServerTimestamp,
		"read":       false,
	}
	id, err := s.Store.Insert(ctx, collMessages, doc)
	if err != nil {
		return nil, domain.TransientStore("send message", err)
	}
	stored, err := s.Store.Get(ctx, collMessages, id)
	if err != nil {
		return nil, domain.TransientStore("send message", err)
	}
	return messageFromDoc(stored), nil
}

// MarkRead flips every unread message addressed to readerID in the
// listing's thread to read, atomically as a set. Finding nothing to flip
// is a no-op, not an error, which makes the call idempotent.
func (s *ChatService) MarkRead(ctx context.Context, listingID, readerID string) error {
	if listingID == "" || readerID == "" {
		return domain.Validationf("listing id and reader id are required")
	}
	docs, err := s.Store.Query(ctx, collMessages, []docstore.Filter{
		docstore.Where("listingId", listingID),
		docstore.Where("receiverId", readerID),
		docstore.Where("read", false),
	}, nil)
	if err != nil {
		return domain.TransientStore("mark messages read", err)
	}
	if len(docs) == 0 {
		return nil
	}
	ops := make([]docstore.PatchOp, 0, len(docs))
	for _, d := range docs {
		ops = append(ops, docstore.PatchOp{
			Collection: collMessages,
			ID:         asString(d["id"]),
			Patch:      docstore.Doc{"read": true},
		})
	}
	if err := s.Store.BatchPatch(ctx, ops); err != nil {
		return domain.TransientStore("mark messages read", err)
	}
	return nil
}

// UnreadCount counts unread messages addressed to the user across all
// listings. Drives the navbar badge.
func (s *ChatService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, domain.Validationf("user id is required")
	}
	docs, err := s.Store.Query(ctx, collMessages, []docstore.Filter{
		docstore.Where("receiverId", userID),
		docstore.Where("read", false),
	}, nil)
	if err != nil {
		return 0, domain.TransientStore("count unread messages", err)
	}
	return len(docs), nil
}

var orderOldestFirst = &docstore.OrderBy{Field: "timestamp"}

// MessagesBetween returns the thread on a listing exchanged exclusively
// between two users, oldest first. Messages other parties sent on the
// same listing are excluded, so parallel inquirers never see each other.
func (s *ChatService) MessagesBetween(ctx context.Context, listingID, userA, userB string) ([]domain.Message, error) {
	docs, err := s.Store.Query(ctx, collMessages,
		[]docstore.Filter{docstore.Where("listingId", listingID)}, orderOldestFirst)
	if err != nil {
		return nil, domain.TransientStore("load messages", err)
	}
	msgs := messagesFromDocs(docs)
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		if betweenPair(m, userA, userB) {
			out = append(out, m)
		}
	}
	return out, nil
}

func betweenPair(m domain.Message, userA, userB string) bool {
	return (m.SenderID == userA && m.ReceiverID == userB) ||
		(m.SenderID == userB && m.ReceiverID == userA)
}

// WatchThread delivers the two-party thread on a listing and every change
// to it. The caller owns the cancel handle; release it on view exit.
func (s *ChatService) WatchThread(listingID, userA, userB string, fn func([]domain.Message)) (cancel func()) {
	return s.Store.Subscribe(collMessages,
		[]docstore.Filter{docstore.Where("listingId", listingID)},
		orderOldestFirst,
		func(docs []docstore.Doc) {
			msgs := messagesFromDocs(docs)
			out := make([]domain.Message, 0, len(msgs))
			for _, m := range msgs {
				if betweenPair(m, userA, userB) {
					out = append(out, m)
				}
			}
			fn(out)
		})
}

func sortByTimestamp(msgs []domain.Message) {
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].Timestamp < msgs[j].Timestamp })
}
