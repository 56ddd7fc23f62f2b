package services

import (
	"context"
	"errors"

	"baraholka/internal/docstore"
	"baraholka/internal/domain"
	"baraholka/internal/validate"
)

// ModerationService drives the listing lifecycle: pending listings are
// approved into the public feed or rejected with a reason. Both actions
// require the admin capability regardless of who owns the listing. There
// is no terminal state; a rejected listing comes back as pending when the
// owner edits it, and deletion is the only irreversible exit.
type ModerationService struct {
	Store docstore.Store
}

func NewModerationService(store docstore.Store) *ModerationService {
	return &ModerationService{Store: store}
}

// Approve moves a listing to active and clears any previous rejection
// reason, whatever state the listing was in.
func (s *ModerationService) Approve(ctx context.Context, id string, actor domain.Actor) error {
	if !actor.Admin {
		return domain.Authorizationf("approve requires admin")
	}
	patch := docstore.Doc{
		"status":          string(domain.StatusActive),
		"rejectionReason": docstore.Delete,
	}
	if err := s.Store.Patch(ctx, collListings, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.NotFoundf("listing %s", id)
		}
		return domain.TransientStore("approve listing", err)
	}
	return nil
}

// Reject moves a listing to rejected. The reason is required and must not
// be blank; it is validated before the listing is even looked up.
func (s *ModerationService) Reject(ctx context.Context, id string, actor domain.Actor, reason string) error {
	if !actor.Admin {
		return domain.Authorizationf("reject requires admin")
	}
	reason, ok := validate.Reason(reason)
	if !ok {
		return domain.Validationf("rejection reason is required")
	}
	patch := docstore.Doc{
		"status":          string(domain.StatusRejected),
		"rejectionReason": reason,
	}
	if err := s.Store.Patch(ctx, collListings, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.NotFoundf("listing %s", id)
		}
		return domain.TransientStore("reject listing", err)
	}
	return nil
}

// Queue returns the pending listings awaiting moderation, newest first.
func (s *ModerationService) Queue(ctx context.Context, actor domain.Actor) ([]domain.Listing, error) {
	if !actor.Admin {
		return nil, domain.Authorizationf("moderation queue requires admin")
	}
	docs, err := s.Store.Query(ctx, collListings,
		[]docstore.Filter{docstore.Where("status", string(domain.StatusPending))}, orderNewestFirst)
	if err != nil {
		return nil, domain.TransientStore("load moderation queue", err)
	}
	return listingsFromDocs(docs), nil
}
