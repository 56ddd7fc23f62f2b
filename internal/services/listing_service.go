package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"baraholka/internal/catalog"
	"baraholka/internal/docstore"
	"baraholka/internal/domain"
	"baraholka/internal/validate"
)

// DefaultPlaceholderImage is used when a listing is created without any
// usable image links. A unique suffix keeps placeholder images distinct.
const DefaultPlaceholderImage = "https://picsum.photos/600/400?random="

type ListingService struct {
	Store docstore.Store
	Cats  *catalog.Taxonomy
}

func NewListingService(store docstore.Store, cats *catalog.Taxonomy) *ListingService {
	return &ListingService{Store: store, Cats: cats}
}

type CreateListingInput struct {
	OwnerID     string
	Title       string
	Description string
	Price       float64
	Category    string
	Subcategory string
	Images      []string
	ContactInfo string
}

// ListingUpdate carries a partial edit. Nil fields are left untouched.
// Status and RejectionReason are only honored for admin actors; a
// non-admin edit always resubmits the listing (status back to pending,
// rejection reason cleared).
type ListingUpdate struct {
	Title           *string
	Description     *string
	Price           *float64
	Category        *string
	Subcategory     *string
	Images          []string
	ContactInfo     *string
	Status          *domain.Status
	RejectionReason *string
}

// Create validates the input and stores a new listing. Status is always
// pending regardless of anything the caller supplies; createdAt is
// store-assigned.
func (s *ListingService) Create(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	ownerID, ok := validate.UserID(in.OwnerID)
	if !ok {
		return nil, domain.Validationf("owner id is required")
	}
	title, ok := validate.Title(in.Title)
	if !ok {
		return nil, domain.Validationf("title must be at least %d characters", validate.MinTitleLen)
	}
	description, ok := validate.Description(in.Description)
	if !ok {
		return nil, domain.Validationf("description must be at least %d characters", validate.MinDescriptionLen)
	}
	if !validate.Price(in.Price) {
		return nil, domain.Validationf("price must be a positive number")
	}
	if in.Category == "" {
		return nil, domain.Validationf("category is required")
	}
	if s.Cats.HasSubcategories(in.Category) && in.Subcategory == "" {
		return nil, domain.Validationf("subcategory is required for category %q", in.Category)
	}

	images := validate.Images(in.Images)
	if len(images) == 0 {
		images = []string{DefaultPlaceholderImage + strconv.FormatInt(time.Now().UnixMilli(), 10)}
	}

	doc := docstore.Doc{
		"ownerId":     ownerID,
		"title":       title,
		"description": description,
		"price":       in.Price,
		"category":    in.Category,
		"subcategory": in.Subcategory,
		"images":      images,
		"contactInfo": in.ContactInfo,
		"status":      string(domain.StatusPending),
		"createdAt":   docstore.ServerTimestamp,
	}
	id, err := s.Store.Insert(ctx, collListings, doc)
	if err != nil {
		return nil, domain.TransientStore("create listing", err)
	}
	return s.Get(ctx, id)
}

// Update applies a partial edit. Owner and admin may edit; a non-admin
// edit is a resubmission and forces the listing back to pending no matter
// what status the payload asks for. Admin-supplied status and rejection
// reason pass through, except that moving to active always clears the
// rejection reason.
func (s *ListingService) Update(ctx context.Context, id string, actor domain.Actor, upd ListingUpdate) (*domain.Listing, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.MayMutate(current) {
		return nil, domain.Authorizationf("only the owner or an admin may edit listing %s", id)
	}

	patch := docstore.Doc{}
	if upd.Title != nil {
		patch["title"] = *upd.Title
	}
	if upd.Description != nil {
		patch["description"] = *upd.Description
	}
	if upd.Price != nil {
		patch["price"] = *upd.Price
	}
	if upd.Category != nil {
		patch["category"] = *upd.Category
	}
	if upd.Subcategory != nil {
		patch["subcategory"] = *upd.Subcategory
	}
	if upd.Images != nil {
		patch["images"] = validate.Images(upd.Images)
	}
	if upd.ContactInfo != nil {
		patch["contactInfo"] = *upd.ContactInfo
	}

	if actor.Admin {
		if upd.Status != nil {
			if !domain.ValidStatus(*upd.Status) {
				return nil, domain.Validationf("unknown status %q", string(*upd.Status))
			}
			patch["status"] = string(*upd.Status)
			if *upd.Status == domain.StatusActive {
				patch["rejectionReason"] = docstore.Delete
			}
		}
		if upd.RejectionReason != nil {
			patch["rejectionReason"] = *upd.RejectionReason
		}
	} else {
		// Resubmission: any owner edit restarts moderation.
		patch["status"] = string(domain.StatusPending)
		patch["rejectionReason"] = docstore.Delete
	}

	if err := s.Store.Patch(ctx, collListings, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.NotFoundf("listing %s", id)
		}
		return nil, domain.TransientStore("update listing", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a listing permanently. Messages that reference it stay
// behind as orphans; the chat aggregator skips them.
func (s *ListingService) Delete(ctx context.Context, id string, actor domain.Actor) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.MayMutate(current) {
		return domain.Authorizationf("only the owner or an admin may delete listing %s", id)
	}
	if err := s.Store.Remove(ctx, collListings, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.NotFoundf("listing %s", id)
		}
		return domain.TransientStore("delete listing", err)
	}
	return nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	doc, err := s.Store.Get(ctx, collListings, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, domain.NotFoundf("listing %s", id)
		}
		return nil, domain.TransientStore("get listing", err)
	}
	return listingFromDoc(doc), nil
}

var orderNewestFirst = &docstore.OrderBy{Field: "createdAt", Desc: true}

func (s *ListingService) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Listing, error) {
	docs, err := s.Store.Query(ctx, collListings,
		[]docstore.Filter{docstore.Where("status", string(status))}, orderNewestFirst)
	if err != nil {
		return nil, domain.TransientStore("list listings", err)
	}
	return listingsFromDocs(docs), nil
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Listing, error) {
	docs, err := s.Store.Query(ctx, collListings,
		[]docstore.Filter{docstore.Where("ownerId", ownerID)}, orderNewestFirst)
	if err != nil {
		return nil, domain.TransientStore("list listings", err)
	}
	return listingsFromDocs(docs), nil
}

// ListAll returns every listing regardless of status, newest first. Used
// by the admin manage page.
func (s *ListingService) ListAll(ctx context.Context) ([]domain.Listing, error) {
	docs, err := s.Store.Query(ctx, collListings, nil, orderNewestFirst)
	if err != nil {
		return nil, domain.TransientStore("list listings", err)
	}
	return listingsFromDocs(docs), nil
}

// WatchActive delivers the current active listings and every change to
// them. The caller owns the cancel handle and must release it when the
// view goes away.
func (s *ListingService) WatchActive(fn func([]domain.Listing)) (cancel func()) {
	return s.Store.Subscribe(collListings,
		[]docstore.Filter{docstore.Where("status", string(domain.StatusActive))},
		orderNewestFirst,
		func(docs []docstore.Doc) { fn(listingsFromDocs(docs)) })
}
