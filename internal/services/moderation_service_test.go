package services_test

import (
	"context"
	"testing"

	"baraholka/internal/domain"
	"baraholka/internal/services"
)

func TestApproveRequiresAdmin(t *testing.T) {
	store := memstore(t)
	ls := newListingService(t, store)
	mod := services.NewModerationService(store)
	ctx := context.Background()

	l := mustCreate(t, ls, "user-1")
	owner := domain.Actor{ID: "user-1"}

	if err := mod.Approve(ctx, l.ID, owner); !domain.IsAuthorization(err) {
		t.Fatalf("owner must not approve own listing, got %v", err)
	}
	if err := mod.Reject(ctx, l.ID, owner, "nope"); !domain.IsAuthorization(err) {
		t.Fatalf("owner must not reject, got %v", err)
	}
	if _, err := mod.Queue(ctx, owner); !domain.IsAuthorization(err) {
		t.Fatalf("queue requires admin, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	store := memstore(t)
	mod := services.NewModerationService(store)
	ctx := context.Background()
	admin := domain.Actor{ID: "admin-1", Admin: true}

	// Blank reason fails before the listing is even looked up, so the
	// outcome is the same for existing and missing ids.
	for _, reason := range []string{"", "   ", "\t\n"} {
		if err := mod.Reject(ctx, "whatever", admin, reason); !domain.IsValidation(err) {
			t.Fatalf("blank reason %q: want validation error, got %v", reason, err)
		}
	}
	if err := mod.Reject(ctx, "no-such-id", admin, "real reason"); !domain.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
	if err := mod.Approve(ctx, "no-such-id", admin); !domain.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestApproveClearsRejectionReason(t *testing.T) {
	store := memstore(t)
	ls := newListingService(t, store)
	mod := services.NewModerationService(store)
	ctx := context.Background()
	admin := domain.Actor{ID: "admin-1", Admin: true}

	l := mustCreate(t, ls, "user-1")
	if err := mod.Reject(ctx, l.ID, admin, "price looks fake"); err != nil {
		t.Fatal(err)
	}
	got, _ := ls.Get(ctx, l.ID)
	if got.Status != domain.StatusRejected || got.RejectionReason != "price looks fake" {
		t.Fatalf("reject not recorded: %+v", got)
	}

	if err := mod.Approve(ctx, l.ID, admin); err != nil {
		t.Fatal(err)
	}
	got, _ = ls.Get(ctx, l.ID)
	if got.Status != domain.StatusActive {
		t.Fatalf("want active, got %s", got.Status)
	}
	if got.RejectionReason != "" {
		t.Fatalf("approve must clear the reason, got %q", got.RejectionReason)
	}
}

func TestQueueOrdering(t *testing.T) {
	store := memstore(t)
	ls := newListingService(t, store)
	mod := services.NewModerationService(store)
	ctx := context.Background()
	admin := domain.Actor{ID: "admin-1", Admin: true}

	a := mustCreate(t, ls, "user-1")
	b := mustCreate(t, ls, "user-2")
	c := mustCreate(t, ls, "user-3")
	if err := mod.Approve(ctx, b.ID, admin); err != nil {
		t.Fatal(err)
	}

	queue, err := mod.Queue(ctx, admin)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 2 || queue[0].ID != c.ID || queue[1].ID != a.ID {
		t.Fatalf("want newest-first queue [%s %s], got %+v", c.ID, a.ID, queue)
	}
}

// Full lifecycle: submit, reject, owner resubmits by editing, approve.
func TestModerationLifecycle(t *testing.T) {
	store := memstore(t)
	ls := newListingService(t, store)
	mod := services.NewModerationService(store)
	ctx := context.Background()

	owner := domain.Actor{ID: "user-1"}
	admin := domain.Actor{ID: "admin-1", Admin: true}

	l := mustCreate(t, ls, owner.ID)
	if l.Status != domain.StatusPending {
		t.Fatalf("submit: want pending, got %s", l.Status)
	}

	if err := mod.Reject(ctx, l.ID, admin, "add real photos"); err != nil {
		t.Fatal(err)
	}
	cur, _ := ls.Get(ctx, l.ID)
	if cur.Status != domain.StatusRejected || cur.RejectionReason != "add real photos" {
		t.Fatalf("reject: %+v", cur)
	}

	cur, err := ls.Update(ctx, l.ID, owner, services.ListingUpdate{
		Images: []string{"https://example.com/real.jpg"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if cur.Status != domain.StatusPending || cur.RejectionReason != "" {
		t.Fatalf("resubmit: %+v", cur)
	}

	if err := mod.Approve(ctx, l.ID, admin); err != nil {
		t.Fatal(err)
	}
	cur, _ = ls.Get(ctx, l.ID)
	if cur.Status != domain.StatusActive || cur.RejectionReason != "" {
		t.Fatalf("approve: %+v", cur)
	}

	active, err := ls.ListByStatus(ctx, domain.StatusActive)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != l.ID {
		t.Fatalf("feed should carry the approved listing, got %+v", active)
	}
}
