package services_test

import (
	"errors"
	"testing"

	"baraholka/internal/repos"
	"baraholka/internal/services"

	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, password string, allowed ...string) *services.AdminAuthService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	set := map[string]bool{}
	for _, id := range allowed {
		set[id] = true
	}
	return &services.AdminAuthService{
		Sessions:     repos.NewSessionRepo(db),
		PasswordHash: string(hash),
		Allowed:      func(id string) bool { return set[id] },
	}
}

func TestAdminLogin(t *testing.T) {
	auth := newAuth(t, "hunter2", "12345")

	if err := auth.Login("sid-1", "12345", "wrong"); !errors.Is(err, services.ErrBadAdminCreds) {
		t.Fatalf("want ErrBadAdminCreds for wrong password, got %v", err)
	}
	if err := auth.Login("sid-1", "99999", "hunter2"); !errors.Is(err, services.ErrBadAdminCreds) {
		t.Fatalf("want ErrBadAdminCreds for unlisted admin, got %v", err)
	}
	if err := auth.Login("sid-1", "12345", "hunter2"); err != nil {
		t.Fatal(err)
	}

	id, err := auth.CurrentAdmin("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if id != "12345" {
		t.Fatalf("want 12345, got %q", id)
	}
	if id, _ := auth.CurrentAdmin("other-sid"); id != "" {
		t.Fatalf("unknown sid must resolve to nobody, got %q", id)
	}

	if err := auth.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if id, _ := auth.CurrentAdmin("sid-1"); id != "" {
		t.Fatalf("session must be gone after logout, got %q", id)
	}
}

func TestAdminLoginDisabledWithoutHash(t *testing.T) {
	auth := newAuth(t, "hunter2", "12345")
	auth.PasswordHash = ""
	if err := auth.Login("sid-1", "12345", "hunter2"); !errors.Is(err, services.ErrBadAdminCreds) {
		t.Fatalf("empty hash must disable login, got %v", err)
	}
}
