package services

import (
	"errors"

	"baraholka/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadAdminCreds = errors.New("invalid admin id or password")

// AdminAuthService gates the admin console. An admin signs in with their
// Telegram id (must be on the allowlist) and the shared console password.
// Regular Mini-App users never authenticate here.
type AdminAuthService struct {
	Sessions     *repos.SessionRepo
	PasswordHash string // bcrypt; empty disables login entirely
	Allowed      func(id string) bool
}

func (s *AdminAuthService) Login(sid, adminID, password string) error {
	if s.PasswordHash == "" || s.Allowed == nil || !s.Allowed(adminID) {
		return ErrBadAdminCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) != nil {
		return ErrBadAdminCreds
	}
	return s.Sessions.Bind(sid, adminID)
}

func (s *AdminAuthService) Logout(sid string) error {
	return s.Sessions.Unbind(sid)
}

// CurrentAdmin resolves the session cookie to an admin id, rechecking the
// allowlist so a removed admin loses access immediately.
func (s *AdminAuthService) CurrentAdmin(sid string) (string, error) {
	id, err := s.Sessions.AdminID(sid)
	if err != nil {
		return "", err
	}
	if id == "" || s.Allowed == nil || !s.Allowed(id) {
		return "", nil
	}
	return id, nil
}
