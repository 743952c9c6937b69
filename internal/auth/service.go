package auth

import (
	"errors"
	"time"

	"libraryapi/internal/platform/crypto"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrDisabled     = errors.New("admin login is not configured")
)

const defaultTokenTTL = 15 * time.Minute

// Service issues admin tokens for the catalog's write routes.
type Service struct {
	secret       string
	passwordHash string
	ttl          time.Duration
}

func NewService(secret, passwordHash string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{secret: secret, passwordHash: passwordHash, ttl: ttl}
}

// Login checks the admin password and returns a signed token and its lifetime in seconds.
func (s *Service) Login(password string) (string, int, error) {
	if s.secret == "" || s.passwordHash == "" {
		return "", 0, ErrDisabled
	}
	if !crypto.VerifyPassword(s.passwordHash, password) {
		return "", 0, ErrUnauthorized
	}
	token, _, err := crypto.GenerateToken(s.secret, "admin", crypto.RoleAdmin, s.ttl)
	if err != nil {
		return "", 0, err
	}
	return token, int(s.ttl.Seconds()), nil
}
