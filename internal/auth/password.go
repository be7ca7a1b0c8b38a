package auth

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrAdminDisabled is returned when no admin password is configured.
var ErrAdminDisabled = errors.New("admin access is not configured")

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// AdminCredential holds the single admin password as a bcrypt hash.
type AdminCredential struct {
	hash string
}

// NewAdminCredential prefers a pre-computed hash and otherwise hashes the
// plaintext once, so the plaintext is not kept in memory. With neither set
// the credential rejects every login.
func NewAdminCredential(hash, plain string, cost int) (*AdminCredential, error) {
	hash = strings.TrimSpace(hash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, errors.New("ADMIN_PASSWORD_HASH is not a bcrypt hash")
		}
		return &AdminCredential{hash: hash}, nil
	}
	if plain == "" {
		return &AdminCredential{}, nil
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := HashPassword(plain, cost)
	if err != nil {
		return nil, err
	}
	return &AdminCredential{hash: hashed}, nil
}

// Enabled reports whether an admin password is configured.
func (a *AdminCredential) Enabled() bool {
	return a != nil && a.hash != ""
}

// Verify checks plain against the admin password.
func (a *AdminCredential) Verify(plain string) error {
	if !a.Enabled() {
		return ErrAdminDisabled
	}
	return ComparePassword(a.hash, plain)
}
