package auth

import (
	"fmt"

	"github.com/kunalkv2000/reset-password/domain"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost matches the 10 salt rounds existing hashes were created with
const DefaultPasswordCost = 10

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service
func NewPasswordService() domain.PasswordService {
	return NewPasswordServiceWithCost(DefaultPasswordCost)
}

// NewPasswordServiceWithCost creates a password service with an explicit bcrypt cost,
// clamped to the range bcrypt accepts. Tests use bcrypt.MinCost to stay fast.
func NewPasswordServiceWithCost(cost int) domain.PasswordService {
	switch {
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
