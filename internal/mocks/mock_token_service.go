package mocks

import (
	"strings"
	"time"

	"github.com/kunalkv2000/reset-password/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	GenerateTokenFunc func(userID string) (string, error)
	ValidateTokenFunc func(token string) (*domain.TokenClaims, error)
	TTLFunc           func() time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateToken issues a session token
func (m *MockTokenService) GenerateToken(userID string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID)
	}
	// Default behavior: predictable token
	return "token_" + userID, nil
}

// ValidateToken verifies a session token
func (m *MockTokenService) ValidateToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(token)
	}
	// Default behavior: accept tokens produced by GenerateToken
	if token == "" {
		return nil, domain.ErrTokenMissing
	}
	userID, ok := strings.CutPrefix(token, "token_")
	if !ok || userID == "" {
		return nil, domain.ErrTokenInvalid
	}
	now := time.Now()
	return &domain.TokenClaims{
		UserID:    userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.TTL()).Unix(),
	}, nil
}

// TTL returns the token lifetime
func (m *MockTokenService) TTL() time.Duration {
	if m.TTLFunc != nil {
		return m.TTLFunc()
	}
	return 7 * 24 * time.Hour
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
