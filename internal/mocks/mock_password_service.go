package mocks

import (
	"strings"
	"sync"

	"github.com/kunalkv2000/reset-password/domain"
)

// hashPrefix marks values produced by the mock hasher
const hashPrefix = "hashed_"

// MockPasswordService implements domain.PasswordService interface for testing.
// Hashes are the plaintext behind a fixed prefix so tests can predict them.
type MockPasswordService struct {
	HashFunc   func(password string) (string, error)
	VerifyFunc func(hashedPassword, password string) bool

	mu     sync.Mutex
	hashed []string
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash records the plaintext and returns its predictable hash
func (m *MockPasswordService) Hash(password string) (string, error) {
	m.mu.Lock()
	m.hashed = append(m.hashed, password)
	m.mu.Unlock()

	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return hashPrefix + password, nil
}

// Verify matches a plaintext against a mock hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	plain, ok := strings.CutPrefix(hashedPassword, hashPrefix)
	return ok && plain == password
}

// Hashed returns every plaintext passed to Hash, in order
func (m *MockPasswordService) Hashed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.hashed))
	copy(out, m.hashed)
	return out
}

// Compile-time interface compliance verification
var _ domain.PasswordService = (*MockPasswordService)(nil)
