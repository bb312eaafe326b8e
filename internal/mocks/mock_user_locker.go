package mocks

import (
	"context"
	"sync"

	"github.com/kunalkv2000/reset-password/domain"
)

// MockUserLocker implements domain.UserLocker interface for testing
type MockUserLocker struct {
	AcquireFunc func(ctx context.Context, key string) (func(), error)

	mu       sync.Mutex
	acquired []string
	released int
}

// NewMockUserLocker creates a new MockUserLocker with default behaviors
func NewMockUserLocker() *MockUserLocker {
	return &MockUserLocker{}
}

// Acquire takes the lock for key
func (m *MockUserLocker) Acquire(ctx context.Context, key string) (func(), error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, key)
	}
	m.mu.Lock()
	m.acquired = append(m.acquired, key)
	m.mu.Unlock()

	// Default behavior: always granted, releases are counted
	return func() {
		m.mu.Lock()
		m.released++
		m.mu.Unlock()
	}, nil
}

// Acquired returns the keys locked so far
func (m *MockUserLocker) Acquired() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acquired...)
}

// Released returns how many locks were released
func (m *MockUserLocker) Released() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Compile-time interface compliance verification
var _ domain.UserLocker = (*MockUserLocker)(nil)
