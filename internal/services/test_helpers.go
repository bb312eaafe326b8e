package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kunalkv2000/reset-password/domain"
	"github.com/kunalkv2000/reset-password/internal/logging"
	"github.com/kunalkv2000/reset-password/internal/mocks"
)

// authTestDeps bundles the mocks behind an AuthService under test
type authTestDeps struct {
	userRepo        *mocks.MockUserRepository
	passwordSvc     *mocks.MockPasswordService
	tokenSvc        *mocks.MockTokenService
	otpSvc          *mocks.MockOTPService
	notificationSvc *mocks.MockNotificationService
	locker          *mocks.MockUserLocker
	audit           *mocks.MockAuditLogger
}

func newAuthTestDeps() *authTestDeps {
	return &authTestDeps{
		userRepo:        mocks.NewMockUserRepository(),
		passwordSvc:     mocks.NewMockPasswordService(),
		tokenSvc:        mocks.NewMockTokenService(),
		otpSvc:          mocks.NewMockOTPService(),
		notificationSvc: mocks.NewMockNotificationService(),
		locker:          mocks.NewMockUserLocker(),
		audit:           mocks.NewMockAuditLogger(),
	}
}

// createAuthServiceForTest creates an AuthService with mock dependencies for testing
func createAuthServiceForTest(t *testing.T, deps *authTestDeps) domain.AuthService {
	t.Helper()

	return NewAuthService(
		deps.userRepo,
		deps.passwordSvc,
		deps.tokenSvc,
		deps.otpSvc,
		deps.notificationSvc,
		deps.locker,
		deps.audit,
		logging.Discard(),
	)
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           "user-1",
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hashed_password123",
		CreatedAt:    time.Now().Add(-24 * time.Hour), // Created yesterday
		UpdatedAt:    time.Now().Add(-1 * time.Hour),  // Updated 1 hour ago
	}
}

// createVerifiedUser creates a user whose account is already verified
func createVerifiedUser(t *testing.T) *domain.User {
	t.Helper()

	user := createValidUser(t)
	user.IsAccountVerified = true
	return user
}

// createTestContext creates a context for testing with timeout
func createTestContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// memoryUsers backs a MockUserRepository with a map so multi-step flows
// observe their own writes. Stored users are copied on every read and write.
type memoryUsers struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	updates int
}

func newMemoryUsers(t *testing.T, repo *mocks.MockUserRepository, seed ...*domain.User) *memoryUsers {
	t.Helper()

	m := &memoryUsers{byID: make(map[string]domain.User)}
	for _, u := range seed {
		m.byID[u.ID] = *u
	}

	repo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, existing := range m.byID {
			if existing.Email == user.Email {
				return domain.ErrUserAlreadyExists
			}
		}
		if user.ID == "" {
			user.ID = "user-" + user.Email
		}
		m.byID[user.ID] = *user
		return nil
	}
	repo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, existing := range m.byID {
			if existing.Email == email {
				u := existing
				return &u, nil
			}
		}
		return nil, domain.ErrUserNotFound
	}
	repo.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		existing, ok := m.byID[id]
		if !ok {
			return nil, domain.ErrUserNotFound
		}
		return &existing, nil
	}
	repo.UpdateFunc = func(ctx context.Context, user *domain.User) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.byID[user.ID]; !ok {
			return domain.ErrUserNotFound
		}
		m.byID[user.ID] = *user
		m.updates++
		return nil
	}
	return m
}

func (m *memoryUsers) get(t *testing.T, id string) domain.User {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		t.Fatalf("user %q not stored", id)
	}
	return u
}

func (m *memoryUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
