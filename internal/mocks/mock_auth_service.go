package mocks

import (
	"context"
	"time"

	"github.com/kunalkv2000/reset-password/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, name, email, password string) (*domain.AuthResult, error)
	LoginFunc          func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	GetUserFunc        func(ctx context.Context, userID string) (*domain.User, error)
	SendVerifyOTPFunc  func(ctx context.Context, userID string) error
	VerifyAccountFunc  func(ctx context.Context, userID, code string) error
	SendResetOTPFunc   func(ctx context.Context, email string) error
	VerifyResetOTPFunc func(ctx context.Context, email, code string) error
	ResetPasswordFunc  func(ctx context.Context, email, code, newPassword string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	// Default behavior: return a new unverified user
	return &domain.AuthResult{
		User: &domain.User{
			ID:           "user-1",
			Name:         name,
			Email:        email,
			PasswordHash: "hashed_" + password,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		},
		Token: "token_user-1",
	}, nil
}

// Login authenticates a user and returns auth result
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: return successful auth result
	return &domain.AuthResult{
		User: &domain.User{
			ID:           "user-1",
			Name:         "Test User",
			Email:        email,
			PasswordHash: "hashed_" + password,
		},
		Token: "token_user-1",
	}, nil
}

// GetUser returns the user record
func (m *MockAuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, userID)
	}
	// Default behavior: return a mock user
	return &domain.User{
		ID:           userID,
		Name:         "Test User",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
	}, nil
}

// SendVerifyOTP issues a verification code
func (m *MockAuthService) SendVerifyOTP(ctx context.Context, userID string) error {
	if m.SendVerifyOTPFunc != nil {
		return m.SendVerifyOTPFunc(ctx, userID)
	}
	return nil
}

// VerifyAccount marks the account verified
func (m *MockAuthService) VerifyAccount(ctx context.Context, userID, code string) error {
	if m.VerifyAccountFunc != nil {
		return m.VerifyAccountFunc(ctx, userID, code)
	}
	return nil
}

// SendResetOTP issues a reset code
func (m *MockAuthService) SendResetOTP(ctx context.Context, email string) error {
	if m.SendResetOTPFunc != nil {
		return m.SendResetOTPFunc(ctx, email)
	}
	return nil
}

// VerifyResetOTP checks a reset code
func (m *MockAuthService) VerifyResetOTP(ctx context.Context, email, code string) error {
	if m.VerifyResetOTPFunc != nil {
		return m.VerifyResetOTPFunc(ctx, email, code)
	}
	return nil
}

// ResetPassword sets a new password
func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, code, newPassword)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
