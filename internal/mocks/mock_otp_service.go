package mocks

import (
	"context"
	"time"

	"github.com/kunalkv2000/reset-password/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc     func(ctx context.Context, user *domain.User, kind domain.OTPKind) (string, error)
	ValidateFunc  func(user *domain.User, kind domain.OTPKind, code string) error
	ConsumeFunc   func(user *domain.User, kind domain.OTPKind)
	CanResendFunc func(ctx context.Context, userID string, kind domain.OTPKind) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue stores a code on the user
func (m *MockOTPService) Issue(ctx context.Context, user *domain.User, kind domain.OTPKind) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, user, kind)
	}
	// Default behavior: fixed code valid for five minutes
	user.SetOTP(kind, "123456", time.Now().Add(5*time.Minute))
	return "123456", nil
}

// Validate checks a code against the user's slot
func (m *MockOTPService) Validate(user *domain.User, kind domain.OTPKind, code string) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(user, kind, code)
	}
	// Default behavior: accept "123456" as valid OTP
	if code != "123456" {
		return domain.ErrOTPInvalid
	}
	return nil
}

// Consume clears the user's slot
func (m *MockOTPService) Consume(user *domain.User, kind domain.OTPKind) {
	if m.ConsumeFunc != nil {
		m.ConsumeFunc(user, kind)
		return
	}
	user.ClearOTP(kind)
}

// CanResend checks if an OTP can be resent
func (m *MockOTPService) CanResend(ctx context.Context, userID string, kind domain.OTPKind) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, userID, kind)
	}
	// Default behavior: allow resend with no wait time
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
