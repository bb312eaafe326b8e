package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// UserLocker serializes read-modify-write sequences on one user record.
// Release must be called once the write has completed.
type UserLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	SendVerifyOTP(ctx context.Context, userID string) error
	VerifyAccount(ctx context.Context, userID, code string) error
	SendResetOTP(ctx context.Context, email string) error
	VerifyResetOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// OTPService defines OTP operations on the two user slots
type OTPService interface {
	// Issue stores a fresh code in the slot, persists the user and mails the code.
	Issue(ctx context.Context, user *User, kind OTPKind) (string, error)
	// Validate checks the code without consuming it.
	Validate(user *User, kind OTPKind, code string) error
	// Consume clears the slot; the caller persists the user.
	Consume(user *User, kind OTPKind)
	// CanResend reports whether a new code may be issued and, if not, how many seconds remain.
	CanResend(ctx context.Context, userID string, kind OTPKind) (bool, int64, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines session token operations
type TokenService interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
	TTL() time.Duration
}

// NotificationService defines notification operations
type NotificationService interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}
