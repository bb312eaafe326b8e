package domain

import "time"

// User represents a registered account
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	IsAccountVerified bool
	VerifyOTP         string
	VerifyOTPExpireAt *time.Time
	ResetOTP          string
	ResetOTPExpireAt  *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OTPKind selects one of the two independent OTP slots on a user
type OTPKind string

const (
	OTPKindVerify OTPKind = "verify"
	OTPKindReset  OTPKind = "reset"
)

// OTP returns the pending code and expiry stored in the given slot.
// An empty code means no cycle is pending.
func (u *User) OTP(kind OTPKind) (string, *time.Time) {
	switch kind {
	case OTPKindVerify:
		return u.VerifyOTP, u.VerifyOTPExpireAt
	case OTPKindReset:
		return u.ResetOTP, u.ResetOTPExpireAt
	}
	return "", nil
}

// SetOTP overwrites the slot, superseding any pending code of the same kind
func (u *User) SetOTP(kind OTPKind, code string, expiresAt time.Time) {
	switch kind {
	case OTPKindVerify:
		u.VerifyOTP = code
		u.VerifyOTPExpireAt = &expiresAt
	case OTPKindReset:
		u.ResetOTP = code
		u.ResetOTPExpireAt = &expiresAt
	}
}

// ClearOTP empties the slot
func (u *User) ClearOTP(kind OTPKind) {
	switch kind {
	case OTPKindVerify:
		u.VerifyOTP = ""
		u.VerifyOTPExpireAt = nil
	case OTPKindReset:
		u.ResetOTP = ""
		u.ResetOTPExpireAt = nil
	}
}

// PublicUser is the client-facing projection of a User.
// It never carries the password hash or OTP fields.
type PublicUser struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	IsAccountVerified bool      `json:"isAccountVerified"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Public builds the client-facing projection
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		IsAccountVerified: u.IsAccountVerified,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// AuthResult represents a successful register or login
type AuthResult struct {
	User  *User
	Token string
}

// TokenClaims represents the verified content of a session token
type TokenClaims struct {
	UserID    string `json:"id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
