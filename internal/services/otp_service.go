package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math"
	"math/big"
	"time"

	"github.com/kunalkv2000/reset-password/domain"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/database"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/notifications"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const (
	// codes are drawn uniformly from [otpMin, otpMin+otpSpan)
	otpMin  = 100000
	otpSpan = 900000
)

// OTPServiceImpl implements domain.OTPService on the user record's OTP slots
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	userRepo        domain.UserRepository
	redisClient     *redis.Client
	config          OTPConfig
	logger          *slog.Logger
	now             func() time.Time
	generate        func() (string, error)
}

type OTPConfig struct {
	VerifyTTL    time.Duration
	ResetTTL     time.Duration
	ResendWindow time.Duration
}

// DefaultOTPConfig returns the 10 / 15 minute lifetimes with throttling disabled
func DefaultOTPConfig() OTPConfig {
	return OTPConfig{
		VerifyTTL: 10 * time.Minute,
		ResetTTL:  15 * time.Minute,
	}
}

// NewOTPService creates a new OTP service. redisClient may be nil, in which
// case no resend throttle is applied.
func NewOTPService(notificationSvc domain.NotificationService, userRepo domain.UserRepository, redisClient *redis.Client, config OTPConfig, logger *slog.Logger) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		userRepo:        userRepo,
		redisClient:     redisClient,
		config:          config,
		logger:          logger,
		now:             time.Now,
		generate:        generateSecureCode,
	}
}

func (s *OTPServiceImpl) ttl(kind domain.OTPKind) time.Duration {
	if kind == domain.OTPKindReset {
		return s.config.ResetTTL
	}
	return s.config.VerifyTTL
}

func (s *OTPServiceImpl) throttled() bool {
	return s.redisClient != nil && s.config.ResendWindow > 0
}

func resendKey(userID string, kind domain.OTPKind) string {
	return fmt.Sprintf("otp:res:%s:%s", kind, userID)
}

// Issue implements domain.OTPService
func (s *OTPServiceImpl) Issue(ctx context.Context, user *domain.User, kind domain.OTPKind) (string, error) {
	var throttleKey string
	if s.throttled() {
		key := resendKey(user.ID, kind)
		ok, err := database.SetNX(ctx, s.redisClient, key, 1, s.config.ResendWindow)
		switch {
		case err != nil:
			// throttling is best effort; a Redis outage must not block OTP delivery
			s.logger.WarnContext(ctx, "otp resend throttle unavailable",
				slog.String("user_id", user.ID), slog.Any("error", err))
		case !ok:
			return "", s.resendLimit(ctx, user.ID, kind)
		default:
			throttleKey = key
		}
	}

	code, err := s.issue(ctx, user, kind)
	if err != nil && throttleKey != "" {
		// Clean up the throttle so the user can retry right away
		if derr := database.Forget(s.redisClient, throttleKey); derr != nil {
			s.logger.WarnContext(ctx, "otp resend throttle not released",
				slog.String("user_id", user.ID), slog.Any("error", derr))
		}
	}
	return code, err
}

// resendLimit reports the remaining throttle window, falling back to the bare
// sentinel when it cannot be read.
func (s *OTPServiceImpl) resendLimit(ctx context.Context, userID string, kind domain.OTPKind) error {
	allowed, wait, err := s.CanResend(ctx, userID, kind)
	if err != nil {
		s.logger.WarnContext(ctx, "otp resend window unavailable",
			slog.String("user_id", userID), slog.Any("error", err))
		return domain.ErrOTPResendLimit
	}
	if allowed || wait < 1 {
		// the key lapsed between SETNX and TTL
		wait = 1
	}
	return &domain.ResendLimitError{RetryAfter: wait}
}

func (s *OTPServiceImpl) issue(ctx context.Context, user *domain.User, kind domain.OTPKind) (string, error) {
	code, err := s.generate()
	if err != nil {
		return "", oops.Code("OTP_GENERATE_FAILED").Wrap(err)
	}

	ttl := s.ttl(kind)
	user.SetOTP(kind, code, s.now().Add(ttl))
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", oops.Code("OTP_PERSIST_FAILED").With("user_id", user.ID).With("kind", string(kind)).Wrap(err)
	}

	var email notifications.Email
	if kind == domain.OTPKindReset {
		email = notifications.ResetOTPEmail(code, ttl)
	} else {
		email = notifications.VerifyOTPEmail(code, ttl)
	}
	if err := s.notificationSvc.SendEmail(ctx, user.Email, email.Subject, email.Body); err != nil {
		return "", oops.Code("OTP_DELIVERY_FAILED").With("user_id", user.ID).With("kind", string(kind)).Wrap(err)
	}

	return code, nil
}

// Validate implements domain.OTPService. The code is checked before the expiry.
func (s *OTPServiceImpl) Validate(user *domain.User, kind domain.OTPKind, code string) error {
	stored, expiresAt := user.OTP(kind)
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return domain.ErrOTPInvalid
	}
	if expiresAt == nil || s.now().After(*expiresAt) {
		return domain.ErrOTPExpired
	}
	return nil
}

// Consume implements domain.OTPService
func (s *OTPServiceImpl) Consume(user *domain.User, kind domain.OTPKind) {
	user.ClearOTP(kind)
}

// CanResend implements domain.OTPService with Redis-based throttling
func (s *OTPServiceImpl) CanResend(ctx context.Context, userID string, kind domain.OTPKind) (bool, int64, error) {
	if !s.throttled() {
		return true, 0, nil
	}

	ttl, err := database.RemainingTTL(ctx, s.redisClient, resendKey(userID, kind))
	if err != nil {
		return false, 0, oops.Code("OTP_THROTTLE_FAILED").With("user_id", userID).Wrap(err)
	}

	if ttl == 0 {
		return true, 0, nil
	}

	// Must wait for TTL to expire; partial seconds round up
	return false, int64(math.Ceil(ttl.Seconds())), nil
}

// generateSecureCode generates a cryptographically secure 6-digit code
func generateSecureCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}
