package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kunalkv2000/reset-password/domain"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/notifications"
	"github.com/samber/oops"
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo        domain.UserRepository
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	otpSvc          domain.OTPService
	notificationSvc domain.NotificationService
	locker          domain.UserLocker
	auditLogger     domain.AuditLogger
	logger          *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	notificationSvc domain.NotificationService,
	locker domain.UserLocker,
	auditLogger domain.AuditLogger,
	logger *slog.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		otpSvc:          otpSvc,
		notificationSvc: notificationSvc,
		locker:          locker,
		auditLogger:     auditLogger,
		logger:          logger,
	}
}

// Register implements domain.AuthService
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (*domain.AuthResult, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_HASH_FAILED").Wrap(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	}
	// Create also reports ErrUserAlreadyExists when a concurrent request wins the unique index
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokenSvc.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	welcome := notifications.WelcomeEmail()
	if err := s.notificationSvc.SendEmail(ctx, user.Email, welcome.Subject, welcome.Body); err != nil {
		// registration stands even when the welcome mail is lost
		s.logger.WarnContext(ctx, "welcome email not delivered",
			slog.String("user_id", user.ID), slog.Any("error", err))
	}

	s.audit(ctx, domain.NewAuditEvent(domain.UserRegistrationEvent, user.ID).WithEmail(user.Email))

	return &domain.AuthResult{User: user, Token: token}, nil
}

// Login implements domain.AuthService. Unknown email and wrong password
// both yield ErrInvalidCredentials.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, "").
				WithEmail(email).WithError(domain.ErrInvalidCredentials))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.audit(ctx, domain.NewAuditEvent(domain.UserLoginFailureEvent, user.ID).
			WithEmail(email).WithError(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenSvc.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.UserLoginEvent, user.ID).WithEmail(user.Email))

	return &domain.AuthResult{User: user, Token: token}, nil
}

// GetUser implements domain.AuthService
func (s *AuthServiceImpl) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// SendVerifyOTP implements domain.AuthService
func (s *AuthServiceImpl) SendVerifyOTP(ctx context.Context, userID string) error {
	release, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAccountVerified {
		return domain.ErrAlreadyVerified
	}

	if _, err := s.otpSvc.Issue(ctx, user, domain.OTPKindVerify); err != nil {
		return err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.VerifyOTPRequestEvent, user.ID).WithEmail(user.Email))
	return nil
}

// VerifyAccount implements domain.AuthService
func (s *AuthServiceImpl) VerifyAccount(ctx context.Context, userID, code string) error {
	if userID == "" || code == "" {
		return domain.ErrMissingFields
	}

	release, err := s.locker.Acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.otpSvc.Validate(user, domain.OTPKindVerify, code); err != nil {
		s.audit(ctx, domain.NewAuditEvent(domain.AccountVerifyFailureEvent, user.ID).WithError(err))
		return err
	}

	user.IsAccountVerified = true
	s.otpSvc.Consume(user, domain.OTPKindVerify)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.AccountVerifiedEvent, user.ID).WithEmail(user.Email))
	return nil
}

// SendResetOTP implements domain.AuthService
func (s *AuthServiceImpl) SendResetOTP(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrMissingFields
	}

	user, release, err := s.lockByEmail(ctx, email)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.otpSvc.Issue(ctx, user, domain.OTPKindReset); err != nil {
		return err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.ResetOTPRequestEvent, user.ID).WithEmail(user.Email))
	return nil
}

// VerifyResetOTP implements domain.AuthService. The reset slot is left in
// place for the following ResetPassword call.
func (s *AuthServiceImpl) VerifyResetOTP(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return domain.ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrOTPInvalid
		}
		return err
	}

	return s.otpSvc.Validate(user, domain.OTPKindReset, code)
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return domain.ErrMissingFields
	}

	user, release, err := s.lockByEmail(ctx, email)
	if err != nil {
		return err
	}
	defer release()

	if err := s.otpSvc.Validate(user, domain.OTPKindReset, code); err != nil {
		s.audit(ctx, domain.NewAuditEvent(domain.PasswordResetFailureEvent, user.ID).WithEmail(email).WithError(err))
		return err
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_HASH_FAILED").With("user_id", user.ID).Wrap(err)
	}

	user.PasswordHash = hashedPassword
	s.otpSvc.Consume(user, domain.OTPKindReset)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.audit(ctx, domain.NewAuditEvent(domain.PasswordResetEvent, user.ID).WithEmail(user.Email))
	return nil
}

// lockByEmail resolves the user, takes the per-user lock and re-reads the
// record so the caller mutates the latest version.
func (s *AuthServiceImpl) lockByEmail(ctx context.Context, email string) (*domain.User, func(), error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	release, err := s.locker.Acquire(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	fresh, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		release()
		return nil, nil, err
	}
	return fresh, release, nil
}

func (s *AuthServiceImpl) audit(ctx context.Context, event *domain.AuditEvent) {
	if s.auditLogger == nil {
		return
	}
	if err := s.auditLogger.LogEvent(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit event dropped",
			slog.String("event_type", string(event.EventType)), slog.Any("error", err))
	}
}
