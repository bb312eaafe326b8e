package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kunalkv2000/reset-password/domain"
	"github.com/kunalkv2000/reset-password/internal/errutil"
	"github.com/kunalkv2000/reset-password/internal/http/middleware"
)

// Messages shared by several endpoints
const (
	msgUserNotFound     = "User not found"
	msgInvalidOTP       = "Invalid OTP"
	msgOTPExpired       = "OTP expired"
	msgFillAllFields    = "Please fill all the fields"
	msgResendLimit      = "Please wait before requesting another OTP"
	msgResendWait       = "Please wait %d seconds before requesting another OTP"
	msgUserLocked       = "Another request for this account is in progress. Please try again."
	msgAlreadyVerified  = "Account already verified"
	msgIncorrectLogin   = "One of the fields is incorrect"
	msgRegisterMissing  = "Please fill in name, email, and password."
	msgResetMissing     = "Please provide an email"
	msgVerifyMissing    = "Missing Details"
	msgVerifyResetEmpty = "Missing fields"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc     domain.AuthService
	cookies     CookiePolicy
	auditLogger domain.AuditLogger
	logger      *slog.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, cookies CookiePolicy, auditLogger domain.AuditLogger, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{
		authSvc:     authSvc,
		cookies:     cookies,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyAccountRequest represents account verification request
type VerifyAccountRequest struct {
	OTP string `json:"otp"`
}

// EmailRequest represents a reset OTP request
type EmailRequest struct {
	Email string `json:"email"`
}

// VerifyResetOTPRequest represents reset OTP check request
type VerifyResetOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest represents password reset request
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"password"`
}

// LoginUser is the user summary returned on login
type LoginUser struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

// Response is the envelope every auth endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    interface{} `json:"user,omitempty"`
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Message: message})
}

func ok(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// resendLimited answers 429 with the remaining throttle window when known
func resendLimited(c *gin.Context, err error) {
	wait := domain.RetryAfter(err)
	if wait <= 0 {
		fail(c, http.StatusTooManyRequests, msgResendLimit)
		return
	}
	c.Header("Retry-After", strconv.FormatInt(wait, 10))
	fail(c, http.StatusTooManyRequests, fmt.Sprintf(msgResendWait, wait))
}

// internalError logs the cause and answers with a generic message
func (h *AuthHandlers) internalError(c *gin.Context, op string, err error, message string) {
	errutil.LogError(c.Request.Context(), h.logger, op+" failed", err)
	fail(c, http.StatusInternalServerError, message)
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgRegisterMissing)
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			fail(c, http.StatusBadRequest, msgRegisterMissing)
		case errors.Is(err, domain.ErrUserAlreadyExists):
			fail(c, http.StatusOK, "User already exists")
		default:
			h.internalError(c, "register", err, "An internal server error occurred while registering.")
		}
		return
	}

	h.cookies.Set(c, result.Token)
	c.JSON(http.StatusOK, Response{Success: true})
}

// Login handles user login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusOK, msgFillAllFields)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			fail(c, http.StatusOK, msgFillAllFields)
		case errors.Is(err, domain.ErrInvalidCredentials):
			fail(c, http.StatusOK, msgIncorrectLogin)
		default:
			h.internalError(c, "login", err, "An internal server error occurred while logging in.")
		}
		return
	}

	h.cookies.Set(c, result.Token)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		User: LoginUser{
			ID:                result.User.ID,
			Name:              result.User.Name,
			Email:             result.User.Email,
			IsAccountVerified: result.User.IsAccountVerified,
		},
	})
}

// Logout clears the session cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.cookies.Clear(c)

	userID, _ := middleware.UserIDFrom(c)
	if err := h.auditLogger.LogEvent(c.Request.Context(), domain.NewAuditEvent(domain.UserLogoutEvent, userID)); err != nil {
		h.logger.WarnContext(c.Request.Context(), "audit log failed", "event", domain.UserLogoutEvent, "error", err)
	}

	ok(c, "Logout successful")
}

// SendVerifyOTP mails a verification code to the signed-in user
func (h *AuthHandlers) SendVerifyOTP(c *gin.Context) {
	userID, _ := middleware.UserIDFrom(c)

	err := h.authSvc.SendVerifyOTP(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, domain.ErrAlreadyVerified):
			fail(c, http.StatusConflict, msgAlreadyVerified)
		case errors.Is(err, domain.ErrOTPResendLimit):
			resendLimited(c, err)
		case errors.Is(err, domain.ErrUserLocked):
			fail(c, http.StatusConflict, msgUserLocked)
		default:
			h.internalError(c, "send verify otp", err, "Error in sending verification OTP")
		}
		return
	}

	ok(c, "Verification OTP sent to your email")
}

// VerifyAccount checks the verification code of the signed-in user
func (h *AuthHandlers) VerifyAccount(c *gin.Context) {
	var req VerifyAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusOK, msgVerifyMissing)
		return
	}
	userID, _ := middleware.UserIDFrom(c)

	err := h.authSvc.VerifyAccount(c.Request.Context(), userID, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			fail(c, http.StatusOK, msgVerifyMissing)
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusOK, msgUserNotFound)
		case errors.Is(err, domain.ErrOTPInvalid):
			fail(c, http.StatusOK, msgInvalidOTP)
		case errors.Is(err, domain.ErrOTPExpired):
			fail(c, http.StatusOK, msgOTPExpired)
		case errors.Is(err, domain.ErrUserLocked):
			fail(c, http.StatusConflict, msgUserLocked)
		default:
			h.internalError(c, "verify account", err, "Internal error during account verification")
		}
		return
	}

	ok(c, "Email verified successfully")
}

// IsAuth answers for requests that passed the session middleware
func (h *AuthHandlers) IsAuth(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true})
}

// SendResetOTP mails a password reset code
func (h *AuthHandlers) SendResetOTP(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusOK, msgResetMissing)
		return
	}

	err := h.authSvc.SendResetOTP(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			fail(c, http.StatusOK, msgResetMissing)
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusOK, msgUserNotFound)
		case errors.Is(err, domain.ErrOTPResendLimit):
			resendLimited(c, err)
		case errors.Is(err, domain.ErrUserLocked):
			fail(c, http.StatusConflict, msgUserLocked)
		default:
			h.internalError(c, "send reset otp", err, "An internal server error occurred while sending reset OTP.")
		}
		return
	}

	ok(c, "Reset OTP sent to your email")
}

// VerifyResetOTP checks a reset code without consuming it
func (h *AuthHandlers) VerifyResetOTP(c *gin.Context) {
	var req VerifyResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusOK, msgVerifyResetEmpty)
		return
	}

	err := h.authSvc.VerifyResetOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			fail(c, http.StatusOK, msgVerifyResetEmpty)
		case errors.Is(err, domain.ErrOTPInvalid), errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusOK, msgInvalidOTP)
		case errors.Is(err, domain.ErrOTPExpired):
			fail(c, http.StatusOK, msgOTPExpired)
		default:
			h.internalError(c, "verify reset otp", err, "An internal server error occurred while verifying the OTP.")
		}
		return
	}

	ok(c, "OTP verified")
}

// ResetPassword sets a new password using a reset code
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusOK, msgFillAllFields)
		return
	}

	err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			fail(c, http.StatusOK, msgFillAllFields)
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusOK, msgUserNotFound)
		case errors.Is(err, domain.ErrOTPInvalid):
			fail(c, http.StatusOK, msgInvalidOTP)
		case errors.Is(err, domain.ErrOTPExpired):
			fail(c, http.StatusOK, msgOTPExpired)
		case errors.Is(err, domain.ErrUserLocked):
			fail(c, http.StatusConflict, msgUserLocked)
		default:
			h.internalError(c, "reset password", err, "An internal server error occurred while resetting the password.")
		}
		return
	}

	ok(c, "Password has been reset successfully")
}

// GetUser returns the signed-in user's public record
func (h *AuthHandlers) GetUser(c *gin.Context) {
	userID, _ := middleware.UserIDFrom(c)

	user, err := h.authSvc.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			fail(c, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.internalError(c, "get user", err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, User: user.Public()})
}
