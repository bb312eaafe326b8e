package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kunalkv2000/reset-password/domain"
	"github.com/samber/oops"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID                string     `gorm:"primaryKey;size:36"`
	Name              string     `gorm:"size:255;not null"`
	Email             string     `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash      string     `gorm:"column:password;not null"`
	IsAccountVerified bool       `gorm:"not null;default:false"`
	VerifyOTP         string     `gorm:"column:verify_otp;size:6"`
	VerifyOTPExpireAt *time.Time `gorm:"column:verify_otp_expire_at"`
	ResetOTP          string     `gorm:"column:reset_otp;size:6"`
	ResetOTPExpireAt  *time.Time `gorm:"column:reset_otp_expire_at"`
	CreatedAt         time.Time  `gorm:"index"`
	UpdatedAt         time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrUserAlreadyExists
		}
		return oops.Code("USER_REPO_CREATE").With("email", user.Email).Wrap(err)
	}
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, oops.Code("USER_REPO_FIND").With("email", email).Wrap(err)
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, oops.Code("USER_REPO_FIND").With("user_id", id).Wrap(err)
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository. Every column is written so that
// cleared OTP slots are persisted as empty/NULL.
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	result := r.db.WithContext(ctx).
		Model(&DBUser{ID: user.ID}).
		Select("*").
		Omit("id", "created_at").
		Updates(dbUser)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domain.ErrUserAlreadyExists
		}
		return oops.Code("USER_REPO_UPDATE").With("user_id", user.ID).Wrap(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// isDuplicateKey matches the translated gorm error as well as raw driver
// messages for connections opened without TranslateError.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		PasswordHash:      user.PasswordHash,
		IsAccountVerified: user.IsAccountVerified,
		VerifyOTP:         user.VerifyOTP,
		VerifyOTPExpireAt: user.VerifyOTPExpireAt,
		ResetOTP:          user.ResetOTP,
		ResetOTPExpireAt:  user.ResetOTPExpireAt,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                dbUser.ID,
		Name:              dbUser.Name,
		Email:             dbUser.Email,
		PasswordHash:      dbUser.PasswordHash,
		IsAccountVerified: dbUser.IsAccountVerified,
		VerifyOTP:         dbUser.VerifyOTP,
		VerifyOTPExpireAt: dbUser.VerifyOTPExpireAt,
		ResetOTP:          dbUser.ResetOTP,
		ResetOTPExpireAt:  dbUser.ResetOTPExpireAt,
		CreatedAt:         dbUser.CreatedAt,
		UpdatedAt:         dbUser.UpdatedAt,
	}
}
