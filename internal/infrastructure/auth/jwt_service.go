package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kunalkv2000/reset-password/domain"
	"github.com/samber/oops"
)

// DefaultTokenTTL is the lifetime of a session token and its cookie
const DefaultTokenTTL = 7 * 24 * time.Hour

// SessionClaims is the signed payload. Only the user id is carried.
type SessionClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string, ttl time.Duration) domain.TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// TTL implements domain.TokenService
func (j *JWTServiceImpl) TTL() time.Duration {
	return j.ttl
}

// GenerateToken implements domain.TokenService
func (j *JWTServiceImpl) GenerateToken(userID string) (string, error) {
	if len(j.secretKey) == 0 {
		return "", domain.ErrMissingSigningSecret
	}

	now := j.now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").With("user_id", userID).Wrap(err)
	}
	return signed, nil
}

// ValidateToken implements domain.TokenService
func (j *JWTServiceImpl) ValidateToken(tokenString string) (*domain.TokenClaims, error) {
	if tokenString == "" {
		return nil, domain.ErrTokenMissing
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		default:
			return nil, domain.ErrTokenInvalid
		}
	}

	if !token.Valid || claims.UserID == "" {
		return nil, domain.ErrTokenInvalid
	}

	tokenClaims := &domain.TokenClaims{UserID: claims.UserID}
	if claims.IssuedAt != nil {
		tokenClaims.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		tokenClaims.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return tokenClaims, nil
}
