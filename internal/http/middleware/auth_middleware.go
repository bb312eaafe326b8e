package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kunalkv2000/reset-password/domain"
)

// SessionCookie is the cookie carrying the signed session token
const SessionCookie = "token"

// NotAuthorizedMessage is returned when no usable session is present
const NotAuthorizedMessage = "Not Authorized."

// userIDKey is unexported so only this package can write the identity
const userIDKey = "auth.user_id"

// AuthMiddleware creates authentication middleware. It reads the session
// cookie, verifies it and stores the user id for UserIDFrom.
func AuthMiddleware(tokenSvc domain.TokenService) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			abortUnauthorized(c, NotAuthorizedMessage)
			return
		}

		claims, err := tokenSvc.ValidateToken(token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired),
				errors.Is(err, domain.ErrTokenMalformed),
				errors.Is(err, domain.ErrTokenInvalid):
				abortUnauthorized(c, err.Error())
			default:
				abortUnauthorized(c, NotAuthorizedMessage)
			}
			return
		}

		if claims.UserID == "" {
			abortUnauthorized(c, NotAuthorizedMessage)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	})
}

// UserIDFrom returns the authenticated user id set by AuthMiddleware
func UserIDFrom(c *gin.Context) (string, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// abortUnauthorized keeps the "status" key the web client already reads
func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  false,
		"message": message,
	})
}
