package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kunalkv2000/reset-password/internal/http/middleware"
)

// CookiePolicy decides how the session cookie is issued.
// Production deployments serve the client from another site, so the cookie
// must be Secure and SameSite=None there; elsewhere it is SameSite=Lax.
type CookiePolicy struct {
	secure   bool
	sameSite http.SameSite
	maxAge   int
}

// NewCookiePolicy creates the cookie policy for the environment
func NewCookiePolicy(production bool, ttl time.Duration) CookiePolicy {
	p := CookiePolicy{
		secure:   production,
		sameSite: http.SameSiteLaxMode,
		maxAge:   int(ttl / time.Second),
	}
	if production {
		p.sameSite = http.SameSiteNoneMode
	}
	return p
}

// Set writes the session cookie
func (p CookiePolicy) Set(c *gin.Context, token string) {
	c.SetSameSite(p.sameSite)
	c.SetCookie(middleware.SessionCookie, token, p.maxAge, "/", "", p.secure, true)
}

// Clear expires the session cookie with the same attributes it was set with
func (p CookiePolicy) Clear(c *gin.Context) {
	c.SetSameSite(p.sameSite)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", p.secure, true)
}
