package httpx

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kunalkv2000/reset-password/internal/http/handlers"
	"github.com/kunalkv2000/reset-password/internal/http/middleware"
	"github.com/kunalkv2000/reset-password/internal/logging"
	"github.com/kunalkv2000/reset-password/internal/metrics"
)

// allowedOrigins accepts a comma-separated list; trailing slashes are dropped
func allowedOrigins(clientURL string) []string {
	var origins []string
	for _, p := range strings.Split(clientURL, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func BuildRouter(ah *handlers.AuthHandlers, jwtmw *middleware.AuthMW, m *metrics.Metrics, logger *slog.Logger, clientURL string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger(logger), m.Middleware())

	if origins := allowedOrigins(clientURL); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           5 * time.Minute,
		}))
	}

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "API Working") })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	auth := r.Group("/api/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/send-reset-otp", ah.SendResetOTP)
	auth.POST("/verify-reset-otp", ah.VerifyResetOTP)
	auth.POST("/reset-password", ah.ResetPassword)

	v := auth.Group("").Use(jwtmw.WithJWT())
	v.POST("/logout", ah.Logout)
	v.POST("/send-verify-otp", ah.SendVerifyOTP)
	v.POST("/verify-account", ah.VerifyAccount)
	v.GET("/is-auth", ah.IsAuth)
	v.GET("/user", ah.GetUser)

	return r
}
