package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kunalkv2000/reset-password/internal/http/handlers"
	httpx "github.com/kunalkv2000/reset-password/internal/http"
	"github.com/kunalkv2000/reset-password/internal/http/middleware"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/auth"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/repositories"
	"github.com/kunalkv2000/reset-password/internal/logging"
	"github.com/kunalkv2000/reset-password/internal/metrics"
	"github.com/kunalkv2000/reset-password/internal/mocks"
	"github.com/kunalkv2000/reset-password/internal/services"
	"golang.org/x/crypto/bcrypt"
)

var otpPattern = regexp.MustCompile(`\b(\d{6})\b`)

// TestServer wraps the HTTP test server with E2E testing capabilities
type TestServer struct {
	t      *testing.T
	Suite  *TestSuite
	Server *httptest.Server
	Mail   *mocks.MockNotificationService
	Audit  *mocks.MockAuditLogger
}

// NewTestServer wires the production components against the suite's stores.
// Only the mail transport is replaced so codes can be read back.
func NewTestServer(t *testing.T, suite *TestSuite) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.Discard()
	mail := mocks.NewMockNotificationService()
	audit := mocks.NewMockAuditLogger()
	m := metrics.New()

	userRepo := repositories.NewUserRepository(suite.DB)
	locker := repositories.NewRedisUserLocker(suite.Redis, suite.Config.LockTTL)
	passwordSvc := auth.NewPasswordServiceWithCost(bcrypt.MinCost)
	tokenSvc := auth.NewJWTService(suite.Config.JWTSecret, suite.Config.JWTTTL)

	otpSvc := services.NewOTPService(mail, userRepo, suite.Redis, services.OTPConfig{
		VerifyTTL:    suite.Config.OTPVerifyTTL,
		ResetTTL:     suite.Config.OTPResetTTL,
		ResendWindow: suite.Config.OTPResendWindow,
	}, logger)

	auditLogger := metrics.NewAuditRecorder(audit, m)
	authSvc := services.NewAuthService(userRepo, passwordSvc, tokenSvc, otpSvc, mail, locker, auditLogger, logger)

	authH := handlers.NewAuthHandlers(authSvc, handlers.NewCookiePolicy(suite.Config.IsProduction(), tokenSvc.TTL()), auditLogger, logger)
	router := httpx.BuildRouter(authH, middleware.NewAuthMW(tokenSvc), m, logger, suite.Config.ClientURL)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{t: t, Suite: suite, Server: server, Mail: mail, Audit: audit}
}

// Client is one browser: it keeps its own cookie jar
type Client struct {
	t      *testing.T
	server *TestServer
	http   *http.Client
}

// NewClient creates a client with an empty cookie jar
func (ts *TestServer) NewClient() *Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		ts.t.Fatalf("cookie jar: %v", err)
	}
	return &Client{t: ts.t, server: ts, http: &http.Client{Jar: jar}}
}

// Response is a decoded JSON reply
type Response struct {
	Status int
	Body   map[string]interface{}
	Raw    *http.Response
}

// Success reports the envelope's success flag
func (r Response) Success() bool {
	v, _ := r.Body["success"].(bool)
	return v
}

// Message returns the envelope message
func (r Response) Message() string {
	v, _ := r.Body["message"].(string)
	return v
}

// Post sends a JSON body
func (c *Client) Post(path string, body interface{}) Response {
	c.t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		c.t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, c.server.Server.URL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Get sends a GET request
func (c *Client) Get(path string) Response {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.server.Server.URL+path, nil)
	if err != nil {
		c.t.Fatalf("request: %v", err)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) Response {
	c.t.Helper()
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	out := Response{Status: resp.StatusCode, Raw: resp}
	if err := json.NewDecoder(resp.Body).Decode(&out.Body); err != nil {
		c.t.Fatalf("%s %s: decode body: %v", req.Method, req.URL.Path, err)
	}
	return out
}

// LastOTP extracts the code from the most recent mail sent to email
func (ts *TestServer) LastOTP(email string) string {
	ts.t.Helper()
	msg, ok := ts.Mail.Last(email)
	if !ok {
		ts.t.Fatalf("no mail sent to %s", email)
	}
	m := otpPattern.FindStringSubmatch(msg.Body)
	if m == nil {
		ts.t.Fatalf("no code in mail body %q", msg.Body)
	}
	return m[1]
}
