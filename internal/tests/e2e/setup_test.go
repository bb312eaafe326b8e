package e2e

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kunalkv2000/reset-password/internal/config"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/database"
	"github.com/kunalkv2000/reset-password/internal/logging"
)

// TestSuite holds the E2E test infrastructure
type TestSuite struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Mini   *miniredis.Miniredis
}

// SuiteOption adjusts the configuration before the suite is built
type SuiteOption func(*config.Config)

// WithResendWindow enables OTP resend throttling
func WithResendWindow(d time.Duration) SuiteOption {
	return func(c *config.Config) { c.OTPResendWindow = d }
}

// NewTestSuite creates an isolated sqlite database and an in-process Redis
func NewTestSuite(t *testing.T, opts ...SuiteOption) *TestSuite {
	t.Helper()

	cfg := &config.Config{
		Env:          "development",
		ClientURL:    "http://localhost:5173",
		StoreDriver:  "sqlite",
		DSN:          filepath.Join(t.TempDir(), "e2e.db"),
		LockTTL:      30 * time.Second,
		JWTSecret:    "e2e-secret",
		JWTTTL:       7 * 24 * time.Hour,
		OTPVerifyTTL: 10 * time.Minute,
		OTPResetTTL:  15 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := database.Open(cfg.StoreDriver, cfg.DSN, logging.Discard())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// sqlite allows one writer; serialize so concurrent requests queue instead of failing busy
	sqlDB.SetMaxOpenConns(1)

	mr := miniredis.RunT(t)
	cfg.RedisAddr = mr.Addr()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	})

	return &TestSuite{Config: cfg, DB: db, Redis: rdb, Mini: mr}
}
