package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"github.com/kunalkv2000/reset-password/domain"
	"github.com/kunalkv2000/reset-password/internal/config"
	httpx "github.com/kunalkv2000/reset-password/internal/http"
	"github.com/kunalkv2000/reset-password/internal/http/handlers"
	"github.com/kunalkv2000/reset-password/internal/http/middleware"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/auth"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/database"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/notifications"
	"github.com/kunalkv2000/reset-password/internal/infrastructure/repositories"
	"github.com/kunalkv2000/reset-password/internal/logging"
	"github.com/kunalkv2000/reset-password/internal/metrics"
	"github.com/kunalkv2000/reset-password/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	DB          *gorm.DB
	MongoClient *mongo.Client
	RedisClient *redis.Client
	Metrics     *metrics.Metrics

	// Repositories
	UserRepo domain.UserRepository
	Locker   domain.UserLocker

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	AuditLogger     domain.AuditLogger

	// HTTP
	Router *gin.Engine
}

// NewContainer creates and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Metrics: metrics.New()}

	if err := c.initStore(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initServices(); err != nil {
		c.Close()
		return nil, err
	}
	c.initRouter()

	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.StoreDriver {
	case "mongo":
		client, db, err := database.OpenMongo(ctx, c.Config.MongoURI, c.Config.MongoDatabase)
		if err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		c.MongoClient = client

		repo := repositories.NewMongoUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		c.UserRepo = repo
	default:
		db, err := database.Open(c.Config.StoreDriver, c.Config.DSN, c.Logger)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		c.DB = db

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.UserRepo = repositories.NewUserRepository(db)
	}
	return nil
}

// initRedis is optional: without an address the lock is a no-op and
// resends are not throttled.
func (c *Container) initRedis(ctx context.Context) error {
	if c.Config.RedisAddr == "" {
		c.Logger.Info("redis not configured, per-user locking disabled")
		c.Locker = repositories.NewNoopLocker()
		return nil
	}

	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(ctx); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("redis: %w", err)
	}
	c.RedisClient = rdb.Client
	c.Locker = repositories.NewRedisUserLocker(rdb.Client, c.Config.LockTTL)
	return nil
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTTTL)

	notificationSvc, err := notifications.NewSMTPService(notifications.SMTPConfig{
		Host:     c.Config.SMTPHost,
		Port:     c.Config.SMTPPort,
		Username: c.Config.SMTPUser,
		Password: c.Config.SMTPPassword,
		Secure:   c.Config.SMTPSecure,
		From:     c.Config.SenderEmail,
		Timeout:  10 * time.Second,
	}, c.Logger)
	if err != nil {
		return err
	}
	c.NotificationSvc = notificationSvc

	c.AuditLogger = metrics.NewAuditRecorder(logging.NewAuditLogger(c.Logger), c.Metrics)

	otpConfig := services.OTPConfig{
		VerifyTTL:    c.Config.OTPVerifyTTL,
		ResetTTL:     c.Config.OTPResetTTL,
		ResendWindow: c.Config.OTPResendWindow,
	}
	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.UserRepo, c.RedisClient, otpConfig, c.Logger)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.OTPSvc,
		c.NotificationSvc,
		c.Locker,
		c.AuditLogger,
		c.Logger,
	)
	return nil
}

func (c *Container) initRouter() {
	authH := handlers.NewAuthHandlers(
		c.AuthSvc,
		handlers.NewCookiePolicy(c.Config.IsProduction(), c.TokenSvc.TTL()),
		c.AuditLogger,
		c.Logger,
	)
	jwtMW := middleware.NewAuthMW(c.TokenSvc)
	c.Router = httpx.BuildRouter(authH, jwtMW, c.Metrics, c.Logger, c.Config.ClientURL)
}

// Close closes all connections
func (c *Container) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if c.RedisClient != nil {
		keep(c.RedisClient.Close())
	}

	if c.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		keep(c.MongoClient.Disconnect(ctx))
		cancel()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			keep(err)
		} else {
			keep(sqlDB.Close())
		}
	}

	return firstErr
}
