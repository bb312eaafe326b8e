package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when present; a missing file is not an error.
const DefaultConfigPath = "config/config.yml"

type AppConfig struct {
	Port      int    `yaml:"port"`
	Env       string `yaml:"env"`
	GinMode   string `yaml:"gin_mode"`
	ClientURL string `yaml:"client_url"`
	LogFormat string `yaml:"log_format"`
}

type StoreConfig struct {
	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	LockTTL  string `yaml:"lock_ttl"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	TTL    string `yaml:"ttl"`
}

type OTPConfig struct {
	VerifyTTL    string `yaml:"verify_ttl"`
	ResetTTL     string `yaml:"reset_ttl"`
	ResendWindow string `yaml:"resend_window"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Secure   bool   `yaml:"secure"`
	From     string `yaml:"from"`
}

type ConfigFile struct {
	App   AppConfig   `yaml:"app"`
	Store StoreConfig `yaml:"store"`
	Redis RedisConfig `yaml:"redis"`
	JWT   JWTConfig   `yaml:"jwt"`
	OTP   OTPConfig   `yaml:"otp"`
	SMTP  SMTPConfig  `yaml:"smtp"`
}

type Config struct {
	Port            string
	Env             string
	GinMode         string
	ClientURL       string
	LogFormat       string
	StoreDriver     string
	DSN             string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LockTTL         time.Duration
	JWTSecret       string
	JWTTTL          time.Duration
	OTPVerifyTTL    time.Duration
	OTPResetTTL     time.Duration
	OTPResendWindow time.Duration
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	SMTPSecure      bool
	SenderEmail     string
}

// IsProduction reports whether cookies must be issued for cross-site delivery
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func defaults() *ConfigFile {
	return &ConfigFile{
		App: AppConfig{
			Port:      4000,
			Env:       "development",
			GinMode:   "release",
			ClientURL: "http://localhost:5173",
			LogFormat: "json",
		},
		Store: StoreConfig{
			Driver:        "postgres",
			MongoDatabase: "auth",
		},
		Redis: RedisConfig{LockTTL: "30s"},
		JWT:   JWTConfig{TTL: "168h"},
		OTP: OTPConfig{
			VerifyTTL:    "10m",
			ResetTTL:     "15m",
			ResendWindow: "0s",
		},
		SMTP: SMTPConfig{Port: 587},
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Load reads .env (if present), then the YAML file at path (if present),
// then applies environment overrides. An empty path means DefaultConfigPath.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // ok if missing

	if path == "" {
		path = DefaultConfigPath
	}
	file, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg, err := fromFile(file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromFile(f *ConfigFile) (*Config, error) {
	jwtTTL, err := time.ParseDuration(env("JWT_TTL", f.JWT.TTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT TTL: %w", err)
	}

	verifyTTL, err := time.ParseDuration(env("OTP_VERIFY_TTL", f.OTP.VerifyTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid verify OTP TTL: %w", err)
	}

	resetTTL, err := time.ParseDuration(env("OTP_RESET_TTL", f.OTP.ResetTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid reset OTP TTL: %w", err)
	}

	resWnd, err := time.ParseDuration(env("OTP_RESEND_WINDOW", f.OTP.ResendWindow))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}

	lockTTL, err := time.ParseDuration(env("REDIS_LOCK_TTL", f.Redis.LockTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid redis lock TTL: %w", err)
	}

	// NODE_ENV is honoured so existing deployments keep their cookie policy
	appEnv := env("APP_ENV", env("NODE_ENV", f.App.Env))

	return &Config{
		Port:            strconv.Itoa(envInt("PORT", f.App.Port)),
		Env:             appEnv,
		GinMode:         env("GIN_MODE", f.App.GinMode),
		ClientURL:       env("CLIENT_URL", f.App.ClientURL),
		LogFormat:       env("LOG_FORMAT", f.App.LogFormat),
		StoreDriver:     env("STORE_DRIVER", f.Store.Driver),
		DSN:             env("DATABASE_URL", f.Store.DSN),
		MongoURI:        env("MONGODB_URI", f.Store.MongoURI),
		MongoDatabase:   env("MONGODB_DATABASE", f.Store.MongoDatabase),
		RedisAddr:       env("REDIS_ADDR", f.Redis.Addr),
		RedisPassword:   env("REDIS_PASSWORD", f.Redis.Password),
		RedisDB:         envInt("REDIS_DB", f.Redis.DB),
		LockTTL:         lockTTL,
		JWTSecret:       env("JWT_SECRET", f.JWT.Secret),
		JWTTTL:          jwtTTL,
		OTPVerifyTTL:    verifyTTL,
		OTPResetTTL:     resetTTL,
		OTPResendWindow: resWnd,
		SMTPHost:        env("SMTP_HOST", f.SMTP.Host),
		SMTPPort:        envInt("SMTP_PORT", f.SMTP.Port),
		SMTPUser:        env("SMTP_USER", f.SMTP.Username),
		SMTPPassword:    env("SMTP_PASS", f.SMTP.Password),
		SMTPSecure:      envBool("SMTP_SECURE", f.SMTP.Secure),
		SenderEmail:     env("SENDER_EMAIL", f.SMTP.From),
	}, nil
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case "postgres", "sqlite":
		if c.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGODB_URI is required for store driver \"mongo\"")
		}
	default:
		return fmt.Errorf("unsupported store driver %q", c.StoreDriver)
	}
	if c.OTPVerifyTTL <= 0 || c.OTPResetTTL <= 0 {
		return errors.New("OTP TTLs must be positive")
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	config := defaults()

	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(bytes, config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return config, nil
}
