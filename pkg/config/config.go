package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full service configuration, loaded once at process
// start and handed to the composition root. Components never read the
// environment themselves; they receive plain values from here.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Encryption EncryptionConfig
	Password   PasswordConfig
	RateLimit  RateLimitConfig
	Lockout    LockoutConfig
	Mail       MailConfig
	Cleanup    CleanupConfig
}

type ServerConfig struct {
	Port        int
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Address returns host:port for the Redis client.
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig carries the asymmetric signing material as base64-encoded
// PEM blocks. Decoding and parsing happen in the JWT service
// constructor so a bad key fails at startup, not per request.
type JWTConfig struct {
	PrivateKeyBase64 string
	PublicKeyBase64  string
	Issuer           string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
}

// EncryptionConfig carries the application-secret encryption key,
// base64-encoded, which must decode to exactly 32 bytes.
type EncryptionConfig struct {
	AppSecretKeyBase64 string
}

type PasswordConfig struct {
	// BcryptCost is the bcrypt work factor.
	BcryptCost int
	// RequireComplexity gates the complexity pattern check. Off by
	// default: only the minimum length is enforced.
	RequireComplexity bool
}

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
}

type LockoutConfig struct {
	MaxAttempts int
	Duration    time.Duration
}

type MailConfig struct {
	Provider    string // "ses" or "console"
	FromAddress string
	FromName    string
	AWSRegion   string
	BaseURL     string // base for verification/reset links
	MaxRetries  int
}

type CleanupConfig struct {
	Interval time.Duration
}

// Load reads the full configuration from the environment.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnvInt("PORT", 8000),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "devauth"),
			Password:        getEnv("DB_PASSWORD", "devauth_password"),
			Name:            getEnv("DB_NAME", "devauth"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			PrivateKeyBase64: getEnv("JWT_PRIVATE_KEY", ""),
			PublicKeyBase64:  getEnv("JWT_PUBLIC_KEY", ""),
			Issuer:           getEnv("JWT_ISSUER", "devauth"),
			AccessTokenTTL:   getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTokenTTL:  getEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		},
		Encryption: EncryptionConfig{
			AppSecretKeyBase64: getEnv("APP_SECRET_ENCRYPTION_KEY", ""),
		},
		Password: PasswordConfig{
			BcryptCost:        getEnvInt("BCRYPT_COST", 12),
			RequireComplexity: getEnvBool("PASSWORD_REQUIRE_COMPLEXITY", false),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 60),
			Window:            getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Lockout: LockoutConfig{
			MaxAttempts: getEnvInt("LOCKOUT_MAX_ATTEMPTS", 5),
			Duration:    getEnvDuration("LOCKOUT_DURATION", 15*time.Minute),
		},
		Mail: MailConfig{
			Provider:    getEnv("MAIL_PROVIDER", "console"),
			FromAddress: getEnv("MAIL_FROM_ADDRESS", "noreply@devauth.dev"),
			FromName:    getEnv("MAIL_FROM_NAME", "DevAuth"),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			BaseURL:     getEnv("MAIL_LINK_BASE_URL", "http://localhost:3000"),
			MaxRetries:  getEnvInt("MAIL_MAX_RETRIES", 3),
		},
		Cleanup: CleanupConfig{
			Interval: getEnvDuration("CLEANUP_INTERVAL", time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
