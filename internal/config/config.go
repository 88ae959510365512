package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Chatbot  ChatbotConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	LogFormat        string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	DocsDir          string
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	RunMigrations   bool
	AuditRetention  time.Duration
}

// AuthConfig holds the verification side of the admin tokens. Tokens are
// issued by the identity service; this app only checks them. Leeway absorbs
// clock skew on exp and nbf.
type AuthConfig struct {
	Enabled   bool
	PublicKey *rsa.PublicKey
	Issuer    string
	Leeway    time.Duration
}

type AIConfig struct {
	APIKey                  string
	Model                   string
	Timeout                 time.Duration
	Temperature             float32
	BreakerFailureThreshold int
	BreakerSuccessThreshold int
	BreakerTimeout          time.Duration
}

type ChatbotConfig struct {
	// ReadTimeout bounds the concurrent reads that feed a chatbot answer
	ReadTimeout   time.Duration
	CurrencyLabel string
}

type SecurityConfig struct {
	RateLimitPerSecond int
	RateLimitBurst     int
	MaxUploadBytes     int64
}

func Load() *Config {
	// A missing .env file is fine; the process environment wins either way.
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Host:            getEnv("SERVER_HOST", "localhost"),
			Environment:     getEnv("APP_ENV", "development"),
			LogFormat:       getEnv("LOG_FORMAT", "json"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 45*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			DocsDir:         getEnv("DOCS_DIR", "docs"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "finance_user"),
			Password:        getEnv("DB_PASSWORD", "finance_password"),
			Name:            getEnv("DB_NAME", "finance_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			RunMigrations:   getBoolEnv("RUN_MIGRATIONS", false),
			AuditRetention:  getDurationEnv("AUDIT_RETENTION", 90*24*time.Hour),
		},
		Auth: AuthConfig{
			Enabled: getBoolEnv("AUTH_ENABLED", false),
			Issuer:  getEnv("JWT_ISSUER", "finance-admin"),
			Leeway:  getDurationEnv("JWT_LEEWAY", 30*time.Second),
		},
		AI: AIConfig{
			APIKey:                  os.Getenv("GEMINI_API_KEY"),
			Model:                   getEnv("AI_MODEL", "gemini-2.0-flash"),
			Timeout:                 getDurationEnv("AI_TIMEOUT", 30*time.Second),
			Temperature:             getFloatEnv("AI_TEMPERATURE", 0.2),
			BreakerFailureThreshold: getIntEnv("AI_BREAKER_FAILURES", 5),
			BreakerSuccessThreshold: getIntEnv("AI_BREAKER_SUCCESSES", 2),
			BreakerTimeout:          getDurationEnv("AI_BREAKER_TIMEOUT", 60*time.Second),
		},
		Chatbot: ChatbotConfig{
			ReadTimeout:   getDurationEnv("CHATBOT_READ_TIMEOUT", 10*time.Second),
			CurrencyLabel: getEnv("CHATBOT_CURRENCY", "MXN"),
		},
		Security: SecurityConfig{
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 10),
			MaxUploadBytes:     int64(getIntEnv("MAX_UPLOAD_BYTES", 5<<20)),
		},
	}

	config.Server.CORSAllowOrigins = config.loadCORSAllowOrigins()

	publicKey, err := config.loadPublicKey()
	if err != nil {
		slog.Error("Failed to load JWT public key", "error", err)
		os.Exit(1)
	}
	config.Auth.PublicKey = publicKey

	return config
}

// Validate reports configuration that would make the server unusable
func (c *Config) Validate() error {
	// Without a key the chatbot answers from templates; acceptable outside production.
	if c.IsProduction() && strings.TrimSpace(c.AI.APIKey) == "" {
		return errors.New("GEMINI_API_KEY must be set in production")
	}
	if c.AI.Timeout <= 0 {
		return errors.New("AI_TIMEOUT must be positive")
	}
	if c.Auth.Enabled && c.Auth.PublicKey == nil {
		return errors.New("JWT_PUBLIC_KEY must be set when AUTH_ENABLED is true")
	}
	if c.Security.RateLimitPerSecond <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND must be positive")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) IsTesting() bool {
	return c.Server.Environment == "testing"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(f)
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// loadPublicKey reads the base64-encoded PEM from JWT_PUBLIC_KEY.
// Production with auth enabled requires the key; elsewhere a missing key
// leaves token verification off.
func (c *Config) loadPublicKey() (*rsa.PublicKey, error) {
	publicKeyB64 := os.Getenv("JWT_PUBLIC_KEY")
	if publicKeyB64 == "" {
		if c.IsProduction() && c.Auth.Enabled {
			return nil, errors.New("JWT_PUBLIC_KEY environment variable must be set in production when auth is enabled")
		}
		return nil, nil
	}

	publicKeyBytes, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JWT_PUBLIC_KEY: %w", err)
	}

	publicKey, err := loadRSAPublicKey(publicKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	slog.Info("Loaded JWT public key from environment")
	return publicKey, nil
}

// loadCORSAllowOrigins retrieves CORS allowed origins from environment or returns default
func (c *Config) loadCORSAllowOrigins() []string {
	corsOrigins := os.Getenv("CORS_ALLOW_ORIGINS")

	if corsOrigins == "" {
		if c.IsProduction() {
			slog.Warn("CORS_ALLOW_ORIGINS not set in production environment, defaulting to '*'")
		}
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}

	return origins
}

// GenerateRSAKeyPair generates a new RSA key pair
func GenerateRSAKeyPair() (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return privateKey, &privateKey.PublicKey, nil
}

// EncodePublicKeyPEM returns the PKIX PEM encoding of key
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// loadRSAPublicKey loads an RSA public key from PEM format
func loadRSAPublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing the key")
	}

	publicKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPublicKey, ok := publicKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}

	return rsaPublicKey, nil
}
