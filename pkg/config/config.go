package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Engine   EngineConfig
	LiveKit  LiveKitConfig
	Token    TokenConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// EngineConfig holds conferencing engine configuration
type EngineConfig struct {
	UseMock             bool
	SIPDomain           string
	ReadyTimeout        time.Duration
	DefaultIdentity     string
	ConferenceFactory   string
	E2EServerURL        string
	AccountE2EServerURL string
	E2EMessagingEnabled bool
}

// LiveKitConfig holds LiveKit configuration
type LiveKitConfig struct {
	URL       string
	APIKey    string
	APISecret string
}

// TokenConfig holds invitation token configuration
type TokenConfig struct {
	Secret       string
	InviteExpiry time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "conference_scheduler"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Engine: EngineConfig{
			UseMock:             getEnvAsBool("ENGINE_USE_MOCK", false),
			SIPDomain:           getEnv("ENGINE_SIP_DOMAIN", "conf.example.org"),
			ReadyTimeout:        getEnvAsDuration("ENGINE_READY_TIMEOUT", "30s"),
			DefaultIdentity:     getEnv("ENGINE_DEFAULT_IDENTITY", ""),
			ConferenceFactory:   getEnv("ENGINE_CONFERENCE_FACTORY_URI", ""),
			E2EServerURL:        getEnv("ENGINE_E2E_SERVER_URL", ""),
			AccountE2EServerURL: getEnv("ENGINE_ACCOUNT_E2E_SERVER_URL", ""),
			E2EMessagingEnabled: getEnvAsBool("ENGINE_E2E_MESSAGING_ENABLED", false),
		},
		LiveKit: LiveKitConfig{
			URL:       getEnv("LIVEKIT_URL", "http://localhost:7880"),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
		},
		Token: TokenConfig{
			Secret:       getEnv("INVITE_TOKEN_SECRET", "change-me-in-production"),
			InviteExpiry: getEnvAsDuration("INVITE_TOKEN_EXPIRY", "72h"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Engine.DefaultIdentity == "" {
		return fmt.Errorf("ENGINE_DEFAULT_IDENTITY is required")
	}
	if !c.Engine.UseMock {
		if c.LiveKit.APIKey == "" {
			return fmt.Errorf("LIVEKIT_API_KEY is required when ENGINE_USE_MOCK is false")
		}
		if c.LiveKit.APISecret == "" {
			return fmt.Errorf("LIVEKIT_API_SECRET is required when ENGINE_USE_MOCK is false")
		}
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
