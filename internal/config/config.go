package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	Client   ClientConfig
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	// DSN for the SQLite database, e.g. "file:loksangam.db".
	DSN string
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	RegistrationCreated string
	EventVerified       string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminEmail    string
	AdminPassword string
}

// ClientConfig configures the CLI side: where the backend lives and
// where the session database is kept.
type ClientConfig struct {
	BaseURL    string
	SessionDSN string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", "file:loksangam.db?_pragma=busy_timeout(5000)"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Topics: TopicConfig{
				RegistrationCreated: getEnv("KAFKA_TOPIC_REGISTRATIONS", "loksangam.registration.created"),
				EventVerified:       getEnv("KAFKA_TOPIC_VERIFICATIONS", "loksangam.event.verified"),
			},
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "loksangam-dev-secret"),
			TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 720)) * time.Minute,
			AdminEmail:    getEnv("ADMIN_EMAIL", "admin@loksangam.local"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Client: ClientConfig{
			BaseURL:    getEnv("LOKSANGAM_API", "http://localhost:8080"),
			SessionDSN: getEnv("LOKSANGAM_SESSION_DSN", defaultSessionDSN()),
		},
	}
}

func defaultSessionDSN() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "file:loksangam_session.db"
	}
	return "file:" + filepath.Join(home, ".loksangam", "session.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
