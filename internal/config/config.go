package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Logging   LoggingConfig
	Session   SessionConfig
	Kafka     KafkaConfig
	Websocket WebsocketConfig
}

type ServerConfig struct {
	Port           string
	UploadMaxBytes int64
}

// BackendConfig points at the rooms API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LoggingConfig struct {
	Directory string
	Level     string
	Format    string
}

type SessionConfig struct {
	Secret        string
	CookieName    string
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

type KafkaConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	AllowedActions []string
}

type WebsocketConfig struct {
	Buffer int
}

const devSessionSecret = "askroom-dev-secret"

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	backendTimeout, err := getDuration("BACKEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	idleTTL, err := getDuration("SESSION_IDLE_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := getDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	wsBuffer, err := getInt("WS_BUFFER", 16)
	if err != nil {
		return nil, err
	}
	uploadMax, err := getInt("UPLOAD_MAX_BYTES", 25<<20)
	if err != nil {
		return nil, err
	}

	brokers := splitList(getEnv("KAFKA_BROKERS", ""))
	if len(brokers) == 0 {
		brokers = splitList(getEnv("KAFKA_BROKER", ""))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			UploadMaxBytes: int64(uploadMax),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8001"), "/"),
			Timeout: backendTimeout,
		},
		Logging: LoggingConfig{
			Directory: getEnv("LOG_DIRECTORY", "./logs"),
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
		},
		Session: SessionConfig{
			Secret:        getEnv("SESSION_SECRET", devSessionSecret),
			CookieName:    getEnv("SESSION_COOKIE", "askroom_session"),
			IdleTTL:       idleTTL,
			SweepInterval: sweepInterval,
		},
		Kafka: KafkaConfig{
			Brokers:        brokers,
			GroupID:        getEnv("KAFKA_GROUP_ID", "askroom-web"),
			Topics:         splitList(getEnv("KAFKA_TOPICS", "")),
			AllowedActions: splitList(getEnv("KAFKA_ALLOWED_ACTIONS", "created,updated,answered")),
		},
		Websocket: WebsocketConfig{Buffer: wsBuffer},
	}

	if strings.TrimSpace(cfg.Backend.BaseURL) == "" {
		return nil, fmt.Errorf("BACKEND_URL must not be empty")
	}
	if cfg.Server.UploadMaxBytes <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	return cfg, nil
}

// UsesDevSecret reports whether sessions are signed with the built-in secret.
func (c *Config) UsesDevSecret() bool {
	return c.Session.Secret == devSessionSecret
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
