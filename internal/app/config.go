package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/atmohq/atmo-backend/internal/modules/chat"
	"github.com/atmohq/atmo-backend/internal/modules/docgen"
	"github.com/atmohq/atmo-backend/internal/platform/envutil"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	LLM         LLMConfig         `yaml:"llm"`
	Dedup       DedupConfig       `yaml:"dedup"`
	Docgen      DocgenConfig      `yaml:"docgen"`
	Redis       RedisConfig       `yaml:"redis"`
	Neo4j       Neo4jConfig       `yaml:"neo4j"`
	Storage     StorageConfig     `yaml:"storage"`
	Otel        OtelConfig        `yaml:"otel"`
	Maintenance MaintenanceConfig `yaml:"maintenance"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver        string        `yaml:"driver"`
	DSN           string        `yaml:"dsn"`
	Host          string        `yaml:"host"`
	Port          string        `yaml:"port"`
	User          string        `yaml:"user"`
	Password      string        `yaml:"password"`
	Name          string        `yaml:"name"`
	SSLMode       string        `yaml:"sslmode"`
	SQLitePath    string        `yaml:"sqlite_path"`
	MaxOpenConns  int           `yaml:"max_open_conns"`
	SlowThreshold time.Duration `yaml:"slow_threshold"`
	AutoMigrate   bool          `yaml:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Audience  string `yaml:"audience"`
}

type LLMConfig struct {
	Provider        string        `yaml:"provider"`
	Model           string        `yaml:"model"`
	OpenAIKey       string        `yaml:"openai_api_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	AnthropicKey    string        `yaml:"anthropic_api_key"`
	AnthropicURL    string        `yaml:"anthropic_base_url"`
	GeminiKey       string        `yaml:"gemini_api_key"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxRetries      int           `yaml:"max_retries"`
	ChatMaxTokens   int           `yaml:"chat_max_tokens"`
	ChatTemperature float64       `yaml:"chat_temperature"`
}

type DedupConfig struct {
	Window    time.Duration `yaml:"window"`
	Threshold float64       `yaml:"similarity_threshold"`
}

type DocgenConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	MaxTokens      int           `yaml:"max_tokens"`
	Temperature    float64       `yaml:"temperature"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	GuardTTL time.Duration `yaml:"guard_ttl"`
}

type Neo4jConfig struct {
	URI      string        `yaml:"uri"`
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Bucket          string `yaml:"bucket"`
	Mode            string `yaml:"mode"`
	EmulatorHost    string `yaml:"emulator_host"`
	PublicBaseURL   string `yaml:"public_base_url"`
	CredentialsJSON string `yaml:"credentials_json"`
	Prefix          string `yaml:"prefix"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Environment string  `yaml:"environment"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type MaintenanceConfig struct {
	Enabled      bool          `yaml:"enabled"`
	SessionIdle  time.Duration `yaml:"session_idle"`
	ArchiveAfter time.Duration `yaml:"archive_after"`
	SessionSpec  string        `yaml:"session_spec"`
	ArchiveSpec  string        `yaml:"archive_spec"`
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Port: "8080", Mode: "release", ShutdownTimeout: 15 * time.Second},
		Database: DatabaseConfig{Driver: "postgres", Port: "5432", SSLMode: "disable", MaxOpenConns: 20, SlowThreshold: 500 * time.Millisecond, AutoMigrate: true},
		LLM: LLMConfig{
			Provider:        "openai",
			Model:           "gpt-4o-mini",
			Timeout:         2 * time.Minute,
			MaxRetries:      2,
			ChatMaxTokens:   1500,
			ChatTemperature: 0.4,
		},
		Dedup:       DedupConfig{Window: chat.DefaultDedupWindow, Threshold: chat.DefaultSimilarityThreshold},
		Docgen:      DocgenConfig{MaxAttempts: docgen.DefaultMaxAttempts, AttemptTimeout: docgen.DefaultAttemptTimeout, MaxTokens: docgen.DefaultMaxTokens, Temperature: 0.3},
		Redis:       RedisConfig{GuardTTL: 10 * time.Minute},
		Neo4j:       Neo4jConfig{Database: "neo4j", Timeout: 10 * time.Second},
		Otel:        OtelConfig{ServiceName: "atmo-backend", Environment: "development", SampleRatio: 1},
		Maintenance: MaintenanceConfig{Enabled: true},
	}
}

// LoadConfig reads the YAML file at path (if any) over the defaults, then
// applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path = strings.TrimSpace(path); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Server.Port = envutil.String("PORT", c.Server.Port)
	c.Server.Mode = envutil.String("GIN_MODE", c.Server.Mode)
	c.Server.ShutdownTimeout = envutil.Duration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Database.Driver = envutil.String("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = envutil.String("DATABASE_URL", c.Database.DSN)
	c.Database.Host = envutil.String("POSTGRES_HOST", c.Database.Host)
	c.Database.Port = envutil.String("POSTGRES_PORT", c.Database.Port)
	c.Database.User = envutil.String("POSTGRES_USER", c.Database.User)
	c.Database.Password = envutil.String("POSTGRES_PASSWORD", c.Database.Password)
	c.Database.Name = envutil.String("POSTGRES_NAME", c.Database.Name)
	c.Database.SSLMode = envutil.String("POSTGRES_SSLMODE", c.Database.SSLMode)
	c.Database.SQLitePath = envutil.String("SQLITE_PATH", c.Database.SQLitePath)
	c.Database.MaxOpenConns = envutil.Int("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.AutoMigrate = envutil.Bool("DB_AUTO_MIGRATE", c.Database.AutoMigrate)

	c.Auth.JWTSecret = envutil.String("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.Audience = envutil.String("JWT_AUDIENCE", c.Auth.Audience)

	c.LLM.Provider = envutil.String("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = envutil.String("LLM_MODEL", c.LLM.Model)
	c.LLM.OpenAIKey = envutil.String("OPENAI_API_KEY", c.LLM.OpenAIKey)
	c.LLM.OpenAIBaseURL = envutil.String("OPENAI_BASE_URL", c.LLM.OpenAIBaseURL)
	c.LLM.AnthropicKey = envutil.String("ANTHROPIC_API_KEY", c.LLM.AnthropicKey)
	c.LLM.AnthropicURL = envutil.String("ANTHROPIC_BASE_URL", c.LLM.AnthropicURL)
	c.LLM.GeminiKey = envutil.String("GEMINI_API_KEY", c.LLM.GeminiKey)
	c.LLM.Timeout = envutil.Duration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.MaxRetries = envutil.Int("LLM_MAX_RETRIES", c.LLM.MaxRetries)

	c.Dedup.Window = envutil.Duration("DEDUP_WINDOW", c.Dedup.Window)
	c.Dedup.Threshold = envutil.Float("DEDUP_SIMILARITY_THRESHOLD", c.Dedup.Threshold)

	c.Docgen.MaxAttempts = envutil.Int("DOCGEN_MAX_ATTEMPTS", c.Docgen.MaxAttempts)
	c.Docgen.AttemptTimeout = envutil.Duration("DOCGEN_ATTEMPT_TIMEOUT", c.Docgen.AttemptTimeout)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.String("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)

	c.Neo4j.URI = envutil.String("NEO4J_URI", c.Neo4j.URI)
	c.Neo4j.User = envutil.String("NEO4J_USER", c.Neo4j.User)
	c.Neo4j.Password = envutil.String("NEO4J_PASSWORD", c.Neo4j.Password)
	c.Neo4j.Database = envutil.String("NEO4J_DATABASE", c.Neo4j.Database)

	c.Storage.Bucket = envutil.String("OUTPUT_BUCKET", c.Storage.Bucket)
	c.Storage.Mode = envutil.String("OBJECT_STORAGE_MODE", c.Storage.Mode)
	c.Storage.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", c.Storage.EmulatorHost)
	c.Storage.PublicBaseURL = envutil.String("OUTPUT_PUBLIC_BASE_URL", c.Storage.PublicBaseURL)
	c.Storage.CredentialsJSON = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", c.Storage.CredentialsJSON)

	c.Otel.Enabled = envutil.Bool("OTEL_ENABLED", c.Otel.Enabled)
	c.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", c.Otel.ServiceName)
	c.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", c.Otel.Environment)
	c.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.Otel.Endpoint)
	c.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.Otel.Headers)
	c.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", c.Otel.SampleRatio)

	c.Maintenance.Enabled = envutil.Bool("MAINTENANCE_ENABLED", c.Maintenance.Enabled)
	c.Maintenance.SessionIdle = envutil.Duration("MAINTENANCE_SESSION_IDLE", c.Maintenance.SessionIdle)
	c.Maintenance.ArchiveAfter = envutil.Duration("MAINTENANCE_ARCHIVE_AFTER", c.Maintenance.ArchiveAfter)
}

func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Database.Driver) {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver))
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "anthropic", "gemini":
	default:
		errs = append(errs, fmt.Errorf("llm.provider must be openai, anthropic or gemini, got %q", c.LLM.Provider))
	}
	if c.Dedup.Threshold < 0 || c.Dedup.Threshold > 100 {
		errs = append(errs, fmt.Errorf("dedup.similarity_threshold must be within 0..100, got %v", c.Dedup.Threshold))
	}
	if c.Docgen.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("docgen.max_attempts must not be negative"))
	}
	return errors.Join(errs...)
}
