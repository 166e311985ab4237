package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Router    RouterConfig    `yaml:"router" envconfig:"ROUTER"`
	Site      SiteConfig      `yaml:"site" envconfig:"SITE"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host       string     `yaml:"host" envconfig:"HOST"`
	Port       int        `yaml:"port" envconfig:"PORT"`
	AdminPort  int        `yaml:"admin_port" envconfig:"ADMIN_PORT"`   // Internal admin API port (0 to disable)
	AdminToken string     `yaml:"admin_token" envconfig:"ADMIN_TOKEN"` // Bearer token for admin API (auto-generated if empty)
	CORS       CORSConfig `yaml:"cors" envconfig:"CORS"`
}

// CORSConfig contains cross-origin settings for the public router
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	AllowedMethods   []string `yaml:"allowed_methods" envconfig:"ALLOWED_METHODS"`
	AllowedHeaders   []string `yaml:"allowed_headers" envconfig:"ALLOWED_HEADERS"`
	ExposedHeaders   []string `yaml:"exposed_headers" envconfig:"EXPOSED_HEADERS"`
	AllowCredentials bool     `yaml:"allow_credentials" envconfig:"ALLOW_CREDENTIALS"`
	MaxAge           int      `yaml:"max_age" envconfig:"MAX_AGE"` // seconds
}

// StorageConfig contains settings storage configuration
type StorageConfig struct {
	Type     string        `yaml:"type" envconfig:"TYPE"` // memory, mongodb, redis
	Project  string        `yaml:"project" envconfig:"PROJECT"`
	SeedFile string        `yaml:"seed_file" envconfig:"SEED_FILE"` // YAML settings applied when the project has none
	MongoDB  MongoDBConfig `yaml:"mongodb" envconfig:"MONGODB"`
	Redis    RedisConfig   `yaml:"redis" envconfig:"REDIS"`
}

// MongoDBConfig contains MongoDB-specific configuration
type MongoDBConfig struct {
	URI        string `yaml:"uri" envconfig:"URI"`
	Database   string `yaml:"database" envconfig:"DATABASE"`
	Collection string `yaml:"collection" envconfig:"COLLECTION"`
	Timeout    int    `yaml:"timeout" envconfig:"TIMEOUT"` // seconds
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Address   string `yaml:"address" envconfig:"ADDRESS"`
	Password  string `yaml:"password" envconfig:"PASSWORD"`
	DB        int    `yaml:"db" envconfig:"DB"`
	KeyPrefix string `yaml:"key_prefix" envconfig:"KEY_PREFIX"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"FORMAT"` // json, text
}

// RouterConfig contains URL generation settings for console commands
type RouterConfig struct {
	// DefaultURI is used when the project's core.url setting is missing or invalid
	DefaultURI string `yaml:"default_uri" envconfig:"DEFAULT_URI"`
}

// SiteConfig contains template and translation locations
type SiteConfig struct {
	TranslationsDir string `yaml:"translations_dir" envconfig:"TRANSLATIONS_DIR"`
	TemplatesDir    string `yaml:"templates_dir" envconfig:"TEMPLATES_DIR"`
	ThemesDir       string `yaml:"themes_dir" envconfig:"THEMES_DIR"`
	Theme           string `yaml:"theme" envconfig:"THEME"`
	TemplateSuffix  string `yaml:"template_suffix" envconfig:"TEMPLATE_SUFFIX"`
}

// RateLimitConfig contains public route rate limiting
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" envconfig:"ENABLED"`
	RequestsPerMinute int  `yaml:"requests_per_minute" envconfig:"REQUESTS_PER_MINUTE"`
	BurstSize         int  `yaml:"burst_size" envconfig:"BURST_SIZE"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Load from YAML file if provided (overrides defaults)
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// File doesn't exist, that's ok - we'll use defaults and env vars
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("SITE", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading files or environment
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config with sensible default values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			AdminPort: 8081, // Internal admin API port
			CORS: CORSConfig{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Authorization", "Content-Type", "Accept-Language"},
				MaxAge:         43200,
			},
		},
		Storage: StorageConfig{
			Type:    "memory",
			Project: "default",
			MongoDB: MongoDBConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "site",
				Collection: "settings",
				Timeout:    10,
			},
			Redis: RedisConfig{
				Address:   "localhost:6379",
				KeyPrefix: "site:settings:",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Site: SiteConfig{
			TranslationsDir: "translations",
			TemplatesDir:    "templates",
			ThemesDir:       "themes",
			TemplateSuffix:  ".html.tmpl",
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerMinute: 600,
			BurstSize:         50,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.AdminPort < 0 || c.Server.AdminPort > 65535 {
		return fmt.Errorf("invalid admin port: %d", c.Server.AdminPort)
	}

	if c.Storage.Type != "memory" && c.Storage.Type != "mongodb" && c.Storage.Type != "redis" {
		return fmt.Errorf("invalid storage type: %s (must be memory, mongodb, or redis)", c.Storage.Type)
	}

	if err := domain.ValidateProjectID(domain.ProjectID(c.Storage.Project)); err != nil {
		return fmt.Errorf("invalid storage project: %w", err)
	}

	if c.Storage.Type == "mongodb" && c.Storage.MongoDB.URI == "" {
		return fmt.Errorf("mongodb uri is required when using mongodb storage")
	}

	if c.Storage.Type == "redis" && c.Storage.Redis.Address == "" {
		return fmt.Errorf("redis address is required when using redis storage")
	}

	if c.Site.TemplatesDir == "" {
		return fmt.Errorf("site templates_dir is required")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute < 1 || c.RateLimit.BurstSize < 1) {
		return fmt.Errorf("rate limit requires positive requests_per_minute and burst_size")
	}

	return nil
}

// Address returns the server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AdminAddress returns the admin server address
func (c *ServerConfig) AdminAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.AdminPort)
}
