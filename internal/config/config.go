package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Profile struct {
		Name string `yaml:"name" validate:"required"`
	} `yaml:"profile"`

	Scoring struct {
		TitleMatchWeight    float64 `yaml:"title_match_weight" validate:"gte=0"`
		KeywordMatchWeight  float64 `yaml:"keyword_match_weight" validate:"gte=0"`
		LocationMatchWeight float64 `yaml:"location_match_weight" validate:"gte=0"`
		RecencyWeight       float64 `yaml:"recency_weight" validate:"gte=0"`
		MinScore            float64 `yaml:"min_score" validate:"gte=0,lte=100"`
		MaxResults          int     `yaml:"max_results" validate:"gt=0"`
	} `yaml:"scoring"`

	Filters struct {
		TitleKeywords     []string `yaml:"title_keywords"`
		PreferredKeywords []string `yaml:"preferred_keywords"`
		ExcludeKeywords   []string `yaml:"exclude_keywords"`
		RequiredKeywords  []string `yaml:"required_keywords"`
		ExperienceLevels  []string `yaml:"experience_levels"`
		Location          struct {
			RemoteOnly         bool     `yaml:"remote_only"`
			PreferredLocations []string `yaml:"preferred_locations"`
			ExcludedLocations  []string `yaml:"excluded_locations"`
		} `yaml:"location"`
	} `yaml:"filters"`

	// Sites maps a source name to an enable flag. Unknown names are ignored;
	// a missing entry means enabled.
	Sites map[string]bool `yaml:"sites"`

	Scraping struct {
		RequestDelay time.Duration `yaml:"request_delay" validate:"gt=0"`
		Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
		MaxRetries   int           `yaml:"max_retries" validate:"gte=0"`
		UserAgent    string        `yaml:"user_agent"`
	} `yaml:"scraping"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Notification struct {
		ConsoleOutput  bool   `yaml:"console_output"`
		HTMLReport     bool   `yaml:"html_report"`
		ReportDir      string `yaml:"report_dir"`
		DiscordWebhook string `yaml:"discord_webhook"`
	} `yaml:"notification"`

	Scheduler struct {
		Spec string `yaml:"spec"`
	} `yaml:"scheduler"`

	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Redis struct {
		URL     string        `yaml:"url"`
		Enabled bool          `yaml:"enabled"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// ConfigError reports a missing or invalid configuration value. It is fatal:
// the run never starts.
type ConfigError struct {
	Detail string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// expandEnvVars expands environment variables in a string using ${VAR} syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	config.setDefaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, &ConfigError{Detail: "config file " + configPath, Cause: err}
		}
		yamlContent := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
			return nil, &ConfigError{Detail: "parsing " + configPath, Cause: err}
		}
	}

	config.loadFromEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) setDefaults() {
	c.Profile.Name = "default"

	c.Scoring.TitleMatchWeight = 35
	c.Scoring.KeywordMatchWeight = 30
	c.Scoring.LocationMatchWeight = 15
	c.Scoring.RecencyWeight = 20
	c.Scoring.MinScore = 40
	c.Scoring.MaxResults = 20

	c.Scraping.RequestDelay = 2 * time.Second
	c.Scraping.Timeout = 30 * time.Second
	c.Scraping.MaxRetries = 2
	c.Scraping.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

	c.Database.Path = "jobhound.db"

	c.Notification.ConsoleOutput = true
	c.Notification.HTMLReport = true
	c.Notification.ReportDir = "."

	c.Scheduler.Spec = "@daily"

	c.Server.Port = 8080
	c.Server.Host = "0.0.0.0"

	c.Redis.URL = "redis://localhost:6379"
	c.Redis.Timeout = 5 * time.Second

	c.Logging.Level = "info"
	c.Logging.Format = "json"
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if dbPath := os.Getenv("JOBHOUND_DB_PATH"); dbPath != "" {
		c.Database.Path = dbPath
	}

	if webhook := os.Getenv("DISCORD_WEBHOOK_URL"); webhook != "" {
		c.Notification.DiscordWebhook = webhook
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if ua := os.Getenv("JOBHOUND_USER_AGENT"); ua != "" {
		c.Scraping.UserAgent = ua
	}
}

// Validate checks the configuration before any scraping begins.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigError{Detail: "validation failed", Cause: err}
	}
	return nil
}

// SiteEnabled reports whether a source is enabled. Sources default to
// enabled when no flag is present.
func (c *Config) SiteEnabled(name string) bool {
	if c.Sites == nil {
		return true
	}
	enabled, ok := c.Sites[name]
	if !ok {
		return true
	}
	return enabled
}
