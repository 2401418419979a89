package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Watsonx WatsonxConfig
	OCR     OCRConfig
	Cache   CacheConfig
	Search  SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds Open Food Facts configuration. The catalog is public,
// so no credentials appear here.
type CatalogConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WatsonxConfig holds generative service configuration. Absent credentials
// are valid: the service then answers with labeled placeholder analyses.
type WatsonxConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	ProjectID string        `mapstructure:"project_id"`
	BaseURL   string        `mapstructure:"base_url"`
	ModelID   string        `mapstructure:"model_id"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// OCRConfig holds text-extraction collaborator configuration. An empty
// endpoint means image analyses run on placeholder ingredient text.
type OCRConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

// CacheConfig holds product-detail cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SearchConfig holds product search configuration
type SearchConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labelpadhega/")

	v.SetEnvPrefix("LABELPADHEGA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key gets a default,
// even an empty one: viper only considers known keys during Unmarshal, so a
// key without a default would never pick up its environment variable.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("catalog.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("catalog.timeout", "8s")

	v.SetDefault("watsonx.api_key", "")
	v.SetDefault("watsonx.project_id", "")
	v.SetDefault("watsonx.base_url", "https://us-south.ml.cloud.ibm.com")
	v.SetDefault("watsonx.model_id", "ibm/granite-3-8b-instruct")
	v.SetDefault("watsonx.timeout", "60s")

	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.api_key", "")

	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("search.default_limit", 10)
}

// validate validates the configuration. Missing watsonx credentials are not
// an error here: the analysis service degrades to placeholder results.
func validate(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required")
	}

	if config.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search default limit must be positive, got: %d", config.Search.DefaultLimit)
	}

	if (config.Watsonx.APIKey == "") != (config.Watsonx.ProjectID == "") {
		return fmt.Errorf("watsonx api_key and project_id must be set together")
	}

	return nil
}
