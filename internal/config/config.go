package config

import (
	"os"
	"strconv"
	"time"

	"ocev/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Validator ValidatorConfig
	Resources ResourceConfig
	Database  DatabaseConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// ValidatorConfig holds the external SHACL service settings
type ValidatorConfig struct {
	URL       string
	Timeout   time.Duration
	Inference string
}

// ResourceConfig holds the constraint schema and ontology resource paths.
// ShapesPath is mandatory: the engine cannot run without its constraint
// schema. OntologyPath is optional; absence falls back to the built-in
// type registry.
type ResourceConfig struct {
	ShapesPath   string
	OntologyPath string
}

// DatabaseConfig holds optional result-store settings. An empty URL means
// runs are kept in memory only.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "release"),
		},
		Validator: ValidatorConfig{
			URL:       getEnv("SHACL_SERVICE_URL", "http://localhost:8091"),
			Timeout:   getDurationEnv("SHACL_TIMEOUT", 60*time.Second),
			Inference: getEnv("SHACL_INFERENCE", "rdfs"),
		},
		Resources: ResourceConfig{
			ShapesPath:   getEnv("SHACL_RULES_PATH", "resources/shacl_rules.ttl"),
			OntologyPath: getEnv("ONTOLOGY_PATH", ""),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.Resources.ShapesPath == "" {
		return errors.ConfigInvalid("SHACL_RULES_PATH must not be empty")
	}
	if c.Validator.URL == "" {
		return errors.ConfigInvalid("SHACL_SERVICE_URL must not be empty")
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	return nil
}

// LoadShapes reads the constraint schema document. A missing or unreadable
// file is a fatal configuration error: the engine must refuse to start
// rather than silently skip constraint checks.
func (c *Config) LoadShapes() ([]byte, error) {
	data, err := os.ReadFile(c.Resources.ShapesPath)
	if err != nil {
		return nil, errors.Wrapf(
			errors.ConfigInvalid("constraint shape schema not found at "+c.Resources.ShapesPath),
			"failed to load SHACL rules")
	}
	if len(data) == 0 {
		return nil, errors.ConfigInvalid("constraint shape schema is empty: " + c.Resources.ShapesPath)
	}
	return data, nil
}

// LoadOntology reads the optional ontology background resource. A missing
// file is not an error; it simply means the built-in registry alone types
// the graph.
func (c *Config) LoadOntology() ([]byte, bool) {
	if c.Resources.OntologyPath == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.Resources.OntologyPath)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
