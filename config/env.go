package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config is the runtime configuration of the server.
type Config struct {
	Port        string        `yaml:"port"`
	DatabaseURL string        `yaml:"postgresql_uri"`
	Store       string        `yaml:"store"`
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl"`
	BcryptCost  int           `yaml:"bcrypt_cost"`
	CORSOrigins string        `yaml:"cors_origins"`
	LogLevel    string        `yaml:"log_level"`
	APIPrefix   string        `yaml:"api_prefix"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:        "3000",
		Store:       StorePostgres,
		BcryptCost:  10,
		CORSOrigins: "*",
		LogLevel:    "info",
		APIPrefix:   "/api",
	}
}

// LoadENV loads variables from .env files into the process environment. A
// missing file is not an error.
func LoadENV(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE and finally the environment.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.DatabaseURL, "POSTGRESQL_URI")
	setString(&c.Store, "STORE")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.CORSOrigins, "CORS_ORIGINS")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.APIPrefix, "API_PREFIX")

	if v, ok := os.LookupEnv("TOKEN_TTL"); ok && v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		c.TokenTTL = ttl
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok && v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		c.BcryptCost = cost
	}
	return nil
}

// Validate reports missing or inconsistent settings.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("you must set your 'JWT_SECRET' environmental variable")
	}
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("you must set your 'POSTGRESQL_URI' environmental variable")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.TokenTTL < 0 {
		return errors.New("token ttl must not be negative")
	}
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		c.APIPrefix = "/" + c.APIPrefix
	}
	c.APIPrefix = strings.TrimSuffix(c.APIPrefix, "/")
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
