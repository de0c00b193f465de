// ABOUTME: Application configuration loaded from an optional YAML file and the environment.
// ABOUTME: Holds the process-wide environment flag read by visibility predicates.

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvProduction is the APP_ENV value that marks a production deployment.
const EnvProduction = "production"

// Config is the root application configuration.
type Config struct {
	Environment string       `yaml:"environment"`
	Server      ServerConfig `yaml:"server"`
	Database    DBConfig     `yaml:"database"`
	Admin       AdminConfig  `yaml:"admin"`
	OpenAI      OpenAIConfig `yaml:"openai"`
}

// ServerConfig describes HTTP server settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// DBConfig describes where the SQLite database lives. An empty path selects
// the per-user data directory.
type DBConfig struct {
	Path string `yaml:"path"`
}

// AdminConfig describes the admin site.
type AdminConfig struct {
	SiteName   string   `yaml:"site_name"`
	Prefix     string   `yaml:"prefix"`
	StaffUsers []string `yaml:"staff_users"`
}

// OpenAIConfig enables AI-generated seed data.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Environment: "development",
		Server:      ServerConfig{Port: "9000"},
		Database:    DBConfig{},
		Admin:       AdminConfig{SiteName: "admin", Prefix: "/admin"},
		OpenAI:      OpenAIConfig{Model: "gpt-5-mini"},
	}
}

// Load reads the YAML file at path (if non-empty) and then applies
// environment overrides. Variables from a .env file in the current
// directory or its parents are loaded first.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	loadDotEnv()
	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the configuration targets production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), EnvProduction)
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if !strings.HasPrefix(c.Admin.Prefix, "/") {
		return fmt.Errorf("admin prefix %q must start with '/'", c.Admin.Prefix)
	}
	if c.Admin.SiteName == "" {
		return fmt.Errorf("admin site name cannot be empty")
	}
	return nil
}

func loadDotEnv() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			return
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".env"))
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("ADMIN_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("ADMIN_DB_PATH"); v != "" {
		cfg.Database.Path = filepath.Clean(strings.TrimSpace(v))
	}
	if v := os.Getenv("ADMIN_STAFF_USERS"); v != "" {
		var users []string
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				users = append(users, u)
			}
		}
		cfg.Admin.StaffUsers = users
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
}

var production atomic.Bool

// SetProduction sets the process-wide production flag.
func SetProduction(v bool) {
	production.Store(v)
}

// Production reports the process-wide production flag.
func Production() bool {
	return production.Load()
}

// Apply publishes the process-wide parts of cfg.
func Apply(cfg *Config) {
	SetProduction(cfg.IsProduction())
	if cfg.IsProduction() {
		log.Printf("Running in production mode: stage-only actions are hidden")
	}
}
