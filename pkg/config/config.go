package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kalaiprof897-eng/management/pkg/common"
)

type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSqlite   Backend = "sqlite"
	BackendMemory   Backend = "memory"
)

type Config struct {
	HttpHostPort string `yaml:"http_host_port"`
	GrpcHostPort string `yaml:"grpc_host_port"`

	Backend     Backend `yaml:"backend"`
	DbPath      string  `yaml:"db_path"`
	DatabaseURL string  `yaml:"database_url"`

	SupabaseURL     string `yaml:"supabase_url"`
	SupabaseAnonKey string `yaml:"supabase_anon_key"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	DefaultRate  float64 `yaml:"default_rate"`
	DefaultBurst int     `yaml:"default_burst"`
}

func Default() Config {
	return Config{
		HttpHostPort: ":1080",
		Backend:      BackendPostgres,
		DbPath:       "dashboard.db",
		GeminiModel:  "gemini-2.5-flash",
		DefaultRate:  5,
		DefaultBurst: 10,
	}
}

// Load starts from defaults, applies the YAML file named by
// DASHBOARD_CONFIG_FILE when set, then applies environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(common.EnvKeyConfigFile)); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return cfg, err
	}

	return cfg, cfg.validate()
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFromEnv() error {
	strs := map[string]*string{
		common.EnvKeyHttpHostPort:    &c.HttpHostPort,
		common.EnvKeyGrpcHostPort:    &c.GrpcHostPort,
		common.EnvKeyDbPath:          &c.DbPath,
		common.EnvKeyDatabaseURL:     &c.DatabaseURL,
		common.EnvKeySupabaseURL:     &c.SupabaseURL,
		common.EnvKeySupabaseAnonKey: &c.SupabaseAnonKey,
		common.EnvKeyGeminiAPIKey:    &c.GeminiAPIKey,
		common.EnvKeyGeminiModel:     &c.GeminiModel,
	}
	for key, dst := range strs {
		if value, ok := lookup(key); ok {
			*dst = value
		}
	}

	if value, ok := lookup(common.EnvKeyBackend); ok {
		c.Backend = Backend(value)
	}

	if value, ok := lookup(common.EnvKeyDefaultRate); ok {
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid %s, should be a float64 value: %w", common.EnvKeyDefaultRate, err)
		}
		c.DefaultRate = rate
	}

	if value, ok := lookup(common.EnvKeyDefaultBurst); ok {
		burst, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s, should be an int value: %w", common.EnvKeyDefaultBurst, err)
		}
		c.DefaultBurst = burst
	}

	return nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%s is required when %s=%s", common.EnvKeyDatabaseURL, common.EnvKeyBackend, BackendPostgres)
		}
	case BackendSqlite, BackendMemory:
	default:
		return fmt.Errorf("unknown %s: %q", common.EnvKeyBackend, c.Backend)
	}
	return nil
}

func lookup(key string) (string, bool) {
	value, found := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, found && value != ""
}
