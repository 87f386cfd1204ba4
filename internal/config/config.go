package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment override, e.g.
// HOUSEBUDGET_DATABASE_PATH or HOUSEBUDGET_LOGGING_LEVEL.
const EnvPrefix = "HOUSEBUDGET"

type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type DatabaseConfig struct {
	// Path of the SQLite file; ":memory:" keeps everything in RAM.
	Path string `mapstructure:"path" validate:"required"`
}

type CatalogConfig struct {
	// Path to a catalog YAML replacing the embedded one. Empty uses the
	// embedded catalog.
	Path string `mapstructure:"path"`
}

type SimulationConfig struct {
	// Seed fixes the risk draw for every new simulation. Zero picks a fresh
	// random seed per simulation.
	Seed            uint64 `mapstructure:"seed"`
	DefaultBudget   int    `mapstructure:"default_budget" validate:"min=1"`
	DefaultDuration int    `mapstructure:"default_duration" validate:"min=1"`
}

// Load reads configuration with this priority: environment variables
// (including a .env file), then the config file, then defaults. configPath
// may be empty to search ./housebudget.yaml and ~/.housebudget/.
func Load(configPath string, envFiles ...string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("housebudget")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := homeDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := SetDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// bindKeys registers every key so AutomaticEnv sees it during Unmarshal;
// viper only consults the environment for keys it already knows.
func bindKeys(v *viper.Viper) {
	v.SetDefault("database.path", "")
	v.SetDefault("catalog.path", "")
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.default_budget", 0)
	v.SetDefault("simulation.default_duration", 0)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	_ = SetDefaults(cfg)
	return cfg
}

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".housebudget"), nil
}
