package config

import "path/filepath"

const (
	DefaultBudget   = 50000
	DefaultDuration = 90
)

// SetDefaults fills every zero field.
func SetDefaults(cfg *Config) error {
	if cfg.Database.Path == "" {
		dir, err := homeDir()
		if err != nil {
			return err
		}
		cfg.Database.Path = filepath.Join(dir, "housebudget.db")
	}
	if cfg.Simulation.DefaultBudget == 0 {
		cfg.Simulation.DefaultBudget = DefaultBudget
	}
	if cfg.Simulation.DefaultDuration == 0 {
		cfg.Simulation.DefaultDuration = DefaultDuration
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "off"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	return nil
}
