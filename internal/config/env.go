package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are the process wide defaults taken from the environment
type Settings struct {
	LogLevel    string `env:"WRAPMESH_LOG_LEVEL" envDefault:"info"`
	ShellLayers int    `env:"WRAPMESH_SHELL_LAYERS" envDefault:"1"`
	MetricsFile string `env:"WRAPMESH_METRICS_FILE"`
}

// ParseEnv parses environment variables into the target struct
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettings reads Settings from the environment
func LoadSettings() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
