package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults returns the configuration produced by defaults alone, before any
// environment variable is applied. It is not validated.
func Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}
	return &cfg, nil
}

// WriteExample renders cfg as YAML, annotated with the environment variable
// that feeds each section.
func WriteExample(w io.Writer, cfg *Config) error {
	if _, err := fmt.Fprintln(w, "# feedback-intake configuration. Every key can be set through the"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "# environment variable printed by `feedback-intake config --env`, e.g. TABLE_NAME."); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

// EnvVars lists the environment variables LoadConfig reads, in binding order.
func EnvVars() []string {
	vars := make([]string, 0, len(envBindings))
	for _, b := range envBindings {
		vars = append(vars, b[1])
	}
	return vars
}
