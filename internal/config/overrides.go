package config

import (
	"fmt"
	"strings"
)

// Overrides carries command-line values. Non-empty fields take precedence
// over both the config file and the environment.
type Overrides struct {
	APIKey    string
	OutputDir string
	LogLevel  string
}

// Apply merges o into c and re-validates the result.
func (c *Config) Apply(o Overrides) error {
	if key := strings.TrimSpace(o.APIKey); key != "" {
		c.Catalog.APIKey = key
	}
	if dir := strings.TrimSpace(o.OutputDir); dir != "" {
		expanded, err := expandHome(dir)
		if err != nil {
			return fmt.Errorf("target dir: %w", err)
		}
		c.Paths.OutputDir = expanded
	}
	if level := strings.ToLower(strings.TrimSpace(o.LogLevel)); level != "" {
		c.Logging.Level = level
	}
	return c.Validate()
}
