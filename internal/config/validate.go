package config

import (
	"errors"
	"fmt"
	"net/url"

	"gfontapi/internal/services"
)

// Validate ensures the configuration is usable. The API key is not checked
// here; see RequireAPIKey.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"catalog.timeout_seconds":          c.Catalog.TimeoutSeconds,
		"catalog.download_timeout_seconds": c.Catalog.DownloadTimeoutSeconds,
		"converter.timeout_seconds":        c.Converter.TimeoutSeconds,
	}); err != nil {
		return err
	}
	switch c.Stylesheet.Order {
	case OrderCompletion, OrderWeight:
	default:
		return fmt.Errorf("stylesheet.order: unsupported value %q (use %q or %q)", c.Stylesheet.Order, OrderCompletion, OrderWeight)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

// RequireAPIKey reports a configuration error when no catalog credential was
// supplied by flag, environment, or config file.
func (c *Config) RequireAPIKey() error {
	if c.Catalog.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%w: using gfontapi requires an API key; pass --api-key=<API_KEY>, export %s=<API_KEY>, or set catalog.api_key in %s",
		services.ErrConfiguration, APIKeyEnv, defaultPath)
}

func (c *Config) validateCatalog() error {
	parsed, err := url.Parse(c.Catalog.BaseURL)
	if err != nil {
		return fmt.Errorf("catalog.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("catalog.base_url must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("catalog.base_url must include a host")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
