package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeCatalog()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeConverter(); err != nil {
		return err
	}
	c.Stylesheet.Order = strings.ToLower(strings.TrimSpace(c.Stylesheet.Order))
	if c.Stylesheet.Order == "" {
		c.Stylesheet.Order = defaultStylesheetOrder
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCatalog() {
	if value, ok := os.LookupEnv(APIKeyEnv); ok && strings.TrimSpace(value) != "" {
		c.Catalog.APIKey = value
	}
	c.Catalog.APIKey = strings.TrimSpace(c.Catalog.APIKey)
	c.Catalog.BaseURL = strings.TrimSpace(c.Catalog.BaseURL)
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	dir, err := expandHome(strings.TrimSpace(c.Paths.OutputDir))
	if err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	c.Paths.OutputDir = dir
	return nil
}

func (c *Config) normalizeConverter() error {
	c.Converter.Binary = strings.TrimSpace(c.Converter.Binary)
	if c.Converter.Binary == "" {
		c.Converter.Binary = defaultConverterBinary
	}
	if strings.HasPrefix(c.Converter.Binary, "~") {
		expanded, err := expandPath(c.Converter.Binary)
		if err != nil {
			return fmt.Errorf("converter.binary: %w", err)
		}
		c.Converter.Binary = expanded
	}
	paths := make([]string, 0, len(c.Converter.SearchPaths))
	for _, candidate := range c.Converter.SearchPaths {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		expanded, err := expandPath(candidate)
		if err != nil {
			return fmt.Errorf("converter.search_paths: %w", err)
		}
		paths = append(paths, expanded)
	}
	c.Converter.SearchPaths = paths
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
