package testsupport

import (
	"path/filepath"
	"testing"

	"gfontapi/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose output directory lives in a per-test temp
// directory. The catalog key defaults to "test".
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Catalog.APIKey = "test"
	cfgVal.Paths.OutputDir = filepath.Join(base, "fonts")
	cfgVal.Converter.SearchPaths = nil

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithAPIKey sets the catalog API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.APIKey = key
	}
}

// WithBaseURL points the catalog at a test server.
func WithBaseURL(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.BaseURL = baseURL
	}
}

// WithConverterBinary sets the converter executable.
func WithConverterBinary(binary string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Converter.Binary = binary
	}
}

// WithStylesheetOrder sets the fonts.css record order.
func WithStylesheetOrder(order string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Stylesheet.Order = order
	}
}
