package config

const (
	defaultConfigPath       = "~/.config/gfontapi/config.toml"
	projectConfigName       = "gfontapi.toml"
	defaultCatalogBaseURL   = "https://www.googleapis.com/webfonts/v1/webfonts"
	defaultCatalogTimeout   = 15
	defaultDownloadTimeout  = 300
	defaultOutputDir        = "./fonts"
	defaultConverterBinary  = "woff2_compress"
	defaultConverterTimeout = 120
	defaultStylesheetOrder  = OrderCompletion
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"

	// APIKeyEnv names the environment variable consulted for the catalog key.
	APIKeyEnv = "GFONT_API_KEY"
)

// Stylesheet record orders.
const (
	OrderCompletion = "completion"
	OrderWeight     = "weight"
)

// DefaultConverterSearchPaths lists the locations searched for woff2_compress
// when it is not on PATH.
var DefaultConverterSearchPaths = []string{
	"/usr/local/bin/woff2_compress",
	"~/.gfontapi/bin/woff2_compress",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			BaseURL:                defaultCatalogBaseURL,
			TimeoutSeconds:         defaultCatalogTimeout,
			DownloadTimeoutSeconds: defaultDownloadTimeout,
		},
		Paths: Paths{
			OutputDir: defaultOutputDir,
		},
		Converter: Converter{
			Binary:         defaultConverterBinary,
			SearchPaths:    append([]string(nil), DefaultConverterSearchPaths...),
			TimeoutSeconds: defaultConverterTimeout,
		},
		Stylesheet: Stylesheet{
			Order: defaultStylesheetOrder,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
