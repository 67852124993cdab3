package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"gfontapi/internal/catalog"
	"gfontapi/internal/config"
	"gfontapi/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	host       *testsupport.FontHost
	configPath string
	targetDir  string
}

// setupCLITestEnv writes a config file pointing at a fixture catalog and a
// script converter. The file carries no API key; tests pass it explicitly.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("TMPDIR", t.TempDir())
	t.Setenv(config.APIKeyEnv, "")

	host := testsupport.NewFontHost(t, map[string][]byte{
		"/regular.ttf": testsupport.FontBytes(),
		"/bold.ttf":    testsupport.FontBytes(),
	})
	server := testsupport.NewCatalogServer(t, "test", catalog.Family{
		Name:     "Example Sans",
		Category: "sans-serif",
		Variants: []string{"regular", "700"},
		Files: map[string]string{
			"regular": host.URL("/regular.ttf"),
			"700":     host.URL("/bold.ttf"),
		},
	})
	binary := testsupport.WriteScript(t, base, "woff2_compress", testsupport.Woff2Script)

	cfg := testsupport.NewConfig(t,
		testsupport.WithAPIKey(""),
		testsupport.WithBaseURL(server.URL),
		testsupport.WithConverterBinary(binary),
	)
	configPath := filepath.Join(base, "gfontapi.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		host:       host,
		configPath: configPath,
		targetDir:  filepath.Join(base, "out"),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	payload, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
