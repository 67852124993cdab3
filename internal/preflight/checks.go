package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"gfontapi/internal/catalog"
	"gfontapi/internal/config"
	"gfontapi/internal/deps"
)

// CheckAPIKey reports whether a catalog credential is configured.
func CheckAPIKey(cfg *config.Config) Result {
	const name = "Catalog API key"
	if cfg.Catalog.APIKey == "" {
		return Result{Name: name, Detail: fmt.Sprintf("missing (set %s or catalog.api_key)", config.APIKeyEnv)}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckCatalog looks up family to confirm the catalog accepts the credential.
// It uses a 10-second timeout and a single attempt.
func CheckCatalog(ctx context.Context, fetcher catalog.Fetcher, family string) Result {
	const name = "Catalog"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := fetcher.Fetch(checkCtx, family)
	if err != nil {
		var statusErr *catalog.StatusError
		if errors.As(err, &statusErr) {
			return Result{Name: name, Detail: fmt.Sprintf("lookup failed (%d)", statusErr.Code)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("lookup failed (%v)", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s: %d variants", result.Name, len(result.Files))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory accepts a directory that does not exist yet as long
// as its nearest existing ancestor is writable, since runs create it.
func CheckOutputDirectory(name, path string) Result {
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	parent := filepath.Dir(filepath.Clean(path))
	for {
		if _, err := os.Stat(parent); err == nil {
			break
		}
		next := filepath.Dir(parent)
		if next == parent {
			break
		}
		parent = next
	}
	ancestor := CheckDirectoryAccess(name, parent)
	if !ancestor.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create under %s)", path, parent)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckSystemDeps evaluates the external binaries a run needs. Both the run
// and the CLI status command use this to share the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "woff2_compress",
			Command:     cfg.Converter.Binary,
			Description: "Required for WOFF2 conversion",
			Fallbacks:   cfg.Converter.SearchPaths,
		},
	}
	return deps.CheckBinaries(requirements)
}
