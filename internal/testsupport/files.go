package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// FontBytes returns a real TrueType font suitable as a download payload.
func FontBytes() []byte {
	return append([]byte(nil), goregular.TTF...)
}

// WriteFont writes FontBytes to path, creating parent directories.
func WriteFont(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, FontBytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteScript writes an executable shell script and returns its path.
func WriteScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
	return path
}

// Woff2Script is a woff2_compress stand-in that writes a tiny output file
// next to its argument.
const Woff2Script = "out=\"${1%.*}.woff2\"\nprintf 'wOF2' > \"$out\"\n"
