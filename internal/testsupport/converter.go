package testsupport

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gfontapi/internal/convert"
)

// StubConverter writes a placeholder WOFF2 next to each source. Sources whose
// base name contains a FailOn entry fail instead.
type StubConverter struct {
	FailOn []string

	mu    sync.Mutex
	calls []string
}

// Convert implements convert.Converter.
func (s *StubConverter) Convert(_ context.Context, sourcePath string) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, sourcePath)
	s.mu.Unlock()

	name := filepath.Base(sourcePath)
	for _, needle := range s.FailOn {
		if strings.Contains(name, needle) {
			return "", errors.New("stub conversion failure")
		}
	}
	output := convert.OutputPath(sourcePath)
	if err := os.WriteFile(output, []byte("wOF2"), 0o644); err != nil {
		return "", err
	}
	return output, nil
}

// Calls returns the source paths passed to Convert.
func (s *StubConverter) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
