// Package deps locates the external binaries gfontapi shells out to and
// reports their availability for the status command.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Requirement defines an external dependency gfontapi relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	// Fallbacks are absolute paths tried when Command is not on PATH.
	Fallbacks []string
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Command holds the resolved path for available requirements.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Command:     strings.TrimSpace(req.Command),
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if status.Command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := Locate(status.Command, req.Fallbacks)
		if err != nil {
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Locate resolves command via PATH, then each fallback in order.
func Locate(command string, fallbacks []string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("command not configured")
	}
	if resolved, err := exec.LookPath(command); err == nil {
		return resolved, nil
	}
	for _, candidate := range fallbacks {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			return candidate, nil
		}
	}
	if len(fallbacks) == 0 {
		return "", fmt.Errorf("binary %q not found", command)
	}
	return "", fmt.Errorf("binary %q not found on PATH or in %s", command, strings.Join(fallbacks, ", "))
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
