package convert

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gfontapi/internal/deps"
	"gfontapi/internal/logging"
	"gfontapi/internal/services"
)

// Converter produces a WOFF2 file from a source font and returns its path.
// Convert must not return before the output is complete.
type Converter interface {
	Convert(ctx context.Context, sourcePath string) (string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onOutput func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger routes tool output to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps woff2_compress invocations.
type Client struct {
	binary  string
	timeout time.Duration
	exec    Executor
	logger  *slog.Logger
}

var _ Converter = (*Client)(nil)

// New constructs a client for binary. A non-positive timeout disables the
// per-invocation deadline.
func New(binary string, timeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("woff2_compress binary required")
	}
	client := &Client{
		binary:  binary,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		exec:    commandExecutor{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Locate resolves binary through PATH and searchPaths before constructing the
// client.
func Locate(binary string, searchPaths []string, timeoutSeconds int, opts ...Option) (*Client, error) {
	resolved, err := deps.Locate(binary, searchPaths)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "convert", "locate", "woff2_compress unavailable", err)
	}
	return New(resolved, timeoutSeconds, opts...)
}

// Binary returns the executable the client runs.
func (c *Client) Binary() string {
	return c.binary
}

// OutputPath returns the file woff2_compress writes for sourcePath.
func OutputPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + ".woff2"
}

// Convert runs woff2_compress on sourcePath and waits for it to exit.
func (c *Client) Convert(ctx context.Context, sourcePath string) (string, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return "", services.Wrap(services.ErrValidation, "convert", "woff2", "source path required", nil)
	}
	if _, err := os.Stat(sourcePath); err != nil {
		return "", services.Wrap(services.ErrFilesystem, "convert", "woff2", "stat source", err)
	}

	runCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	name := filepath.Base(sourcePath)
	started := time.Now()
	err := c.exec.Run(runCtx, c.binary, []string{sourcePath}, func(line string) {
		if line = strings.TrimSpace(line); line != "" {
			c.logger.Debug("woff2_compress output", logging.String("file", name), logging.String("line", line))
		}
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "convert", "woff2", fmt.Sprintf("convert %s", name), err)
	}

	output := OutputPath(sourcePath)
	info, err := os.Stat(output)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "convert", "woff2", fmt.Sprintf("%s produced no output", name), err)
	}
	if info.Size() == 0 {
		return "", services.Wrap(services.ErrExternalTool, "convert", "woff2", fmt.Sprintf("%s produced an empty file", name), nil)
	}
	c.logger.Debug("woff2 conversion finished",
		logging.String("file", name),
		logging.Int64("bytes", info.Size()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return output, nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onOutput func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var (
		wg      sync.WaitGroup
		once    sync.Once
		scanErr error
		tail    lastLine
	)
	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			line := scanner.Text()
			tail.set(line)
			if onOutput != nil {
				onOutput(line)
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}
	if err := cmd.Wait(); err != nil {
		if last := tail.get(); last != "" {
			return fmt.Errorf("wait command: %w (%s)", err, last)
		}
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

type lastLine struct {
	mu   sync.Mutex
	line string
}

func (l *lastLine) set(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	l.mu.Lock()
	l.line = strings.TrimSpace(line)
	l.mu.Unlock()
}

func (l *lastLine) get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.line
}
