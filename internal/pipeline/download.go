package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/h2non/filetype"

	"gfontapi/internal/services"
)

// sniffLen is the number of leading bytes inspected to identify the payload.
const sniffLen = 262

// ErrNotFont marks a download whose payload is not a recognised font format.
var ErrNotFont = errors.New("payload is not a font")

// ProgressFunc receives cumulative bytes written and the expected total
// (<= 0 when unknown).
type ProgressFunc func(written, total int64)

// Downloader fetches a single file to dest and returns the byte count.
type Downloader interface {
	Download(ctx context.Context, url, dest string, onProgress ProgressFunc) (int64, error)
}

// HTTPDownloader streams font files over HTTP.
type HTTPDownloader struct {
	client *http.Client
}

// NewHTTPDownloader builds a downloader with the given per-request timeout.
// A nil client falls back to one using timeout.
func NewHTTPDownloader(client *http.Client, timeout time.Duration) *HTTPDownloader {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPDownloader{client: client}
}

// Download streams url into dest. Non-200 responses and payloads that do not
// sniff as a font are errors; a partially written dest is removed on failure.
func (d *HTTPDownloader) Download(ctx context.Context, url, dest string, onProgress ProgressFunc) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "pipeline", "download", "build request", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, services.Wrap(services.ErrTransient, "pipeline", "download", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, services.Wrap(services.ErrTransient, "pipeline", "download",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body := bufio.NewReaderSize(resp.Body, 32*1024)
	head, err := body.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, services.Wrap(services.ErrTransient, "pipeline", "download", "read body", err)
	}
	if err := checkFont(head); err != nil {
		return 0, services.Wrap(services.ErrValidation, "pipeline", "download", url, err)
	}

	file, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, services.Wrap(services.ErrFilesystem, "pipeline", "download", "create file", err)
	}
	counter := &countingWriter{total: resp.ContentLength, onProgress: onProgress}
	written, copyErr := io.Copy(io.MultiWriter(file, counter), body)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(dest)
		if copyErr != nil {
			return written, services.Wrap(services.ErrTransient, "pipeline", "download", "stream body", copyErr)
		}
		return written, services.Wrap(services.ErrFilesystem, "pipeline", "download", "close file", closeErr)
	}
	return written, nil
}

func checkFont(head []byte) error {
	if len(head) == 0 {
		return fmt.Errorf("%w: empty body", ErrNotFont)
	}
	if filetype.IsFont(head) {
		return nil
	}
	kind, _ := filetype.Match(head)
	if kind == filetype.Unknown {
		return fmt.Errorf("%w: unrecognised content", ErrNotFont)
	}
	return fmt.Errorf("%w: detected %s", ErrNotFont, kind.MIME.Value)
}

type countingWriter struct {
	written    int64
	total      int64
	onProgress ProgressFunc
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.onProgress != nil {
		w.onProgress(w.written, w.total)
	}
	return len(p), nil
}
