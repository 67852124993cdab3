package fontrun

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"gfontapi/internal/catalog"
	"gfontapi/internal/config"
	"gfontapi/internal/convert"
	"gfontapi/internal/logging"
	"gfontapi/internal/pipeline"
	"gfontapi/internal/runlock"
	"gfontapi/internal/services"
	"gfontapi/internal/stylesheet"
)

// Options overrides run collaborators. Zero values select production
// implementations built from the config.
type Options struct {
	// Out receives console progress lines and the live reporter.
	Out io.Writer
	// Color enables ANSI colors on console lines.
	Color bool

	Fetcher    catalog.Fetcher
	Converter  convert.Converter
	Downloader pipeline.Downloader
	Reporter   pipeline.Reporter
	HTTPClient *http.Client
}

// Summary describes a finished run.
type Summary struct {
	RunID          string
	Family         *catalog.Family
	Slug           string
	FontDir        string
	StylesheetPath string
	// StylesheetErr holds record write failures. They are reported but do
	// not fail the run.
	StylesheetErr error
	Result        *pipeline.Result
}

// Succeeded returns the number of converted variants.
func (s *Summary) Succeeded() int {
	if s == nil || s.Result == nil {
		return 0
	}
	return len(s.Result.Tags)
}

// Slug converts a catalog family name to the directory and file prefix used
// for its outputs ("Example Sans" becomes "example-sans").
func Slug(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// Run downloads family into cfg.Paths.OutputDir/<slug>. Configuration,
// catalog, and directory failures are returned; per-variant failures are
// logged and reflected in the summary.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, family string, opts Options) (*Summary, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "fontrun", "run", "config is required", nil)
	}
	family = strings.TrimSpace(family)
	if family == "" {
		return nil, services.Wrap(services.ErrValidation, "fontrun", "run", "font family name required", nil)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithFamily(ctx, family)
	base := logger
	logger = logging.WithContext(ctx, logging.NewComponentLogger(base, "fontrun"))
	out := newConsole(opts.Out, opts.Color)

	converter := opts.Converter
	if converter == nil {
		client, err := convert.Locate(cfg.Converter.Binary, cfg.Converter.SearchPaths, cfg.Converter.TimeoutSeconds,
			convert.WithLogger(logging.WithContext(ctx, logging.NewComponentLogger(base, "convert"))))
		if err != nil {
			return nil, err
		}
		logger.Debug("woff2_compress resolved", logging.String("binary", client.Binary()))
		converter = client
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		catalogOpts := []catalog.Option{catalog.WithTimeout(cfg.CatalogTimeout())}
		if opts.HTTPClient != nil {
			catalogOpts = append(catalogOpts, catalog.WithHTTPClient(opts.HTTPClient))
		}
		client, err := catalog.New(cfg.Catalog.APIKey, cfg.Catalog.BaseURL, catalogOpts...)
		if err != nil {
			return nil, err
		}
		fetcher = client
	}

	record, err := fetcher.Fetch(ctx, family)
	if err != nil {
		return nil, err
	}
	familySlug := Slug(record.Name)
	if familySlug == "" {
		return nil, services.Wrap(services.ErrCatalog, "fontrun", "run", fmt.Sprintf("family %q has no usable name", record.Name), nil)
	}
	fontDir := filepath.Join(cfg.Paths.OutputDir, familySlug)
	logger.Info("catalog family resolved",
		logging.String("catalog_family", record.Name),
		logging.String("category", record.Category),
		logging.Int("variants", len(record.Files)),
		logging.String("font_dir", fontDir),
	)

	lock, err := runlock.Acquire(fontDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("run lock acquired", logging.String("lock", lock.Path()))
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	downloader := opts.Downloader
	if downloader == nil {
		downloader = pipeline.NewHTTPDownloader(opts.HTTPClient, cfg.DownloadTimeout())
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = pipeline.NewReporter(opts.Out)
	}

	out.creating(fontDir)
	runner := pipeline.New(downloader, converter,
		pipeline.WithLogger(base),
		pipeline.WithReporter(reporter),
	)
	result, err := runner.Run(ctx, record, familySlug, fontDir)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:   runID,
		Family:  record,
		Slug:    familySlug,
		FontDir: fontDir,
		Result:  result,
	}

	out.writing(familySlug)
	path, cssErr := stylesheet.Write(result.Tags, fontDir, familySlug, stylesheet.WithOrder(cfg.Stylesheet.Order))
	summary.StylesheetPath = path
	if cssErr != nil {
		summary.StylesheetErr = cssErr
		logging.ErrorWithContext(logger, "failed to write fonts file", "stylesheet_failed",
			logging.Error(cssErr),
			logging.String(logging.FieldErrorKind, services.Category(cssErr)),
			logging.String("path", path),
			logging.String(logging.FieldErrorHint, "check that the font directory is writable"),
			logging.String(logging.FieldImpact, "fonts.css is missing or incomplete"),
		)
	} else {
		out.finished(path)
	}

	for _, tag := range stylesheet.Sort(result.Tags, cfg.Stylesheet.Order) {
		out.converted(familySlug, tag.String())
	}

	logger.Info("font run finished",
		logging.Int("converted", len(result.Tags)),
		logging.Int("total", result.Total),
		logging.Duration("elapsed", result.Elapsed),
		logging.Bool("stylesheet_complete", cssErr == nil),
	)
	return summary, nil
}
