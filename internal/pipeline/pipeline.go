package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gfontapi/internal/catalog"
	"gfontapi/internal/convert"
	"gfontapi/internal/fontinfo"
	"gfontapi/internal/logging"
	"gfontapi/internal/services"
	"gfontapi/internal/style"
)

const defaultRawExt = "ttf"

// Inspector reads style metadata from a downloaded font.
type Inspector func(path string) (*fontinfo.Info, error)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-variant diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithReporter sets the completion observer.
func WithReporter(reporter Reporter) Option {
	return func(p *Pipeline) {
		if reporter != nil {
			p.reporter = reporter
		}
	}
}

// WithInspector replaces the font inspector. A nil inspector disables
// inspection.
func WithInspector(inspect Inspector) Option {
	return func(p *Pipeline) {
		p.inspect = inspect
	}
}

// Pipeline runs the download-convert fan-out for one family.
type Pipeline struct {
	downloader Downloader
	converter  convert.Converter
	logger     *slog.Logger
	reporter   Reporter
	inspect    Inspector
}

// New constructs a pipeline around the supplied downloader and converter.
func New(downloader Downloader, converter convert.Converter, opts ...Option) *Pipeline {
	p := &Pipeline{
		downloader: downloader,
		converter:  converter,
		logger:     logging.NewNop(),
		reporter:   NopReporter{},
		inspect:    fontinfo.InspectFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// Result is the outcome of a run, read once after every task has finished.
type Result struct {
	// Tags lists successfully converted variants in completion order.
	Tags      []style.Tag
	Units     []Unit
	Total     int
	Completed int
	Elapsed   time.Duration
}

// Failed returns the units that did not produce a WOFF2 file.
func (r *Result) Failed() []Unit {
	var out []Unit
	for _, unit := range r.Units {
		if !unit.Succeeded() {
			out = append(out, unit)
		}
	}
	return out
}

// Bytes returns the total downloaded bytes across units.
func (r *Result) Bytes() int64 {
	var total int64
	for _, unit := range r.Units {
		total += unit.Bytes
	}
	return total
}

// Run downloads and converts every variant of family into outputDir. The only
// errors returned are setup failures; per-variant problems are reported in
// the Result.
func (p *Pipeline) Run(ctx context.Context, family *catalog.Family, slug, outputDir string) (*Result, error) {
	if family == nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "run", "family required", nil)
	}
	if p.downloader == nil || p.converter == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "run", "downloader and converter required", nil)
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "run", "family slug required", nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "pipeline", "run", "create font directory", err)
	}

	keys := family.VariantKeys()
	total := len(keys)
	progress := NewProgress(total)
	units := make([]Unit, total)

	slots := make([]transferSlot, total)
	transfers := make(chan *transferSlot, total)
	events := make(chan Event, total)
	reporterDone := make(chan struct{})
	p.reporter.Start(total)
	go func() {
		defer close(reporterDone)
		for {
			select {
			case slot := <-transfers:
				p.reporter.Downloading(slot.take())
			case event, ok := <-events:
				if !ok {
					drainTransfers(transfers, p.reporter)
					return
				}
				p.reporter.Completed(event)
			}
		}
	}()

	started := time.Now()
	var wg sync.WaitGroup
	for i, key := range keys {
		unit := &units[i]
		unit.Key = key
		unit.SourceURL = family.Files[key]
		unit.Outcome = OutcomePending
		variantCtx := services.WithVariant(ctx, key)

		tag, err := style.Resolve(key)
		if err != nil {
			unit.fail(err)
			logging.WarnWithContext(logging.WithContext(variantCtx, p.logger), "skipping unrecognised variant", "variant_unknown",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the catalog returned a variant token outside the supported weight table"),
				logging.String(logging.FieldImpact, "variant omitted from fonts.css"),
			)
			completed := progress.Record(tag, false)
			events <- Event{Tag: tag, OK: false, Completed: completed, Total: total}
			continue
		}
		unit.Tag = tag
		unit.IntermediatePath = filepath.Join(outputDir, fmt.Sprintf("%s-%s.%s", slug, tag, rawExt(unit.SourceURL)))
		unit.FinalPath = filepath.Join(outputDir, fmt.Sprintf("%s-%s.woff2", slug, tag))
		slot := &slots[i]
		slot.tag = tag
		slot.label = slug + "==" + tag.String()

		wg.Add(1)
		go func() {
			defer wg.Done()
			ok := p.process(variantCtx, unit, func(written, size int64) {
				slot.store(written, size, transfers)
			})
			completed := progress.Record(unit.Tag, ok)
			events <- Event{Tag: unit.Tag, OK: ok, Completed: completed, Total: total}
		}()
	}

	wg.Wait()
	close(events)
	<-reporterDone

	elapsed := time.Since(started)
	tags := progress.Succeeded()
	p.reporter.Finish(len(tags), total, elapsed)

	return &Result{
		Tags:      tags,
		Units:     units,
		Total:     progress.Total(),
		Completed: progress.Completed(),
		Elapsed:   elapsed,
	}, nil
}

func (p *Pipeline) process(ctx context.Context, unit *Unit, onBytes ProgressFunc) bool {
	logger := logging.WithContext(ctx, p.logger).With(logging.String(logging.FieldStyle, unit.Tag.String()))

	sampler := logging.NewProgressSampler(25)
	written, err := p.downloader.Download(ctx, unit.SourceURL, unit.IntermediatePath, func(written, total int64) {
		onBytes(written, total)
		if sampler.ShouldLog(written, total) {
			logger.Debug("download progress", logging.Int64("bytes", written), logging.Int64("total", total))
		}
	})
	if err != nil {
		unit.fail(err)
		hint := "check network access to the catalog file host"
		if errors.Is(err, ErrNotFont) {
			hint = "the download URL did not return a font file"
		}
		logging.WarnWithContext(logger, "variant download failed", "download_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Category(err)),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "variant omitted from fonts.css"),
		)
		return false
	}
	unit.Bytes = written
	if err := unit.advance(OutcomeDownloaded); err != nil {
		unit.fail(err)
		return false
	}

	if unit.IntermediatePath == unit.FinalPath {
		logger.Debug("source already woff2; skipping conversion")
		return unit.advance(OutcomeConverted) == nil
	}

	p.inspectFont(logger, unit)

	output, err := p.converter.Convert(ctx, unit.IntermediatePath)
	if err != nil {
		unit.fail(err)
		logging.WarnWithContext(logger, "variant conversion failed", "conversion_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Category(err)),
			logging.String(logging.FieldErrorHint, "run woff2_compress manually on the downloaded file to see the tool output"),
			logging.String(logging.FieldImpact, "variant omitted from fonts.css"),
			logging.String("source", unit.IntermediatePath),
		)
		return false
	}
	if output != "" {
		unit.FinalPath = output
	}
	if err := os.Remove(unit.IntermediatePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to remove intermediate download", logging.Error(err), logging.String("path", unit.IntermediatePath))
	}
	if err := unit.advance(OutcomeConverted); err != nil {
		unit.fail(err)
		return false
	}
	logger.Debug("variant converted", logging.String("path", unit.FinalPath), logging.Int64("bytes", unit.Bytes))
	return true
}

func (p *Pipeline) inspectFont(logger *slog.Logger, unit *Unit) {
	if p.inspect == nil {
		return
	}
	info, err := p.inspect(unit.IntermediatePath)
	if err != nil {
		logger.Debug("font inspection skipped", logging.Error(err))
		return
	}
	mismatches := info.Mismatches(unit.Tag)
	if len(mismatches) == 0 {
		logger.Debug("font metadata matches variant", logging.String("font_family", info.Family), logging.Int("weight", int(info.Weight)))
		return
	}
	logging.WarnWithContext(logger, "font metadata differs from catalog variant", "font_metadata_mismatch",
		logging.String("font_family", info.Family),
		logging.String("mismatch", strings.Join(mismatches, "; ")),
		logging.String(logging.FieldErrorHint, "the catalog may label this file differently from its OS/2 table"),
		logging.String(logging.FieldImpact, "none; the file is still converted"),
	)
}

func drainTransfers(transfers <-chan *transferSlot, reporter Reporter) {
	for {
		select {
		case slot := <-transfers:
			reporter.Downloading(slot.take())
		default:
			return
		}
	}
}

// rawExt returns the lower-cased extension of the URL path, or ttf when the
// URL carries none.
func rawExt(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return defaultRawExt
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), "."))
	if ext == "" {
		return defaultRawExt
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return defaultRawExt
		}
	}
	return ext
}
