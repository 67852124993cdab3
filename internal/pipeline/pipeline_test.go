package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"gfontapi/internal/catalog"
	"gfontapi/internal/pipeline"
	"gfontapi/internal/services"
	"gfontapi/internal/style"
	"gfontapi/internal/testsupport"
)

type recordingReporter struct {
	mu        sync.Mutex
	started   int
	events    []pipeline.Event
	transfers map[string]pipeline.Transfer
	regressed bool
	succeeded int
	finished  bool
}

func (r *recordingReporter) Start(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = total
}

func (r *recordingReporter) Downloading(update pipeline.Transfer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transfers == nil {
		r.transfers = make(map[string]pipeline.Transfer)
	}
	if prev, ok := r.transfers[update.Label]; ok && update.Written < prev.Written {
		r.regressed = true
	}
	r.transfers[update.Label] = update
}

func (r *recordingReporter) Completed(event pipeline.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingReporter) Finish(succeeded, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded = succeeded
	r.finished = true
}

func tagNames(tags []style.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.String())
	}
	sort.Strings(names)
	return names
}

func newHost(t *testing.T) *testsupport.FontHost {
	return testsupport.NewFontHost(t, map[string][]byte{
		"/regular.ttf":   testsupport.FontBytes(),
		"/bold.ttf":      testsupport.FontBytes(),
		"/italic.ttf":    testsupport.FontBytes(),
		"/not-font.html": []byte("<!doctype html><html><body>nope</body></html>"),
	})
}

func runPipeline(t *testing.T, family *catalog.Family, converter *testsupport.StubConverter, opts ...pipeline.Option) (*pipeline.Result, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "example-sans")
	p := pipeline.New(pipeline.NewHTTPDownloader(nil, 10*time.Second), converter, opts...)
	result, err := p.Run(context.Background(), family, "example-sans", dir)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return result, dir
}

func TestRunConvertsEveryVariant(t *testing.T) {
	host := newHost(t)
	family := &catalog.Family{
		Name: "Example Sans",
		Files: map[string]string{
			"regular":   host.URL("/regular.ttf"),
			"700italic": host.URL("/bold.ttf"),
		},
	}
	converter := &testsupport.StubConverter{}
	reporter := &recordingReporter{}

	result, dir := runPipeline(t, family, converter, pipeline.WithReporter(reporter))

	if result.Total != 2 || result.Completed != 2 {
		t.Fatalf("expected 2/2 completions, got %d/%d", result.Completed, result.Total)
	}
	if diff := cmp.Diff([]string{"bold-italic", "regular"}, tagNames(result.Tags)); diff != "" {
		t.Fatalf("unexpected tags (-want +got):\n%s", diff)
	}
	for _, name := range []string{"example-sans-regular.woff2", "example-sans-bold-italic.woff2"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	for _, name := range []string{"example-sans-regular.ttf", "example-sans-bold-italic.ttf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected intermediate %s to be removed, got %v", name, err)
		}
	}
	if len(converter.Calls()) != 2 {
		t.Fatalf("expected 2 conversions, got %v", converter.Calls())
	}
	for _, unit := range result.Units {
		if unit.Outcome != pipeline.OutcomeConverted {
			t.Fatalf("unit %s outcome %s", unit.Key, unit.Outcome)
		}
		if unit.Bytes != int64(len(testsupport.FontBytes())) {
			t.Fatalf("unit %s bytes %d", unit.Key, unit.Bytes)
		}
	}
	if result.Bytes() != 2*int64(len(testsupport.FontBytes())) {
		t.Fatalf("unexpected total bytes %d", result.Bytes())
	}

	if reporter.started != 2 || !reporter.finished || reporter.succeeded != 2 {
		t.Fatalf("unexpected reporter state: %+v", reporter)
	}
	if len(reporter.events) != 2 {
		t.Fatalf("unexpected reporter events: %+v", reporter.events)
	}
	counts := []int{reporter.events[0].Completed, reporter.events[1].Completed}
	sort.Ints(counts)
	if diff := cmp.Diff([]int{1, 2}, counts); diff != "" {
		t.Fatalf("unexpected completion counts (-want +got):\n%s", diff)
	}
}

func TestRunDownloadFailureOmitsVariant(t *testing.T) {
	host := newHost(t)
	family := &catalog.Family{
		Name: "Example Sans",
		Files: map[string]string{
			"regular":   host.URL("/regular.ttf"),
			"700italic": host.URL("/missing.ttf"),
		},
	}
	result, dir := runPipeline(t, family, &testsupport.StubConverter{})

	if result.Completed != 2 {
		t.Fatalf("expected completed to reach 2, got %d", result.Completed)
	}
	if diff := cmp.Diff([]string{"regular"}, tagNames(result.Tags)); diff != "" {
		t.Fatalf("unexpected tags (-want +got):\n%s", diff)
	}
	failed := result.Failed()
	if len(failed) != 1 || failed[0].Key != "700italic" || failed[0].Err == nil {
		t.Fatalf("unexpected failed units: %+v", failed)
	}
	if _, err := os.Stat(filepath.Join(dir, "example-sans-bold-italic.woff2")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("failed variant should have no woff2, got %v", err)
	}
}

func TestRunRejectsNonFontPayload(t *testing.T) {
	host := newHost(t)
	family := &catalog.Family{
		Name:  "Example Sans",
		Files: map[string]string{"regular": host.URL("/not-font.html")},
	}
	converter := &testsupport.StubConverter{}
	result, dir := runPipeline(t, family, converter)

	if len(result.Tags) != 0 {
		t.Fatalf("expected no tags, got %v", result.Tags)
	}
	if !errors.Is(result.Units[0].Err, pipeline.ErrNotFont) {
		t.Fatalf("expected ErrNotFont, got %v", result.Units[0].Err)
	}
	if len(converter.Calls()) != 0 {
		t.Fatal("converter should not run for a rejected payload")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty directory, found %d entries", len(entries))
	}
}

func TestRunConversionFailureOmitsVariant(t *testing.T) {
	host := newHost(t)
	family := &catalog.Family{
		Name: "Example Sans",
		Files: map[string]string{
			"regular": host.URL("/regular.ttf"),
			"700":     host.URL("/bold.ttf"),
			"italic":  host.URL("/italic.ttf"),
		},
	}
	result, _ := runPipeline(t, family, &testsupport.StubConverter{FailOn: []string{"-bold"}})

	if result.Completed != 3 {
		t.Fatalf("expected 3 completions, got %d", result.Completed)
	}
	if diff := cmp.Diff([]string{"regular", "regular-italic"}, tagNames(result.Tags)); diff != "" {
		t.Fatalf("unexpected tags (-want +got):\n%s", diff)
	}
	for _, unit := range result.Failed() {
		if !strings.Contains(unit.Err.Error(), "stub conversion failure") {
			t.Fatalf("unexpected failure cause: %v", unit.Err)
		}
	}
}

func TestRunSkipsUnknownVariantToken(t *testing.T) {
	host := newHost(t)
	family := &catalog.Family{
		Name: "Example Sans",
		Files: map[string]string{
			"regular": host.URL("/regular.ttf"),
			"999":     host.URL("/bold.ttf"),
		},
	}
	var logs bytes.Buffer
	logger := testLogger(&logs)
	result, _ := runPipeline(t, family, &testsupport.StubConverter{}, pipeline.WithLogger(logger))

	if result.Completed != 2 || result.Total != 2 {
		t.Fatalf("expected 2/2 completions, got %d/%d", result.Completed, result.Total)
	}
	if diff := cmp.Diff([]string{"regular"}, tagNames(result.Tags)); diff != "" {
		t.Fatalf("unexpected tags (-want +got):\n%s", diff)
	}
	if host.Requests("/bold.ttf") != 0 {
		t.Fatal("unknown variant must not be downloaded")
	}
	var unknown *pipeline.Unit
	for i := range result.Units {
		if result.Units[i].Key == "999" {
			unknown = &result.Units[i]
		}
	}
	if unknown == nil || unknown.Outcome != pipeline.OutcomeFailed || !errors.Is(unknown.Err, style.ErrUnknownVariant) {
		t.Fatalf("unexpected unit for unknown token: %+v", unknown)
	}
	if !strings.Contains(logs.String(), "variant_unknown") || !strings.Contains(logs.String(), "variant=999") {
		t.Fatalf("expected warning naming the variant, got:\n%s", logs.String())
	}
}

func TestRunManyVariantsCountsEveryCompletion(t *testing.T) {
	host := newHost(t)
	files := make(map[string]string)
	for i, token := range style.Tokens() {
		path := "/regular.ttf"
		if i%3 == 0 {
			path = "/missing.ttf"
		}
		files[token] = host.URL(path)
	}
	files["1000"] = host.URL("/regular.ttf")
	family := &catalog.Family{Name: "Example Sans", Files: files}

	result, _ := runPipeline(t, family, &testsupport.StubConverter{FailOn: []string{"-black"}})

	if result.Completed != len(files) {
		t.Fatalf("expected %d completions, got %d", len(files), result.Completed)
	}
	seen := make(map[string]struct{})
	for _, tag := range result.Tags {
		if _, dup := seen[tag.String()]; dup {
			t.Fatalf("duplicate tag %s", tag)
		}
		seen[tag.String()] = struct{}{}
	}
	converted := 0
	for _, unit := range result.Units {
		if unit.Succeeded() {
			converted++
			if _, ok := seen[unit.Tag.String()]; !ok {
				t.Fatalf("converted unit %s missing from tags", unit.Key)
			}
		} else if _, ok := seen[unit.Tag.String()]; ok && unit.Tag.Name != "" {
			t.Fatalf("failed unit %s present in tags", unit.Key)
		}
	}
	if converted != len(result.Tags) {
		t.Fatalf("tags %d do not match converted units %d", len(result.Tags), converted)
	}
}

func TestRunEmptyFamilyCreatesDirectory(t *testing.T) {
	result, dir := runPipeline(t, &catalog.Family{Name: "Example Sans"}, &testsupport.StubConverter{})
	if result.Total != 0 || result.Completed != 0 || len(result.Tags) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist: %v", err)
	}
}

func TestRunDirectoryCreationFailureIsFatal(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	p := pipeline.New(pipeline.NewHTTPDownloader(nil, time.Second), &testsupport.StubConverter{})
	_, err := p.Run(context.Background(), &catalog.Family{Files: map[string]string{"regular": "http://127.0.0.1:1/a.ttf"}}, "x", filepath.Join(blocker, "fonts"))
	if !errors.Is(err, services.ErrFilesystem) {
		t.Fatalf("expected filesystem error, got %v", err)
	}
}

func TestRunRejectsNilFamily(t *testing.T) {
	p := pipeline.New(pipeline.NewHTTPDownloader(nil, time.Second), &testsupport.StubConverter{})
	if _, err := p.Run(context.Background(), nil, "x", t.TempDir()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunReportsFinalDownloadBytesPerVariant(t *testing.T) {
	host := newHost(t)
	family := &catalog.Family{
		Name: "Example Sans",
		Files: map[string]string{
			"regular":   host.URL("/regular.ttf"),
			"700italic": host.URL("/bold.ttf"),
			"500":       host.URL("/missing.ttf"),
		},
	}
	reporter := &recordingReporter{}
	runPipeline(t, family, &testsupport.StubConverter{}, pipeline.WithReporter(reporter))

	size := int64(len(testsupport.FontBytes()))
	for _, label := range []string{"example-sans==regular", "example-sans==bold-italic"} {
		got, ok := reporter.transfers[label]
		if !ok {
			t.Fatalf("no transfer reported for %s (have %v)", label, reporter.transfers)
		}
		if got.Written != size {
			t.Fatalf("%s: expected final count %d, got %d", label, size, got.Written)
		}
	}
	if reporter.regressed {
		t.Fatal("byte counts must never go backwards")
	}
	if _, ok := reporter.transfers["example-sans==medium"]; ok {
		t.Fatal("a 404 download must not report bytes")
	}
}
