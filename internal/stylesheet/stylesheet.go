// Package stylesheet writes the fonts.css file that declares one @font-face
// record per converted variant, and parses such files back.
package stylesheet

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gfontapi/internal/services"
	"gfontapi/internal/style"
)

// FileName is the stylesheet written into each font directory.
const FileName = "fonts.css"

// Record orders.
const (
	OrderCompletion = "completion"
	OrderWeight     = "weight"
)

type options struct {
	order string
	open  openFunc
}

type recordFile interface {
	io.StringWriter
	io.Closer
}

type openFunc func(name string, flag int, perm os.FileMode) (recordFile, error)

func openRecordFile(name string, flag int, perm os.FileMode) (recordFile, error) {
	file, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Option configures Write.
type Option func(*options)

// WithOrder selects the record order. Unknown values keep completion order.
func WithOrder(order string) Option {
	return func(o *options) {
		o.order = strings.ToLower(strings.TrimSpace(order))
	}
}

// Write emits one @font-face record per tag into dir/fonts.css and returns
// the file path. The first record truncates the file and later records are
// appended. A failing record does not stop the remaining ones; all failures
// are returned together. With no tags an empty file is still created.
func Write(tags []style.Tag, dir, slug string, opts ...Option) (string, error) {
	settings := options{order: OrderCompletion, open: openRecordFile}
	for _, opt := range opts {
		opt(&settings)
	}
	path := filepath.Join(dir, FileName)
	ordered := Sort(tags, settings.order)
	display := DisplayName(dir)

	if len(ordered) == 0 {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return path, services.Wrap(services.ErrFilesystem, "stylesheet", "write", "create "+FileName, err)
		}
		if err := file.Close(); err != nil {
			return path, services.Wrap(services.ErrFilesystem, "stylesheet", "write", "close "+FileName, err)
		}
		return path, nil
	}

	var errs error
	for i, tag := range ordered {
		flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
		if i == 0 {
			flags |= os.O_TRUNC
		}
		if err := appendRecord(settings.open, path, flags, FontFace(display, dir, slug, tag)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %s: %w", tag, err))
		}
	}
	if errs != nil {
		return path, services.Wrap(services.ErrFilesystem, "stylesheet", "write", path, errs)
	}
	return path, nil
}

func appendRecord(open openFunc, path string, flags int, record string) (err error) {
	file, err := open(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, file.Close())
	}()
	_, err = file.WriteString(record)
	return err
}

// FontFace renders the record for tag, followed by a blank line.
func FontFace(display, dir, slug string, tag style.Tag) string {
	src := filepath.ToSlash(filepath.Join(dir, fmt.Sprintf("%s-%s.woff2", slug, tag)))
	return fmt.Sprintf("@font-face {\n\tfont-family: %q;\n\tsrc: url(%q);\n\tfont-style: %s;\n\tfont-weight: %s;\n}\n\n",
		display, src, tag.Slant, tag.CSSWeight())
}

// DisplayName derives the CSS family name from the leaf of dir: each
// hyphen-separated segment is title-cased and the segments are joined with
// spaces ("example-sans" becomes "Example Sans").
func DisplayName(dir string) string {
	leaf := filepath.Base(filepath.Clean(dir))
	caser := cases.Title(language.Und)
	parts := make([]string, 0, 4)
	for _, segment := range strings.Split(leaf, "-") {
		if segment == "" {
			continue
		}
		parts = append(parts, caser.String(segment))
	}
	return strings.Join(parts, " ")
}

// Sort returns tags in the requested order without modifying the input.
// Weight order sorts ascending by weight with normal before italic.
func Sort(tags []style.Tag, order string) []style.Tag {
	out := append([]style.Tag(nil), tags...)
	if order != OrderWeight {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight < out[j].Weight
		}
		return !out[i].Italic() && out[j].Italic()
	})
	return out
}

// Record is one parsed @font-face block.
type Record struct {
	Family string
	Src    string
	Style  string
	Weight string
}

var (
	blockPattern  = regexp.MustCompile(`@font-face\s*\{([^}]*)\}`)
	familyPattern = regexp.MustCompile(`font-family:\s*"([^"]*)"\s*;`)
	srcPattern    = regexp.MustCompile(`src:\s*url\("([^"]*)"\)\s*;`)
	stylePattern  = regexp.MustCompile(`font-style:\s*([a-z]+)\s*;`)
	weightPattern = regexp.MustCompile(`font-weight:\s*([0-9]+)\s*;`)
)

// Records parses the @font-face blocks of css in file order.
func Records(css string) []Record {
	var out []Record
	for _, block := range blockPattern.FindAllStringSubmatch(css, -1) {
		body := block[1]
		out = append(out, Record{
			Family: firstGroup(familyPattern, body),
			Src:    firstGroup(srcPattern, body),
			Style:  firstGroup(stylePattern, body),
			Weight: firstGroup(weightPattern, body),
		})
	}
	return out
}

func firstGroup(pattern *regexp.Regexp, body string) string {
	match := pattern.FindStringSubmatch(body)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
