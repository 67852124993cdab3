package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"gfontapi/internal/style"
)

// Event describes one task completion.
type Event struct {
	Tag       style.Tag
	OK        bool
	Completed int
	Total     int
}

// Transfer is the latest byte count of one variant download. Total is -1
// when the server sent no length.
type Transfer struct {
	Tag     style.Tag
	Label   string
	Written int64
	Total   int64
}

// Reporter observes a run. Run calls every method from a single goroutine.
// Transfer updates are coalesced, so a reporter sees the newest count for a
// variant but not necessarily every intermediate one.
type Reporter interface {
	Start(total int)
	Downloading(update Transfer)
	Completed(event Event)
	Finish(succeeded, total int, elapsed time.Duration)
}

// NewReporter returns live progress bars when w is a terminal and a
// line-oriented reporter otherwise. A nil writer yields a no-op reporter.
func NewReporter(w io.Writer) Reporter {
	if w == nil {
		return NopReporter{}
	}
	if file, ok := w.(*os.File); ok && isTerminal(file.Fd()) {
		return newBarReporter(w)
	}
	return NewLineReporter(w)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NopReporter discards all events.
type NopReporter struct{}

func (NopReporter) Start(int) {}

func (NopReporter) Downloading(Transfer) {}

func (NopReporter) Completed(Event) {}

func (NopReporter) Finish(int, int, time.Duration) {}

// LineReporter writes one line per completion. Byte progress is not printed.
type LineReporter struct {
	out io.Writer
}

// NewLineReporter writes progress lines to w.
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{out: w}
}

func (r *LineReporter) Start(int) {}

func (r *LineReporter) Downloading(Transfer) {}

func (r *LineReporter) Completed(event Event) {
	fmt.Fprintf(r.out, "Converting fonts... (%d/%d)\n", event.Completed, event.Total)
}

func (r *LineReporter) Finish(succeeded, _ int, elapsed time.Duration) {
	fmt.Fprintln(r.out, completionMessage(succeeded, elapsed))
}

const redrawInterval = 50 * time.Millisecond

// barReporter draws an overall completion bar followed by one byte bar per
// variant, redrawing the block in place. The bars render into io.Discard;
// only their String form reaches out.
type barReporter struct {
	out     io.Writer
	overall *progressbar.ProgressBar
	bars    map[string]*progressbar.ProgressBar
	order   []string
	drawn   int
	drawAt  time.Time
	now     func() time.Time
}

func newBarReporter(w io.Writer) *barReporter {
	return &barReporter{out: w, bars: make(map[string]*progressbar.ProgressBar), now: time.Now}
}

func (r *barReporter) Start(total int) {
	r.overall = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(io.Discard),
		progressbar.OptionSetDescription("Converting fonts..."),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetRenderBlankState(true),
	)
	r.redraw()
}

func (r *barReporter) Downloading(update Transfer) {
	bar, ok := r.bars[update.Label]
	if !ok {
		size := update.Total
		if size <= 0 {
			size = -1
		}
		bar = progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(io.Discard),
			progressbar.OptionSetDescription(update.Label),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(20),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetSpinnerChangeInterval(0),
		)
		r.bars[update.Label] = bar
		r.order = append(r.order, update.Label)
	}
	_ = bar.Set64(update.Written)
	if update.Written == update.Total || r.now().Sub(r.drawAt) >= redrawInterval {
		r.redraw()
	}
}

func (r *barReporter) Completed(event Event) {
	if r.overall == nil {
		return
	}
	r.overall.Describe(fmt.Sprintf("Converting fonts... %s", event.Tag))
	_ = r.overall.Add(1)
	r.redraw()
}

func (r *barReporter) Finish(succeeded, _ int, elapsed time.Duration) {
	for _, label := range r.order {
		_ = r.bars[label].Finish()
	}
	if r.overall != nil {
		_ = r.overall.Finish()
	}
	r.clear()
	fmt.Fprintln(r.out, completionMessage(succeeded, elapsed))
}

func (r *barReporter) lines() []string {
	lines := make([]string, 0, len(r.order)+1)
	if r.overall != nil {
		lines = append(lines, barLine(r.overall))
	}
	for _, label := range r.order {
		lines = append(lines, "  "+barLine(r.bars[label]))
	}
	return lines
}

// redraw moves the cursor back over the previous block and rewrites it.
func (r *barReporter) redraw() {
	var b strings.Builder
	if r.drawn > 0 {
		fmt.Fprintf(&b, "\x1b[%dA", r.drawn)
	}
	lines := r.lines()
	for _, line := range lines {
		b.WriteString("\r\x1b[2K")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	r.drawn = len(lines)
	r.drawAt = r.now()
	_, _ = io.WriteString(r.out, b.String())
}

func (r *barReporter) clear() {
	if r.drawn == 0 {
		return
	}
	fmt.Fprintf(r.out, "\x1b[%dA\r\x1b[J", r.drawn)
	r.drawn = 0
}

func barLine(bar *progressbar.ProgressBar) string {
	line := strings.TrimLeft(bar.String(), "\r")
	return strings.TrimSuffix(line, "\x1b[0K")
}

func completionMessage(succeeded int, elapsed time.Duration) string {
	return fmt.Sprintf("Converted %d fonts in %.2fs", succeeded, elapsed.Seconds())
}
