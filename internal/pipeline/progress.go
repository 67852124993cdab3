package pipeline

import (
	"sync"
	"sync/atomic"

	"gfontapi/internal/style"
)

// Progress tracks completions across all tasks of a run. Every mutation goes
// through Record.
type Progress struct {
	mu        sync.Mutex
	completed int
	succeeded []style.Tag
	total     int
}

// NewProgress returns a Progress expecting total completions.
func NewProgress(total int) *Progress {
	return &Progress{total: total, succeeded: make([]style.Tag, 0, total)}
}

// Record counts one completion and appends tag when ok. It returns the
// completed count after the update.
func (p *Progress) Record(tag style.Tag, ok bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed++
	if ok {
		p.succeeded = append(p.succeeded, tag)
	}
	return p.completed
}

// Completed returns the number of recorded completions.
func (p *Progress) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Succeeded returns a copy of the successful tags in completion order.
func (p *Progress) Succeeded() []style.Tag {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]style.Tag(nil), p.succeeded...)
}

// Total returns the expected number of completions.
func (p *Progress) Total() int {
	return p.total
}

// transferSlot holds the newest byte count of one unit. store queues the slot
// only when it is not already queued, so a channel with one place per slot
// never blocks the download.
type transferSlot struct {
	tag     style.Tag
	label   string
	written atomic.Int64
	total   atomic.Int64
	queued  atomic.Bool
}

func (s *transferSlot) store(written, total int64, queue chan<- *transferSlot) {
	s.written.Store(written)
	s.total.Store(total)
	if s.queued.CompareAndSwap(false, true) {
		queue <- s
	}
}

func (s *transferSlot) take() Transfer {
	s.queued.Store(false)
	return Transfer{Tag: s.tag, Label: s.label, Written: s.written.Load(), Total: s.total.Load()}
}
