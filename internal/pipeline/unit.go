package pipeline

import (
	"fmt"

	"gfontapi/internal/style"
)

// Outcome is the state of a single variant unit.
type Outcome string

const (
	OutcomePending    Outcome = "pending"
	OutcomeDownloaded Outcome = "downloaded"
	OutcomeConverted  Outcome = "converted"
	OutcomeFailed     Outcome = "failed"
)

// Terminal reports whether no further transition is allowed.
func (o Outcome) Terminal() bool {
	return o == OutcomeConverted || o == OutcomeFailed
}

var transitions = map[Outcome][]Outcome{
	OutcomePending:    {OutcomeDownloaded, OutcomeFailed},
	OutcomeDownloaded: {OutcomeConverted, OutcomeFailed},
}

// Unit is the work item for one catalog variant. A unit is owned by exactly
// one goroutine until Run joins.
type Unit struct {
	Key              string
	Tag              style.Tag
	SourceURL        string
	IntermediatePath string
	FinalPath        string
	Outcome          Outcome
	Err              error
	Bytes            int64
}

func (u *Unit) advance(to Outcome) error {
	for _, next := range transitions[u.Outcome] {
		if next == to {
			u.Outcome = to
			return nil
		}
	}
	return fmt.Errorf("variant %s cannot move from %s to %s", u.Key, u.Outcome, to)
}

func (u *Unit) fail(err error) {
	if u.Outcome.Terminal() {
		return
	}
	u.Outcome = OutcomeFailed
	u.Err = err
}

// Succeeded reports whether the unit produced a WOFF2 file.
func (u Unit) Succeeded() bool {
	return u.Outcome == OutcomeConverted
}
