package logging

import (
	"log/slog"
	"slices"
	"time"
)

// Keys shared by every gfontapi component. Run, family, and variant are
// filled from the context by WithContext; the rest are set at call sites.
// FieldVariant is the raw catalog token ("700italic") and FieldStyle the
// resolved name ("bold-italic"). FieldErrorKind carries the services marker
// label of FieldError, and FieldImpact says what the operator loses.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldFamily    = "family"
	FieldVariant   = "variant"
	FieldStyle     = "style"
	FieldError     = "error"
	FieldErrorKind = "error_kind"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"
)

const (
	defaultHint   = "see the surrounding log lines for this variant"
	defaultImpact = "the variant is left out of fonts.css"
)

// Attr is a structured log field.
type Attr = slog.Attr

func Bool(key string, value bool) Attr              { return slog.Bool(key, value) }
func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }
func Int(key string, value int) Attr                { return slog.Int(key, value) }
func Int64(key string, value int64) Attr            { return slog.Int64(key, value) }
func String(key, value string) Attr                 { return slog.String(key, value) }

// Error records err under FieldError. A nil error still shows up so a
// missing cause is visible in the log.
func Error(err error) Attr {
	if err == nil {
		return slog.String(FieldError, "<nil>")
	}
	return slog.Any(FieldError, err)
}

// NewNop returns a logger that drops every record.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// NewComponentLogger tags logger with component. A nil logger yields a
// no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}

// WarnWithContext logs a per-variant warning. Event type, hint, and impact
// are always present; caller values win over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Warn(msg, eventArgs(attrs, eventType, true)...)
}

// ErrorWithContext logs a failure with its event type and hint.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Error(msg, eventArgs(attrs, eventType, false)...)
}

func eventArgs(attrs []Attr, eventType string, withImpact bool) []any {
	fill := func(key, value string) {
		if !slices.ContainsFunc(attrs, func(a Attr) bool { return a.Key == key }) {
			attrs = append(attrs, slog.String(key, value))
		}
	}
	fill(FieldEventType, eventType)
	fill(FieldErrorHint, defaultHint)
	if withImpact {
		fill(FieldImpact, defaultImpact)
	}
	return toArgs(attrs)
}

func toArgs(attrs []Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}
