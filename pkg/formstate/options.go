package formstate

import (
	"time"

	"github.com/rs/zerolog"
)

// Mode distinguishes a new-entity session from an edit session.
type Mode string

const (
	// ModeCreate marks the initial snapshot touched unconditionally.
	ModeCreate Mode = "CREATE"
	// ModeUpdate waits until the record being edited has been fetched.
	ModeUpdate Mode = "UPDATE"
)

// EagerOptions configures eager validation. The value is copied once when the
// Synchronizer is built; later changes to the caller's copy are ignored.
type EagerOptions struct {
	Mode Mode
	// KeyToCheckFetched names the initial-values key whose presence signals
	// that ModeUpdate data has arrived.
	KeyToCheckFetched string
	// Delay defers the touched write. Zero schedules it immediately.
	Delay time.Duration
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger routes diagnostics to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithEagerValidation enables eager touched initialisation.
func WithEagerValidation(opts EagerOptions) Option {
	return func(s *Synchronizer) {
		captured := opts
		s.eager = &captured
	}
}

// WithMarkupSanitizer strips markup from string leaves that survive
// normalisation.
func WithMarkupSanitizer() Option {
	return func(s *Synchronizer) {
		s.sanitize = true
	}
}

// WithAfterFunc overrides the scheduler used for eager validation. Tests use
// it to run deferred writes deterministically.
func WithAfterFunc(fn func(time.Duration, func())) Option {
	return func(s *Synchronizer) {
		if fn != nil {
			s.afterFunc = fn
		}
	}
}
