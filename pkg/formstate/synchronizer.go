package formstate

import (
	"context"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Synchronizer issues field updates against a Store and tracks the signals
// those writes return.
type Synchronizer struct {
	store     Store
	logger    zerolog.Logger
	eager     *EagerOptions
	sanitize  bool
	afterFunc func(time.Duration, func())

	pending sync.WaitGroup
}

// New builds a Synchronizer for store. When eager validation is configured it
// is evaluated immediately against the current initial snapshot and again each
// time a notifying store replaces that snapshot.
func New(store Store, options ...Option) (*Synchronizer, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	s := &Synchronizer{
		store:  store,
		logger: log.Logger.With().Str("component", "formstate").Logger(),
		afterFunc: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.eager != nil {
		if notifier, ok := store.(InitialValuesNotifier); ok {
			notifier.OnInitialValuesChange(s.initialValuesChanged)
		}
		s.initialValuesChanged()
	}

	return s, nil
}

// Store returns the underlying store.
func (s *Synchronizer) Store() Store {
	return s.store
}

// Wait blocks until every watched write and scheduled eager write has
// settled, or ctx is done.
func (s *Synchronizer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ValuesChanged reports whether the current values differ from the initial
// snapshot.
func (s *Synchronizer) ValuesChanged() bool {
	return !cmp.Equal(s.store.InitialValues(), s.store.Values())
}

// watch logs a rejected write once sig settles. It never blocks the caller.
func (s *Synchronizer) watch(op, name string, sig Signal) {
	if sig == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := <-sig; err != nil {
			s.logger.Error().Err(err).Str("op", op).Str("field", name).Msg("store write rejected")
		}
	}()
}

// fail logs an invalid request and hands the error back.
func (s *Synchronizer) fail(op, name string, err error) error {
	s.logger.Error().Err(err).Str("op", op).Str("field", name).Msg("form update skipped")
	return err
}
