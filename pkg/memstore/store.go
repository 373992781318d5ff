package memstore

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

// ErrClosed is reported on the Signal of writes issued after Close.
var ErrClosed = errors.New("memstore: store is closed")

const defaultQueueSize = 64

// Store keeps values, touched flags and the initial snapshot in memory.
// Writes are applied in issue order by a single loop goroutine; reads return
// deep copies so callers can never edit the live trees.
type Store struct {
	mu        sync.RWMutex
	values    map[string]any
	touched   map[string]any
	initial   map[string]any
	listeners []func()

	sendMu sync.RWMutex
	closed bool
	writes chan write
	done   chan struct{}
	exited chan struct{}

	logger zerolog.Logger
}

type write struct {
	op     string
	apply  func() error
	result chan error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for write tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithQueueSize bounds the number of writes buffered ahead of the loop.
func WithQueueSize(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.writes = make(chan write, size)
		}
	}
}

// New seeds a store with initial; the current values start as a copy of it.
func New(initial map[string]any, options ...Option) *Store {
	s := &Store{
		values:  cloneTree(initial),
		touched: make(map[string]any),
		initial: cloneTree(initial),
		writes:  make(chan write, defaultQueueSize),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
		logger:  zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	go s.loop()
	return s
}

// Close stops the write loop. Writes still queued and writes issued later
// resolve with ErrClosed.
func (s *Store) Close() error {
	s.sendMu.Lock()
	if s.closed {
		s.sendMu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.sendMu.Unlock()
	<-s.exited
	return nil
}

// SetFieldTouched marks the field at name touched.
func (s *Store) SetFieldTouched(name string) formstate.Signal {
	return s.enqueue("setFieldTouched", func() error {
		return setPath(s.touched, name, true)
	})
}

// SetFieldValue writes value at the field path name.
func (s *Store) SetFieldValue(name string, value any) formstate.Signal {
	value = deepCopy(value)
	return s.enqueue("setFieldValue", func() error {
		return setPath(s.values, name, value)
	})
}

// SetTouched replaces the touched tree.
func (s *Store) SetTouched(tree formstate.Tree) formstate.Signal {
	tree = cloneTree(tree)
	return s.enqueue("setTouched", func() error {
		s.touched = tree
		return nil
	})
}

// HandleChange extracts the value carried by ev and writes it at ev.Name.
// Checkbox inputs store their checked state; number and range inputs store a
// float64 when the raw value parses.
func (s *Store) HandleChange(ev formstate.ChangeEvent) formstate.Signal {
	return s.SetFieldValue(ev.Name, eventValue(ev))
}

func eventValue(ev formstate.ChangeEvent) any {
	switch strings.ToLower(strings.TrimSpace(ev.Type)) {
	case "checkbox":
		return ev.Checked
	case "number", "range":
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(ev.Value), 64); err == nil {
			return parsed
		}
	}
	return ev.Value
}

// Values returns a copy of the current values.
func (s *Store) Values() formstate.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTree(s.values)
}

// Touched returns a copy of the touched tree.
func (s *Store) Touched() formstate.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTree(s.touched)
}

// InitialValues returns a copy of the initial snapshot.
func (s *Store) InitialValues() formstate.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTree(s.initial)
}

// Value resolves a single field path in the current values.
func (s *Store) Value(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := getPath(s.values, path)
	return deepCopy(value), ok
}

// SetInitialValues replaces the initial snapshot, resets values to it and
// clears touched state. The reset is queued behind earlier writes, so those
// land on the previous snapshot and are discarded with it. It blocks until the
// reset is applied, then runs subscribers registered via
// OnInitialValuesChange on the calling goroutine. After Close it returns
// ErrClosed and notifies nobody.
func (s *Store) SetInitialValues(initial map[string]any) error {
	initial = cloneTree(initial)
	values := cloneTree(initial)
	if err := <-s.enqueue("setInitialValues", func() error {
		s.initial = initial
		s.values = values
		s.touched = make(map[string]any)
		return nil
	}); err != nil {
		return err
	}

	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
	return nil
}

// OnInitialValuesChange registers fn to run after every SetInitialValues.
func (s *Store) OnInitialValuesChange(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) enqueue(op string, apply func() error) formstate.Signal {
	result := make(chan error, 1)

	s.sendMu.RLock()
	defer s.sendMu.RUnlock()
	if s.closed {
		result <- ErrClosed
		return result
	}
	s.writes <- write{op: op, apply: apply, result: result}
	return result
}

func (s *Store) loop() {
	defer close(s.exited)
	for {
		select {
		case w := <-s.writes:
			s.apply(w)
		case <-s.done:
			for {
				select {
				case w := <-s.writes:
					w.result <- ErrClosed
				default:
					return
				}
			}
		}
	}
}

func (s *Store) apply(w write) {
	s.mu.Lock()
	err := w.apply()
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug().Err(err).Str("op", w.op).Msg("write failed")
	} else {
		s.logger.Trace().Str("op", w.op).Msg("write applied")
	}
	w.result <- err
}
