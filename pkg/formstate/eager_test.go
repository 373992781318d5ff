package formstate_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	queued []func()
}

func (m *manualScheduler) after(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.queued = append(m.queued, fn)
}

func (m *manualScheduler) fire() {
	m.mu.Lock()
	queued := m.queued
	m.queued = nil
	m.mu.Unlock()
	for _, fn := range queued {
		fn()
	}
}

func (m *manualScheduler) scheduled() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.delays...)
}

func TestEagerValidation_CreateSchedulesOnConstruction(t *testing.T) {
	initial := formstate.Tree{
		"a": 1,
		"b": []any{1, map[string]any{"c": 2}},
		"d": map[string]any{"e": 3},
	}
	store := newRecordingStore(initial, nil, nil)
	sched := &manualScheduler{}
	s, _ := newSynchronizer(t, store,
		formstate.WithAfterFunc(sched.after),
		formstate.WithEagerValidation(formstate.EagerOptions{
			Mode:  formstate.ModeCreate,
			Delay: 250 * time.Millisecond,
		}),
	)

	if diff := cmp.Diff([]time.Duration{250 * time.Millisecond}, sched.scheduled()); diff != "" {
		t.Fatalf("schedule mismatch (-want +got):\n%s", diff)
	}
	if calls := store.Calls(); len(calls) != 0 {
		t.Fatalf("expected no writes before the timer fires, got %v", calls)
	}

	sched.fire()
	waitIdle(t, s)

	want := formstate.Tree{
		"a": true,
		"b": []any{true, map[string]any{"c": true}},
		"d": map[string]any{"e": true},
	}
	if diff := cmp.Diff(want, store.Touched()); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
}

func TestEagerValidation_UpdateWaitsForFetchedKey(t *testing.T) {
	store := newRecordingStore(formstate.Tree{"name": ""}, nil, nil)
	sched := &manualScheduler{}
	s, _ := newSynchronizer(t, store,
		formstate.WithAfterFunc(sched.after),
		formstate.WithEagerValidation(formstate.EagerOptions{
			Mode:              formstate.ModeUpdate,
			KeyToCheckFetched: "id",
		}),
	)

	if got := sched.scheduled(); len(got) != 0 {
		t.Fatalf("expected nothing scheduled before fetch, got %v", got)
	}

	store.replaceInitial(formstate.Tree{"id": 7, "name": "Ada"})
	if diff := cmp.Diff([]time.Duration{0}, sched.scheduled()); diff != "" {
		t.Fatalf("schedule mismatch (-want +got):\n%s", diff)
	}

	sched.fire()
	waitIdle(t, s)

	if diff := cmp.Diff(formstate.Tree{"id": true, "name": true}, store.Touched()); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
}

func TestEagerValidation_CreateRunsPerSnapshotReplacement(t *testing.T) {
	store := newRecordingStore(formstate.Tree{"a": ""}, nil, nil)
	sched := &manualScheduler{}
	newSynchronizer(t, store,
		formstate.WithAfterFunc(sched.after),
		formstate.WithEagerValidation(formstate.EagerOptions{Mode: formstate.ModeCreate}),
	)

	store.replaceInitial(formstate.Tree{"a": "", "b": ""})
	if got := len(sched.scheduled()); got != 2 {
		t.Fatalf("expected one schedule per snapshot, got %d", got)
	}
}

func TestEagerValidation_DefaultTimer(t *testing.T) {
	store := newRecordingStore(formstate.Tree{"a": "x"}, nil, nil)
	s, _ := newSynchronizer(t, store,
		formstate.WithEagerValidation(formstate.EagerOptions{Mode: formstate.ModeCreate}),
	)

	waitIdle(t, s)
	if diff := cmp.Diff(formstate.Tree{"a": true}, store.Touched()); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}
}

func TestEagerValidation_DisabledWithoutOptions(t *testing.T) {
	store := newRecordingStore(formstate.Tree{"a": "x"}, nil, nil)
	s, _ := newSynchronizer(t, store)
	waitIdle(t, s)
	if calls := store.Calls(); len(calls) != 0 {
		t.Fatalf("expected no writes, got %v", calls)
	}
}
