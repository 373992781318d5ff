package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/memstore"
)

func await(t *testing.T, sig formstate.Signal) error {
	t.Helper()
	select {
	case err := <-sig:
		return err
	case <-time.After(time.Second):
		t.Fatalf("signal did not settle")
		return nil
	}
}

func TestStore_WritesApplyInOrder(t *testing.T) {
	store := memstore.New(map[string]any{"title": ""})
	defer store.Close()

	var last formstate.Signal
	for _, v := range []string{"a", "b", "c"} {
		last = store.SetFieldValue("title", v)
	}
	if err := await(t, last); err != nil {
		t.Fatalf("write: %v", err)
	}

	if diff := cmp.Diff(formstate.Tree{"title": "c"}, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(formstate.Tree{"title": ""}, store.InitialValues()); diff != "" {
		t.Fatalf("initial snapshot changed (-want +got):\n%s", diff)
	}
}

func TestStore_DottedPaths(t *testing.T) {
	store := memstore.New(map[string]any{
		"rows": []any{map[string]any{"label": "one"}},
	})
	defer store.Close()

	if err := await(t, store.SetFieldValue("rows[1].label", "two")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := await(t, store.SetFieldValue("address.city", "Oslo")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := await(t, store.SetFieldTouched("rows.1.label")); err != nil {
		t.Fatalf("touch: %v", err)
	}

	wantValues := formstate.Tree{
		"rows": []any{
			map[string]any{"label": "one"},
			map[string]any{"label": "two"},
		},
		"address": map[string]any{"city": "Oslo"},
	}
	if diff := cmp.Diff(wantValues, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantTouched := formstate.Tree{"rows": []any{nil, map[string]any{"label": true}}}
	if diff := cmp.Diff(wantTouched, store.Touched()); diff != "" {
		t.Fatalf("touched mismatch (-want +got):\n%s", diff)
	}

	got, ok := store.Value("rows[0].label")
	if !ok || got != "one" {
		t.Fatalf("expected rows[0].label=one, got %v (%v)", got, ok)
	}
}

func TestStore_RejectsInvalidPaths(t *testing.T) {
	store := memstore.New(nil)
	defer store.Close()

	if err := await(t, store.SetFieldValue("", "x")); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if err := await(t, store.SetFieldValue("rows.-1", "x")); err == nil {
		t.Fatalf("expected error for negative index")
	}
}

func TestStore_HandleChangeCoercesInputTypes(t *testing.T) {
	store := memstore.New(nil)
	defer store.Close()

	events := []formstate.ChangeEvent{
		{Name: "agree", Type: "checkbox", Checked: true, Value: "on"},
		{Name: "qty", Type: "number", Value: " 12.5 "},
		{Name: "volume", Type: "range", Value: "abc"},
		{Name: "name", Type: "text", Value: "Ada"},
	}
	var last formstate.Signal
	for _, ev := range events {
		last = store.HandleChange(ev)
	}
	if err := await(t, last); err != nil {
		t.Fatalf("handle change: %v", err)
	}

	want := formstate.Tree{"agree": true, "qty": 12.5, "volume": "abc", "name": "Ada"}
	if diff := cmp.Diff(want, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ReadsAreCopies(t *testing.T) {
	store := memstore.New(map[string]any{"tags": []any{"a"}})
	defer store.Close()

	values := store.Values()
	values["tags"].([]any)[0] = "mutated"
	if diff := cmp.Diff(formstate.Tree{"tags": []any{"a"}}, store.Values()); diff != "" {
		t.Fatalf("store leaked internal state (-want +got):\n%s", diff)
	}
}

func TestStore_WritesAfterCloseAreRejected(t *testing.T) {
	store := memstore.New(nil)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if err := await(t, store.SetTouched(formstate.Tree{"a": true})); !errors.Is(err, memstore.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestStore_SetInitialValuesNotifies(t *testing.T) {
	store := memstore.New(map[string]any{"name": "x"})
	defer store.Close()

	if err := await(t, store.SetFieldTouched("name")); err != nil {
		t.Fatalf("touch: %v", err)
	}

	calls := 0
	store.OnInitialValuesChange(func() { calls++ })
	if err := store.SetInitialValues(map[string]any{"id": 1, "name": "Ada"}); err != nil {
		t.Fatalf("set initial values: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected one notification, got %d", calls)
	}
	if diff := cmp.Diff(formstate.Tree{"id": 1, "name": "Ada"}, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(store.Touched()) != 0 {
		t.Fatalf("expected touched state to reset, got %v", store.Touched())
	}
}

func TestStore_SetInitialValuesOrdersAfterQueuedWrites(t *testing.T) {
	store := memstore.New(map[string]any{"name": "x"})
	defer store.Close()

	pending := store.SetFieldValue("name", "stale")
	touched := store.SetFieldTouched("name")
	if err := store.SetInitialValues(map[string]any{"name": "Ada"}); err != nil {
		t.Fatalf("set initial values: %v", err)
	}
	if err := await(t, pending); err != nil {
		t.Fatalf("queued write: %v", err)
	}
	if err := await(t, touched); err != nil {
		t.Fatalf("queued touch: %v", err)
	}

	if diff := cmp.Diff(formstate.Tree{"name": "Ada"}, store.Values()); diff != "" {
		t.Fatalf("queued write leaked into new snapshot (-want +got):\n%s", diff)
	}
	if len(store.Touched()) != 0 {
		t.Fatalf("expected touched state to reset, got %v", store.Touched())
	}
}

func TestStore_SetInitialValuesAfterClose(t *testing.T) {
	store := memstore.New(map[string]any{"name": "x"})
	calls := 0
	store.OnInitialValuesChange(func() { calls++ })
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := store.SetInitialValues(map[string]any{"name": "Ada"}); !errors.Is(err, memstore.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("closed store must not notify, got %d calls", calls)
	}
	if diff := cmp.Diff(formstate.Tree{"name": "x"}, store.InitialValues()); diff != "" {
		t.Fatalf("initial snapshot changed (-want +got):\n%s", diff)
	}
}

func TestStore_TypedCollectionsAreCopied(t *testing.T) {
	store := memstore.New(nil)
	defer store.Close()

	tags := []string{"a", "b"}
	scores := map[string]int{"x": 1}
	if err := await(t, store.SetFieldValue("tags", tags)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := await(t, store.SetFieldValue("scores", scores)); err != nil {
		t.Fatalf("set: %v", err)
	}
	tags[0] = "caller"
	scores["x"] = 99

	read := store.Values()
	read["tags"].([]string)[1] = "reader"
	read["scores"].(map[string]int)["x"] = 42

	want := formstate.Tree{
		"tags":   []string{"a", "b"},
		"scores": map[string]int{"x": 1},
	}
	if diff := cmp.Diff(want, store.Values()); diff != "" {
		t.Fatalf("typed collections shared state (-want +got):\n%s", diff)
	}
}

func TestStore_WithQueueSize(t *testing.T) {
	store := memstore.New(map[string]any{"count": 0}, memstore.WithQueueSize(1))
	defer store.Close()

	var last formstate.Signal
	for i := 1; i <= 10; i++ {
		last = store.SetFieldValue("count", i)
	}
	if err := await(t, last); err != nil {
		t.Fatalf("write: %v", err)
	}
	if diff := cmp.Diff(formstate.Tree{"count": 10}, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_WithSynchronizer(t *testing.T) {
	store := memstore.New(map[string]any{
		"title":    "",
		"contacts": []any{},
	})
	defer store.Close()

	syncer, err := formstate.New(store,
		formstate.WithLogger(zerolog.Nop()),
		formstate.WithEagerValidation(formstate.EagerOptions{
			Mode:              formstate.ModeUpdate,
			KeyToCheckFetched: "id",
		}),
	)
	if err != nil {
		t.Fatalf("new synchronizer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := syncer.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if len(store.Touched()) != 0 {
		t.Fatalf("update mode must wait for the fetched key, got %v", store.Touched())
	}

	if err := store.SetInitialValues(map[string]any{
		"id":       "42",
		"title":    "Draft",
		"contacts": []any{map[string]any{"email": "a@example.com"}},
	}); err != nil {
		t.Fatalf("set initial values: %v", err)
	}
	if err := syncer.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	wantTouched := formstate.Tree{
		"id":       true,
		"title":    true,
		"contacts": []any{map[string]any{"email": true}},
	}
	if diff := cmp.Diff(wantTouched, store.Touched()); diff != "" {
		t.Fatalf("eager touched mismatch (-want +got):\n%s", diff)
	}

	if err := syncer.AddItem("contacts", map[string]any{"email": ""}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := syncer.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if err := syncer.UpdateItemField("contacts", 1, "email", "b@example.com"); err != nil {
		t.Fatalf("update: %v", err)
	}
	syncer.UpdateByNameValue("title", "Final")
	if err := syncer.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	wantValues := formstate.Tree{
		"id":    "42",
		"title": "Final",
		"contacts": []any{
			map[string]any{"email": "a@example.com"},
			map[string]any{"email": "b@example.com"},
		},
	}
	if diff := cmp.Diff(wantValues, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !syncer.ValuesChanged() {
		t.Fatalf("expected values to differ from initial snapshot")
	}
}
