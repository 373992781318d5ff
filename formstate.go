package formstate

import (
	pkgformstate "github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/memstore"
)

// Tree aliases the nested field tree used for values and touched flags.
type Tree = pkgformstate.Tree

// Store aliases the store contract the synchronizer writes through.
type Store = pkgformstate.Store

// Synchronizer aliases pkg/formstate.Synchronizer.
type Synchronizer = pkgformstate.Synchronizer

// EagerOptions aliases the eager validation settings.
type EagerOptions = pkgformstate.EagerOptions

// NewSynchronizer exposes the synchronizer constructor from the top-level
// module.
func NewSynchronizer(store Store, options ...pkgformstate.Option) (*Synchronizer, error) {
	return pkgformstate.New(store, options...)
}

// NewInMemory seeds an in-memory store with initial and binds a synchronizer
// to it. Callers own the store and should Close it when the form is done.
func NewInMemory(initial map[string]any, options ...pkgformstate.Option) (*Synchronizer, *memstore.Store, error) {
	store := memstore.New(initial)
	sync, err := pkgformstate.New(store, options...)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return sync, store, nil
}
