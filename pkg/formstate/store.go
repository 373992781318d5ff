package formstate

// Tree is a nested field tree keyed by field name. Leaves are scalars, nested
// maps or sequences. The touched tree shares the shape with bool leaves.
type Tree = map[string]any

// Signal resolves once a store write settles. A nil error means the write
// was applied. A nil Signal is treated as already applied.
type Signal <-chan error

// Resolved returns a Signal that has already settled with err.
func Resolved(err error) Signal {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}

// ChangeEvent describes an input-change occurrence: the input name, its raw
// value, the input type (text, number, checkbox, ...) and the checked state
// for checkbox-like inputs.
type ChangeEvent struct {
	Name    string
	Value   string
	Type    string
	Checked bool
}

// Store is the form-state collaborator the Synchronizer writes through. Reads
// return the current snapshots; writes are asynchronous and report their
// outcome on the returned Signal. Implementations serialise their own writes.
type Store interface {
	SetFieldTouched(name string) Signal
	SetFieldValue(name string, value any) Signal
	SetTouched(tree Tree) Signal
	HandleChange(ev ChangeEvent) Signal
	Values() Tree
	Touched() Tree
	InitialValues() Tree
}

// InitialValuesNotifier is implemented by stores that can replace their
// initial snapshot after construction. The Synchronizer subscribes so eager
// validation runs once per replacement.
type InitialValuesNotifier interface {
	OnInitialValuesChange(fn func())
}
