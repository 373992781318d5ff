package formstate

import "fmt"

// Action selects what ChangeItem does to a sequence field.
type Action string

const (
	// ActionUpdate sets one field of an existing item. It is the default.
	ActionUpdate Action = ""
	// ActionAdd appends NewItem.
	ActionAdd Action = "add"
	// ActionRemove deletes the item at Index.
	ActionRemove Action = "remove"
)

// ItemChange describes an edit to a sequence-valued field.
type ItemChange struct {
	Name    string
	Index   int
	Field   string
	Value   any
	Action  Action
	NewItem any
}

// AddItem appends item to the sequence at name.
func (s *Synchronizer) AddItem(name string, item any) error {
	return s.ChangeItem(ItemChange{Name: name, Action: ActionAdd, NewItem: item})
}

// RemoveItem deletes the item at index from the sequence at name.
func (s *Synchronizer) RemoveItem(name string, index int) error {
	return s.ChangeItem(ItemChange{Name: name, Action: ActionRemove, Index: index})
}

// UpdateItemField sets field on the item at index and marks it touched.
func (s *Synchronizer) UpdateItemField(name string, index int, field string, value any) error {
	return s.ChangeItem(ItemChange{Name: name, Index: index, Field: field, Value: value})
}

// ChangeItem applies change to the sequence at change.Name and its parallel
// touched sequence, then writes both back. The full next state is computed
// before any write; invalid requests are logged, returned and write nothing.
func (s *Synchronizer) ChangeItem(change ItemChange) error {
	name := change.Name
	items, ok := asSequence(s.store.Values()[name])
	if !ok {
		return s.fail("changeItem", name, fmt.Errorf("%w: %q", ErrNotSequence, name))
	}

	touchedTree := s.store.Touched()
	touched, _ := asSequence(touchedTree[name])
	touched = padRecords(touched, len(items)-1)

	switch change.Action {
	case ActionAdd:
		if change.NewItem == nil {
			return s.fail("addItem", name, fmt.Errorf("formstate: add to %q: %w", name, ErrMissingItem))
		}
		items = append(items, change.NewItem)
		touched = append(touched, Tree{})

	case ActionRemove:
		if change.Index < 0 || change.Index >= len(items) {
			return s.fail("removeItem", name, fmt.Errorf("formstate: remove %q[%d]: %w", name, change.Index, ErrIndexOutOfRange))
		}
		items = append(items[:change.Index], items[change.Index+1:]...)
		touched = append(touched[:change.Index], touched[change.Index+1:]...)

	default:
		if change.Index < 0 || change.Index >= len(items) {
			return s.fail("updateItem", name, fmt.Errorf("formstate: update %q[%d]: %w", name, change.Index, ErrIndexOutOfRange))
		}
		if change.Field == "" {
			return s.fail("updateItem", name, fmt.Errorf("formstate: update %q[%d]: %w", name, change.Index, ErrMissingField))
		}
		item := copyRecord(items[change.Index])
		item[change.Field] = change.Value
		items[change.Index] = item

		record := copyRecord(touched[change.Index])
		record[change.Field] = true
		touched[change.Index] = record
	}

	s.watch("setTouched", name, s.store.SetTouched(mergeTouched(touchedTree, name, touched)))
	s.watch("setFieldValue", name, s.store.SetFieldValue(name, items))
	return nil
}

// MarkItemFieldTouched marks field on the item at index touched without
// changing any value. Missing positions up to index are filled with empty
// records.
func (s *Synchronizer) MarkItemFieldTouched(name string, index int, field string) error {
	if index < 0 {
		return s.fail("markItemFieldTouched", name, fmt.Errorf("formstate: mark %q[%d]: %w", name, index, ErrIndexOutOfRange))
	}
	if field == "" {
		return s.fail("markItemFieldTouched", name, fmt.Errorf("formstate: mark %q[%d]: %w", name, index, ErrMissingField))
	}

	touchedTree := s.store.Touched()
	touched, _ := asSequence(touchedTree[name])
	touched = padRecords(touched, index)

	record := copyRecord(touched[index])
	record[field] = true
	touched[index] = record

	s.watch("setTouched", name, s.store.SetTouched(mergeTouched(touchedTree, name, touched)))
	return nil
}

// padRecords extends seq with empty records so position last exists. Nil
// entries already inside seq are replaced as well.
func padRecords(seq []any, last int) []any {
	for i := range seq {
		if seq[i] == nil {
			seq[i] = Tree{}
		}
	}
	for len(seq) <= last {
		seq = append(seq, Tree{})
	}
	return seq
}
