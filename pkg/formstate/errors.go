package formstate

import "errors"

var (
	// ErrNilStore is returned by New when no store is supplied.
	ErrNilStore = errors.New("formstate: store is nil")
	// ErrNotSequence reports an array operation against a field whose value
	// is not a sequence.
	ErrNotSequence = errors.New("formstate: field value is not a sequence")
	// ErrMissingItem reports an add without a new item.
	ErrMissingItem = errors.New("formstate: new item is required")
	// ErrIndexOutOfRange reports an index outside the sequence bounds.
	ErrIndexOutOfRange = errors.New("formstate: index out of range")
	// ErrMissingField reports an item update or mark without a field name.
	ErrMissingField = errors.New("formstate: field name is required")
)
