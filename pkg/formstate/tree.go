package formstate

import (
	"reflect"
	"strconv"
)

// TouchAll returns a tree with the same shape as tree where every leaf is
// true. Scalar and nil sequence items become true; map items recurse.
func TouchAll(tree Tree) Tree {
	out := make(Tree, len(tree))
	for key, value := range tree {
		out[key] = touchValue(value)
	}
	return out
}

func touchValue(value any) any {
	if record, ok := asRecord(value); ok {
		return TouchAll(record)
	}
	if seq, ok := asSequence(value); ok {
		touched := make([]any, len(seq))
		for i, item := range seq {
			if record, ok := asRecord(item); ok {
				touched[i] = TouchAll(record)
				continue
			}
			touched[i] = true
		}
		return touched
	}
	return true
}

// Clone deep-copies maps and sequences; scalars are shared.
func Clone(tree Tree) Tree {
	if tree == nil {
		return nil
	}
	out := make(Tree, len(tree))
	for key, value := range tree {
		out[key] = deepCopy(value)
	}
	return out
}

func deepCopy(value any) any {
	if record, ok := asRecord(value); ok {
		return Clone(record)
	}
	if seq, ok := asSequence(value); ok {
		clone := make([]any, len(seq))
		for i, item := range seq {
			clone[i] = deepCopy(item)
		}
		return clone
	}
	return value
}

// asRecord reports whether value is a non-nil string-keyed map.
func asRecord(value any) (Tree, bool) {
	switch typed := value.(type) {
	case map[string]any:
		return typed, typed != nil
	case map[string]bool:
		if typed == nil {
			return nil, false
		}
		out := make(Tree, len(typed))
		for k, v := range typed {
			out[k] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// asSequence reports whether value is a slice and returns its items as a
// fresh []any so callers can edit without touching the original backing array.
func asSequence(value any) ([]any, bool) {
	switch typed := value.(type) {
	case nil:
		return nil, false
	case []any:
		return append([]any(nil), typed...), true
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// copyRecord returns a shallow copy of value when it is a record, or an empty
// record for anything else.
func copyRecord(value any) Tree {
	record, ok := asRecord(value)
	if !ok {
		return Tree{}
	}
	out := make(Tree, len(record)+1)
	for k, v := range record {
		out[k] = v
	}
	return out
}

// mergeTouched returns a shallow copy of touched with key replaced.
func mergeTouched(touched Tree, key string, value any) Tree {
	out := make(Tree, len(touched)+1)
	for k, v := range touched {
		out[k] = v
	}
	out[key] = value
	return out
}

// lookup resolves a path of map keys and sequence indexes.
func lookup(root Tree, path []string) (any, bool) {
	var current any = root
	for _, segment := range path {
		if record, ok := asRecord(current); ok {
			next, ok := record[segment]
			if !ok {
				return nil, false
			}
			current = next
			continue
		}
		if seq, ok := asSequence(current); ok {
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(seq) {
				return nil, false
			}
			current = seq[idx]
			continue
		}
		return nil, false
	}
	return current, true
}

// truthy follows loose truthiness: false, nil and empty strings are false,
// records and sequences are true even when empty.
func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	default:
		return true
	}
}
