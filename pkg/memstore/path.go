package memstore

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// splitPath turns "rows[1].label" or "rows.1.label" into its segments.
func splitPath(path string) []string {
	clean := strings.NewReplacer("[", ".", "]", "").Replace(strings.TrimSpace(path))
	clean = strings.Trim(clean, ".")
	if clean == "" {
		return nil
	}
	parts := strings.Split(clean, ".")
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getPath(root map[string]any, path string) (any, bool) {
	segments := splitPath(path)
	if root == nil || len(segments) == 0 {
		return nil, false
	}
	var current any = root
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at path, creating intermediate maps and growing
// slices as needed. A numeric segment after a map key creates a slice.
func setPath(root map[string]any, path string, value any) error {
	if root == nil {
		return fmt.Errorf("memstore: root map is nil")
	}
	segments := splitPath(path)
	if len(segments) == 0 {
		return fmt.Errorf("memstore: empty field path")
	}
	if _, err := setIn(root, segments, value); err != nil {
		return fmt.Errorf("memstore: set %q: %w", path, err)
	}
	return nil
}

// setIn returns node with value written at segments. Maps are edited in
// place; slices may be reallocated, so callers store the returned value.
func setIn(node any, segments []string, value any) (any, error) {
	segment := segments[0]
	last := len(segments) == 1

	if idx, err := strconv.Atoi(segment); err == nil {
		if record, isMap := node.(map[string]any); isMap && record != nil {
			return setMapChild(record, segment, segments, value, last)
		}
		if idx < 0 {
			return nil, fmt.Errorf("negative index %d", idx)
		}
		list, _ := node.([]any)
		if len(list) <= idx {
			list = append(list, make([]any, idx+1-len(list))...)
		}
		if last {
			list[idx] = value
			return list, nil
		}
		child, err := setIn(list[idx], segments[1:], value)
		if err != nil {
			return nil, err
		}
		list[idx] = child
		return list, nil
	}

	record, ok := node.(map[string]any)
	if !ok || record == nil {
		record = make(map[string]any)
	}
	return setMapChild(record, segment, segments, value, last)
}

func setMapChild(record map[string]any, segment string, segments []string, value any, last bool) (any, error) {
	if last {
		record[segment] = value
		return record, nil
	}
	child, err := setIn(record[segment], segments[1:], value)
	if err != nil {
		return nil, err
	}
	record[segment] = child
	return record, nil
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return copyReflect(typed)
	}
}

// copyReflect copies typed slices and maps such as []string or
// map[string]int, keeping their concrete type.
func copyReflect(value any) any {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return value
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if elem := deepCopy(rv.Index(i).Interface()); elem != nil {
				out.Index(i).Set(reflect.ValueOf(elem))
			}
		}
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return value
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			elem := reflect.Zero(rv.Type().Elem())
			if copied := deepCopy(iter.Value().Interface()); copied != nil {
				elem = reflect.ValueOf(copied)
			}
			out.SetMapIndex(iter.Key(), elem)
		}
		return out.Interface()
	default:
		return value
	}
}

func cloneTree(src map[string]any) map[string]any {
	if len(src) == 0 {
		return make(map[string]any)
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}
