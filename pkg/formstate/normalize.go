package formstate

import (
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// Normalize removes string leaves that were touched, left blank and have no
// initial value at the same path. It edits tree in place and returns the same
// map; callers must treat tree as consumed. Use NormalizeCopy to keep the
// input intact.
func (s *Synchronizer) Normalize(tree Tree) Tree {
	if tree == nil {
		return nil
	}
	n := normalizer{
		touched:  s.store.Touched(),
		initial:  s.store.InitialValues(),
		sanitize: s.sanitize,
	}
	n.record(tree, nil)
	return tree
}

// NormalizeCopy normalises a deep copy of tree.
func (s *Synchronizer) NormalizeCopy(tree Tree) Tree {
	return s.Normalize(Clone(tree))
}

type normalizer struct {
	touched  Tree
	initial  Tree
	sanitize bool
}

func (n normalizer) record(node Tree, path []string) {
	for key, value := range node {
		childPath := appendPath(path, key)

		if record, ok := asRecord(value); ok {
			n.record(record, childPath)
			node[key] = record
			continue
		}

		if seq, ok := asSequence(value); ok {
			for i, item := range seq {
				if record, ok := asRecord(item); ok {
					n.record(record, appendPath(childPath, strconv.Itoa(i)))
					seq[i] = record
				}
			}
			node[key] = seq
			continue
		}

		if text, ok := value.(string); ok && n.sanitize {
			value = sanitizeMarkup(text)
			node[key] = value
		}
		if n.blank(childPath, value) {
			delete(node, key)
		}
	}
}

func (n normalizer) blank(path []string, value any) bool {
	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) != "" {
		return false
	}
	touched, _ := lookup(n.touched, path)
	if !truthy(touched) {
		return false
	}
	_, defined := lookup(n.initial, path)
	return !defined
}

func appendPath(path []string, segment string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, segment)
}

// sanitizeMarkup strips tags and returns plain text; entities escaped by the
// policy are decoded since the result is data, not HTML.
func sanitizeMarkup(raw string) string {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(markupPolicy.Sanitize(raw))
}
