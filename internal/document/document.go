// Package document manipulates configuration documents as generic trees so
// keys the installer does not know about survive a rewrite untouched.
package document

import (
	"fmt"
	"strconv"
)

// Mapping asserts node to a string-keyed map.
func Mapping(node any) (map[string]any, bool) {
	m, ok := node.(map[string]any)
	return m, ok
}

// Clone deep-copies a document tree.
func Clone(node any) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = Clone(val)
		}
		return out
	default:
		return v
	}
}

// EnsureMap returns the mapping stored under key, creating an empty one when
// the key is absent. Callers validate document shape before mutating, so an
// existing non-mapping value is replaced rather than preserved.
func EnsureMap(m map[string]any, key string) map[string]any {
	if child, ok := m[key].(map[string]any); ok {
		return child
	}
	child := make(map[string]any)
	m[key] = child
	return child
}

// Get walks path and returns the value at the end.
func Get(m map[string]any, path ...string) (any, bool) {
	node := m
	for i, key := range path {
		if i == len(path)-1 {
			value, ok := node[key]
			return value, ok
		}
		child, ok := node[key].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	return nil, false
}

// Set stores value at the end of path, creating intermediate mappings.
func Set(m map[string]any, value any, path ...string) {
	node := m
	for _, key := range path[:len(path)-1] {
		node = EnsureMap(node, key)
	}
	node[path[len(path)-1]] = value
}

// String returns the scalar at path rendered as a string.
func String(m map[string]any, path ...string) (string, bool) {
	value, ok := Get(m, path...)
	if !ok || value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case int, int64, uint64, bool, float64:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}

// Int returns the integer at path, accepting quoted and unquoted scalars.
func Int(m map[string]any, path ...string) (int, bool) {
	value, ok := Get(m, path...)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
