package compose

import (
	"fmt"
	"strings"
)

// envMap returns the service's environment as a mapping, converting the list
// form ("KEY=value" entries) in place. A bare "KEY" entry keeps its
// pass-from-host meaning by mapping to null.
func envMap(svc map[string]any) map[string]any {
	switch env := svc["environment"].(type) {
	case map[string]any:
		return env
	case []any:
		out := make(map[string]any, len(env))
		for _, entry := range env {
			s, ok := entry.(string)
			if !ok {
				continue
			}
			key, value, found := strings.Cut(s, "=")
			if !found {
				out[key] = nil
				continue
			}
			out[key] = value
		}
		svc["environment"] = out
		return out
	default:
		out := make(map[string]any)
		svc["environment"] = out
		return out
	}
}

// envValue reads one environment key from either form without rewriting.
func envValue(svc map[string]any, key string) (string, bool) {
	switch env := svc["environment"].(type) {
	case map[string]any:
		value, ok := env[key]
		if !ok || value == nil {
			return "", false
		}
		return fmt.Sprintf("%v", value), true
	case []any:
		prefix := key + "="
		for _, entry := range env {
			s, ok := entry.(string)
			if !ok {
				continue
			}
			if strings.HasPrefix(s, prefix) {
				return strings.TrimPrefix(s, prefix), true
			}
		}
	}
	return "", false
}

// scrubDependsOn drops references to removed services from a service's
// depends_on, in both the list and the mapping form.
func scrubDependsOn(svc map[string]any, removed []string) {
	deps, ok := svc["depends_on"]
	if !ok {
		return
	}
	switch d := deps.(type) {
	case map[string]any:
		for _, name := range removed {
			delete(d, name)
		}
		if len(d) == 0 {
			delete(svc, "depends_on")
		}
	case []any:
		kept := make([]any, 0, len(d))
		for _, entry := range d {
			s, isString := entry.(string)
			if isString && contains(removed, s) {
				continue
			}
			kept = append(kept, entry)
		}
		if len(kept) == 0 {
			delete(svc, "depends_on")
			return
		}
		svc["depends_on"] = kept
	}
}

// portSpec renders a short-form ports entry as a string.
func portSpec(entry any) (string, bool) {
	switch v := entry.(type) {
	case string:
		return v, true
	case int:
		return fmt.Sprintf("%d", v), true
	case int64, uint64:
		return fmt.Sprintf("%d", v), true
	default:
		return "", false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
