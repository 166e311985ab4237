package domain

import (
	"fmt"
	"strings"
)

// Well-known settings keys
const (
	// SettingCoreURL is the public base URL of the project
	SettingCoreURL = "core.url"
	// SettingErrors holds the per-status error template overrides
	SettingErrors = "errors"
)

// ProjectSettings is the settings tree of a single project.
// Keys are addressed with dots, e.g. "core.url" reads settings["core"]["url"].
type ProjectSettings map[string]any

// ErrorTemplateMapping maps an HTTP status code ("404") to a configured template reference
type ErrorTemplateMapping map[string]string

// Lookup returns the value stored under a dotted key.
// A missing segment or a non-map intermediate value reports absence.
func (s ProjectSettings) Lookup(key string) (any, bool) {
	if s == nil || key == "" {
		return nil, false
	}

	var current any = map[string]any(s)
	for _, segment := range strings.Split(key, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// String returns the value under key if it is a string
func (s ProjectSettings) String(key string) (string, bool) {
	v, ok := s.Lookup(key)
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Set stores value under a dotted key, creating intermediate maps.
// Non-map intermediates are replaced.
func (s ProjectSettings) Set(key string, value any) error {
	if s == nil {
		return fmt.Errorf("settings tree is nil")
	}
	segments, err := splitKey(key)
	if err != nil {
		return err
	}

	node := map[string]any(s)
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = Normalize(value)
	return nil
}

// Delete removes a dotted key. It reports whether something was removed.
func (s ProjectSettings) Delete(key string) bool {
	segments, err := splitKey(key)
	if err != nil || s == nil {
		return false
	}

	node := map[string]any(s)
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			return false
		}
		node = child
	}
	last := segments[len(segments)-1]
	if _, ok := node[last]; !ok {
		return false
	}
	delete(node, last)
	return true
}

// ErrorTemplates returns the string-valued entries of the "errors" subtree.
// Entries with other value types are ignored.
func (s ProjectSettings) ErrorTemplates() ErrorTemplateMapping {
	mapping := make(ErrorTemplateMapping)
	v, ok := s.Lookup(SettingErrors)
	if !ok {
		return mapping
	}
	node, ok := v.(map[string]any)
	if !ok {
		return mapping
	}
	for status, ref := range node {
		if str, ok := ref.(string); ok {
			mapping[status] = str
		}
	}
	return mapping
}

// Clone returns a deep copy of the tree
func (s ProjectSettings) Clone() ProjectSettings {
	if s == nil {
		return ProjectSettings{}
	}
	return ProjectSettings(CloneValue(map[string]any(s)).(map[string]any))
}

// NewProjectSettings builds a normalized tree from decoded data
func NewProjectSettings(tree map[string]any) ProjectSettings {
	if tree == nil {
		return ProjectSettings{}
	}
	return ProjectSettings(Normalize(tree).(map[string]any))
}

// Normalize converts decoded YAML/JSON values into the shapes Lookup understands:
// maps with non-string keys become map[string]any with stringified keys.
func Normalize(v any) any {
	switch val := v.(type) {
	case ProjectSettings:
		return Normalize(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = Normalize(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[fmt.Sprint(k)] = Normalize(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = Normalize(child)
		}
		return out
	default:
		return v
	}
}

// CloneValue deep-copies maps and slices inside a settings value
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = CloneValue(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = CloneValue(child)
		}
		return out
	default:
		return v
	}
}

func splitKey(key string) ([]string, error) {
	if key == "" {
		return nil, fmt.Errorf("empty settings key")
	}
	segments := strings.Split(key, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("invalid settings key %q", key)
		}
	}
	return segments, nil
}
