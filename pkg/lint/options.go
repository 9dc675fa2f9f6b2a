package lint

import "slices"

func lookup(opts map[string]any, key string) (any, bool) {
	if opts == nil {
		return nil, false
	}
	v, ok := opts[key]
	return v, ok
}

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts map[string]any, key string, defaultVal T) T {
	if v, ok := lookup(opts, key); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	return defaultVal
}

// GetIntOption extracts an int option, handling float64 from JSON and
// int64 from TOML.
func GetIntOption(opts map[string]any, key string, defaultVal int) int {
	v, _ := lookup(opts, key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return defaultVal
	}
}

// GetStringOption extracts a string option.
func GetStringOption(opts map[string]any, key string, defaultVal string) string {
	return GetOption(opts, key, defaultVal)
}

// GetBoolOption extracts a bool option.
func GetBoolOption(opts map[string]any, key string, defaultVal bool) bool {
	return GetOption(opts, key, defaultVal)
}

// GetEnumOption extracts a string option restricted to allowed values.
// Values outside the set yield the default.
func GetEnumOption(opts map[string]any, key string, allowed []string, defaultVal string) string {
	s := GetStringOption(opts, key, defaultVal)
	if !slices.Contains(allowed, s) {
		return defaultVal
	}
	return s
}

// GetStringSliceOption extracts a string slice option.
func GetStringSliceOption(opts map[string]any, key string, defaultVal []string) []string {
	v, _ := lookup(opts, key)
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return defaultVal
	}
}
