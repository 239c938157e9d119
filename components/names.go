package components

import "fmt"

// enumKey returns the YAML key for an enum value, or "unknown" when out of range.
func enumKey[T ~uint8](keys []string, v T) string {
	if int(v) < len(keys) {
		return keys[v]
	}
	return "unknown"
}

// parseEnum resolves a YAML key to its enum value.
func parseEnum[T ~uint8](keys []string, s, what string) (T, error) {
	for i, k := range keys {
		if k == s {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}
