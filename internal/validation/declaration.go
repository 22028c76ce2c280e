package validation

import (
	"fmt"
	"regexp"
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ID checks that id is a snake_case identifier.
func ID(id string) error {
	if id == "" {
		return fmt.Errorf("empty id")
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("id %q is not snake_case", id)
	}
	return nil
}

// IDs checks every id and rejects duplicates. It returns the first offending
// index alongside the error, or -1.
func IDs(ids []string) (int, error) {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if err := ID(id); err != nil {
			return i, err
		}
		if _, dup := seen[id]; dup {
			return i, fmt.Errorf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
	return -1, nil
}

// Bounds checks a numeric range where either end may be missing.
func Bounds(min, max *float64) error {
	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("minimum %v greater than maximum %v", *min, *max)
	}
	return nil
}

// Versions checks that a deprecation window is well ordered and does not
// extend past the current version. Versions compare with less, which reports
// whether a sorts before b.
func Versions[V any](first, last, current V, less func(a, b V) bool) error {
	if less(last, first) {
		return fmt.Errorf("deprecation window ends before it starts")
	}
	if less(current, last) {
		return fmt.Errorf("deprecation window ends after the current version")
	}
	return nil
}
