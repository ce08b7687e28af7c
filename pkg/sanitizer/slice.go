package sanitizer

import "slices"

// SortedUnique deduplicates by exact string match and sorts ascending.
// Empty strings are kept as values like any other.
func SortedUnique(items []string) []string {
	result := slices.Clone(items)
	if result == nil {
		return []string{}
	}
	slices.Sort(result)
	return slices.Compact(result)
}
