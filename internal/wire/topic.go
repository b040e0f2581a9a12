package wire

import "strings"

// MatchesFilter reports whether topic passes a single subscription
// filter. Filtering is exact-prefix: the filter "sensor/" matches
// "sensor/temp" and "sensor/", and the empty filter matches everything.
func MatchesFilter(topic, filter string) bool {
	return strings.HasPrefix(topic, filter)
}

// MatchesAny reports whether topic passes at least one of the given
// filters. An empty filter set means "receive all topics".
func MatchesAny(topic string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if MatchesFilter(topic, f) {
			return true
		}
	}
	return false
}
