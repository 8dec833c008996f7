package redis

import "strconv"

const (
	// KeyPrefixFeedback is the prefix for per-page feedback hashes
	KeyPrefixFeedback = "crestic-docs:feedback:page:"
	// KeyPrefixTheme is the prefix for rendered theme cache entries
	KeyPrefixTheme = "crestic-docs:theme:"
	// KeyAllFeedback is the key for the set of all pages with feedback
	KeyAllFeedback = "crestic-docs:feedback:all"
)

// Hash fields of a feedback record
const (
	fieldCount     = "count"
	fieldTitle     = "title"
	fieldFirstSeen = "first_seen"
	fieldLastSeen  = "last_seen"
)

// FeedbackKey returns the Redis key for the feedback of a page
func FeedbackKey(page string) string {
	return KeyPrefixFeedback + page
}

// AllFeedbackKey returns the key for the set of all pages with feedback
func AllFeedbackKey() string {
	return KeyAllFeedback
}

// ThemeKey returns the Redis key for a rendered theme.
// The year and the provider revision are part of the key, so a new year
// or an overrides reload never serves a stale rendering.
func ThemeKey(format string, year int, revision string) string {
	return KeyPrefixTheme + format + ":" + strconv.Itoa(year) + ":" + revision
}
