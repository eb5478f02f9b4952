// Package sanitize strips HTML from user-supplied strings. Calendar names
// and revision messages end up inside rendered wiki pages, so anything a
// user types is either rejected when it carries markup or reduced to plain
// text before storage.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy that allows no elements at all.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared strict policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text removes every HTML element from input and returns plain text.
// Entities escaped by the policy are decoded again so "Kythorn's" survives
// unchanged.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(getPolicy().Sanitize(input)))
}

// HasMarkup reports whether input contains HTML elements the strict policy
// would strip.
func HasMarkup(input string) bool {
	if input == "" {
		return false
	}
	return html.UnescapeString(getPolicy().Sanitize(input)) != input
}
