// Package sanitize cleans user-provided text before it is forwarded to the
// marketplace API. The gateway never renders user content itself, but it
// also never forwards markup that could end up in another customer's
// browser via the upstream.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// strict is the singleton policy for plain-text fields (names, subjects,
// messages): every tag is stripped, entities are preserved.
var (
	strict     *bluemonday.Policy
	strictOnce sync.Once
)

// strictPolicy returns the shared policy, initializing it on first call.
func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Text strips all HTML from a plain-text field and trims surrounding
// whitespace. Applied to every free-text form field before it leaves the
// gateway.
func Text(input string) string {
	return strings.TrimSpace(strictPolicy().Sanitize(input))
}
