// Package htmlsanitize cleans user-supplied text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
)

func policies() {
	once.Do(func() {
		ugc = bluemonday.UGCPolicy()
		ugc.RequireNoFollowOnLinks(true)
		strict = bluemonday.StrictPolicy()
	})
}

// Sanitize keeps basic formatting markup (emphasis, lists, links, code) and
// drops scripts, event handlers and unsafe URLs. Used for message bodies.
func Sanitize(s string) string {
	policies()
	return strings.TrimSpace(ugc.Sanitize(s))
}

// PlainText strips every tag and returns unescaped text. Used for room
// names, which are stored and served as text, not HTML.
func PlainText(s string) string {
	policies()
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
