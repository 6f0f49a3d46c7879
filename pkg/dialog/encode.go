package dialog

import (
	"net/url"
	"strings"
)

// RawURLEncode percent-encodes s per RFC 3986: only A-Z, a-z, 0-9 and -_.~
// pass through, a space becomes %20. The output is safe inside both a quoted
// script literal and an HTML attribute.
func RawURLEncode(s string) string {
	if s == "" {
		return ""
	}
	// QueryEscape keeps the same unreserved set and only differs on spaces.
	// A literal '+' is already %2B at this point.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
