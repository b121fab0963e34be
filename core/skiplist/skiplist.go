// Package skiplist decides which API endpoints bypass envelope encryption.
//
// Matching is by substring: a path is skipped when it contains any entry of the list.
// The same decision gates both the request and the response of one call, so it is
// derived from the request path only.
package skiplist

import "strings"

// Default lists the endpoints that exchange plain bodies: binary uploads and downloads,
// health probes, webhooks and diagnostic paths.
var Default = List{
	"/api/v1/user/profilePicture",
	"/api/v1/user/uploadProfilePicture",
	"/api/v1/recipient/generate/document",
	"/api/v1/txn/invoiceUpload",
	"/api/v1/txn/generate/document",
	"/api/v1/accounts/deposit_address/qr",
	"/api/v1/csp-report",
	"/api/v1/test/health",
	"/health",
	"/api/v1/test/ping",
	"/ping",
	"/api/v1/hooks/l2",
	"/version",
	"/post/",
	"msg-test",
}

// List is an ordered set of path substrings. Order and duplicates do not affect matching.
type List []string

// ShouldSkip reports whether path contains any entry of list.
// Empty entries are ignored, otherwise they would match every path.
func ShouldSkip(path string, list List) bool {
	for _, entry := range list {
		if entry != "" && strings.Contains(path, entry) {
			return true
		}
	}
	return false
}

// Match reports whether path contains any entry of l.
func (l List) Match(path string) bool {
	return ShouldSkip(path, l)
}

// With returns a new list holding l followed by the non-empty, trimmed extra entries.
func (l List) With(extra ...string) List {
	out := make(List, 0, len(l)+len(extra))
	out = append(out, l...)
	for _, e := range extra {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
