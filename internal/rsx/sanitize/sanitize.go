// Package sanitize cleans expression values before they are inserted
// into a markup tree.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// Policy returns the shared policy: bluemonday's UGC policy plus the
// data-* attributes Alpine.js and htmx markup tends to carry.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowDataAttributes()
		policy = p
	})
	return policy
}

// HTML strips unsafe markup from s.
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return Policy().Sanitize(s)
}
