package model

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// sanitizeMarkup strips all markup from user-submitted text. String fields
// opt in with the Sanitized option; the strict policy keeps text content and
// drops every element and attribute.
func sanitizeMarkup(raw string) string {
	policy := strictMarkupPolicy()
	return strings.TrimSpace(policy.Sanitize(raw))
}

func strictMarkupPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.StrictPolicy()
	})
	return markupPolicy
}
