package services

import (
	"html"
	"net/mail"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// FieldErrors maps a form field to the message shown next to it
type FieldErrors map[string]string

// Add records the first error for a field
func (f FieldErrors) Add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

// Has reports whether the field has an error
func (f FieldErrors) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// Any reports whether there is at least one error
func (f FieldErrors) Any() bool {
	return len(f) > 0
}

// Error implements error so a FieldErrors can travel through error returns
func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidEmail checks the address syntax
func IsValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from user-entered free text and returns
// plain text. Entities produced by the policy are decoded; escaping is left
// to the templates.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// optionalText returns nil for blank input and the sanitized value otherwise
func optionalText(s string) *string {
	clean := SanitizeText(s)
	if clean == "" {
		return nil
	}
	return &clean
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
