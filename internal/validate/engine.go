package validate

import (
	"fmt"
	"strings"
)

// Name validates an engine display name.
//
// Validation rules:
//   - Empty or whitespace-only names rejected
//   - Null bytes rejected
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: null byte in name", ErrInvalidText)
	}
	return nil
}

// URLTemplate validates a search URL template. The template must contain
// placeholder exactly as written; it is replaced with the encoded keyword
// when a search is dispatched.
func URLTemplate(tpl, placeholder string) error {
	if strings.TrimSpace(tpl) == "" {
		return ErrEmptyURL
	}
	if strings.ContainsRune(tpl, 0) {
		return fmt.Errorf("%w: null byte in URL", ErrInvalidText)
	}
	if !strings.Contains(tpl, placeholder) {
		return fmt.Errorf("%w: add %s where the keyword goes", ErrMissingPlaceholder, placeholder)
	}
	return nil
}

// Roles rejects an engine that is neither a target nor a source.
func Roles(isTarget, isSource bool) error {
	if !isTarget && !isSource {
		return ErrNoRole
	}
	return nil
}

// Domain validates a source rule domain. Empty domains are allowed; an
// engine without a domain simply never matches a page URL.
func Domain(domain string) error {
	if strings.ContainsRune(domain, 0) {
		return fmt.Errorf("%w: null byte in domain", ErrInvalidText)
	}
	if strings.ContainsAny(domain, " /?#") {
		return fmt.Errorf("%w: domain %q must be a bare host name", ErrInvalidText, domain)
	}
	return nil
}
