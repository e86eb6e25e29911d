// Package validate provides input validation for search engine records.
//
// Validation runs when an engine is created or edited, never when settings
// are read. A failed check rejects the write with a specific reason and the
// caller keeps its previous settings.
//
// # Validation Functions
//
// Name checks the display name.
// URLTemplate checks the search URL and its keyword placeholder.
// Roles checks that the engine is a target, a source, or both.
// Domain checks a source rule domain.
//
// # Error Handling
//
// All validation errors wrap one of the sentinel errors defined in errors.go.
// Use errors.Is() for type-safe checking:
//
//	if errors.Is(err, validate.ErrMissingPlaceholder) {
//	    // ask the user to add %s to the URL
//	}
package validate
