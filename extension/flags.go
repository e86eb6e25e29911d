// flags.go defines constants for all CLI flag names.
//
// Using constants instead of string literals prevents typos and enables
// compile-time checking when flag names are used in both Flags().Type()
// definitions and GetType() calls.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "dry-run" -> FlagDryRun).

package extension

// Flag name constants for CLI commands.
// These are used with cobra's Flags().Type() and GetType() methods.
const (
	// Boolean flags

	FlagDryRun = "dry-run" // Preview without making changes
	FlagLocal  = "local"   // Use local scope
	FlagLong   = "long"    // Long format output
	FlagSource = "source"  // Engine reads keywords from its result pages
	FlagTarget = "target"  // Engine receives searches

	// String flags

	FlagAddr      = "addr"       // Listen address
	FlagBadge     = "badge"      // Badge text
	FlagDomain    = "domain"     // Source domain
	FlagEngine    = "engine"     // Engine id
	FlagName      = "name"       // Display name
	FlagOlderThan = "older-than" // Duration threshold
	FlagParam     = "param"      // Source query parameter
	FlagSelection = "selection"  // Selection text supplied with a menu click
	FlagTab       = "tab"        // DevTools target id
	FlagURL       = "url"        // Search URL template

	// Integer flags

	FlagLimit = "limit" // Limit number of results
)
