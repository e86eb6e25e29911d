// Package all imports all built-in searchrelay extensions.
// Import this package to register all built-in commands.
package all

import (
	// Built-in extensions - each registers itself via init()
	_ "github.com/jpl-au/searchrelay/extension/core"
	_ "github.com/jpl-au/searchrelay/extension/engine"
	_ "github.com/jpl-au/searchrelay/extension/relay"
)
