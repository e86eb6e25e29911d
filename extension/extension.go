// Package extension provides the plugin architecture for searchrelay.
// Extensions bundle related CLI commands and MCP tools and register at init
// time.
package extension

import (
	"time"

	"github.com/spf13/cobra"
)

// Extension defines the contract for searchrelay extensions.
type Extension interface {
	// Name returns a unique identifier for this extension.
	Name() string

	// Commands returns CLI commands to register with the root command.
	Commands() []*cobra.Command

	// MCPTools returns MCP tools to register with the server.
	MCPTools() []MCPTool
}

// Initializable extensions can perform setup (migrations, etc).
type Initializable interface {
	Extension
	Init(ctx Context) error
}

// Storeless is an optional interface for extensions with commands that
// don't require a settings database. Commands returned by
// NoStoreCommands() skip service initialisation in PersistentPreRunE.
type Storeless interface {
	NoStoreCommands() []string
}

// Vacuumable extensions can prune their own history. The db vacuum command
// calls Vacuum on every extension implementing it after pruning the core
// revision table.
type Vacuumable interface {
	Extension
	// Vacuum deletes records older than olderThan (all when nil) and
	// returns the count removed.
	Vacuum(ctx Context, olderThan *time.Duration) (int64, error)
}
