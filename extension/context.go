// context.go defines the Context interface for extension access to
// searchrelay internals. Extensions receive it during Init(), after the
// settings service has been opened.

package extension

import (
	"database/sql"

	"github.com/jpl-au/searchrelay/internal/config"
	"github.com/jpl-au/searchrelay/internal/service"
)

// Context provides extensions controlled access to searchrelay internals.
type Context interface {
	// Service returns the settings service.
	Service() service.Service

	// DB exposes the database for extensions needing custom tables.
	DB() *sql.DB

	// Config returns the loaded configuration.
	Config() *config.Config
}

// extContext implements Context.
type extContext struct {
	svc service.Service
	db  *sql.DB
	cfg *config.Config
}

// NewContext creates a new extension context.
func NewContext(svc service.Service, db *sql.DB, cfg *config.Config) Context {
	return &extContext{
		svc: svc,
		db:  db,
		cfg: cfg,
	}
}

// Service returns the settings service.
func (c *extContext) Service() service.Service {
	return c.svc
}

// DB returns the raw database connection.
func (c *extContext) DB() *sql.DB {
	return c.db
}

// Config returns the loaded configuration.
func (c *extContext) Config() *config.Config {
	return c.cfg
}
