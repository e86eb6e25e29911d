// Package mcp implements the Model Context Protocol server, exposing the
// searchrelay settings and triggers to LLM clients over stdio.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jpl-au/searchrelay/extension"
	"github.com/jpl-au/searchrelay/internal/config"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/relay"
	"github.com/jpl-au/searchrelay/internal/repo"
	"github.com/jpl-au/searchrelay/internal/settings"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Author is recorded on every change made through MCP.
const Author = "mcp"

// ErrNotInitialised is returned by tools when the store has not been initialised.
// The LLM should call relay_init to create a store before using other tools.
const ErrNotInitialised = "store not initialised - call relay_init first"

// Options configure Serve.
type Options struct {
	DB      string         // database name (empty for the default)
	Config  *config.Config // loaded configuration
	Backend relay.BackendFunc
}

// Serve starts the MCP server over stdio.
//
// The server starts even if no store exists, so that a client can call
// relay_init. Tools that need a store return ErrNotInitialised until then.
func Serve(ctx context.Context, opts Options) error {
	// Log to stderr; stdout is reserved for MCP JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if opts.Config == nil {
		opts.Config = &config.Config{}
	}
	var conn *relay.Connector
	if opts.Backend == nil {
		conn = relay.NewConnector(relay.BrowserConfig(opts.Config))
		opts.Backend = conn.Backend
		defer conn.Close()
	}

	h := &handlers{db: opts.DB, cfg: opts.Config, backend: opts.Backend}

	svc, err := settings.New(opts.DB)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open store", "error", err)
		return err
	}
	if err == nil {
		h.attach(svc)
		defer h.close()
	} else {
		slog.Info("searchrelay not initialised, starting in uninitialised mode - call relay_init to create store")
	}

	s := newServer(h)
	slog.Info("searchrelay MCP server ready", "version", Version, "transport", "stdio")

	stdio := server.NewStdioServer(s)
	err = stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// newServer builds the MCP server with every resource and tool registered.
func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"searchrelay",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)
	registerResources(s, h)
	registerTools(s, h)
	registerExtensionTools(s, h)
	return s
}

// handlers provides MCP request handlers. svc and router are nil until the
// store is initialised.
type handlers struct {
	db      string
	cfg     *config.Config
	backend relay.BackendFunc

	svc    *settings.Service
	router *relay.Router
	stop   func()
}

// attach wires an open settings service into the handlers and starts
// following its changes.
func (h *handlers) attach(svc *settings.Service) {
	h.svc = svc
	log.SetProject(filepath.Dir(svc.DBPath()))
	h.router = relay.New(svc, h.backend, nil, relay.Options{
		Author:        Author,
		Timeout:       h.cfg.Timeout(),
		PromptMessage: h.cfg.PromptMessage(),
	})
	svc.SetExtensionContext(extension.NewContext(svc, svc.DB(), h.cfg))
	if _, err := h.router.Startup(context.Background()); err != nil {
		slog.Error("building badge and menu", "error", err)
	}
	h.stop = svc.Watch(func(keys []string) {
		if _, err := h.router.StorageChange(context.Background(), keys); err != nil {
			slog.Error("refresh badge and menu", "error", err)
		}
	})
}

func (h *handlers) close() {
	if h.stop != nil {
		h.stop()
	}
	if h.svc != nil {
		h.svc.Close()
	}
}

// requireInit returns an error result if the store is not initialised.
// Tools that require a store should call this first.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

// registerExtensionTools adds the tools contributed by extensions.
func registerExtensionTools(s *server.MCPServer, h *handlers) {
	for _, ext := range extension.All() {
		for _, t := range ext.MCPTools() {
			handler := t.Handler
			s.AddTool(t.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				if err := h.requireInit(); err != nil {
					return err, nil
				}
				return handler(ctx, extension.NewContext(h.svc, h.svc.DB(), h.cfg), req)
			})
		}
	}
}
