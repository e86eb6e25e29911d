// resources.go implements MCP resource handlers for read-only access to the
// settings, badge and menu.
//
// URIs follow the pattern relay://{name}. Every resource is served as JSON.

package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jpl-au/searchrelay/internal/present"
	"github.com/jpl-au/searchrelay/internal/store"
)

// Resource URIs.
const (
	URISettings = "relay://settings"
	URIBadge    = "relay://badge"
	URIMenu     = "relay://menu"
)

// ErrInvalidURI indicates a resource URI that names no resource.
var ErrInvalidURI = errors.New("invalid URI")

func registerResources(s *server.MCPServer, h *handlers) {
	for _, r := range []struct{ uri, name, desc string }{
		{URISettings, "settings", "Stored engines, selected target and badge setting"},
		{URIBadge, "badge", "Toolbar badge derived from the settings"},
		{URIMenu, "menu", "Context menu derived from the settings"},
	} {
		s.AddResource(
			mcp.NewResource(r.uri, r.name,
				mcp.WithResourceDescription(r.desc),
				mcp.WithMIMEType("application/json"),
			),
			func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
				return h.readResource(ctx, req.Params.URI)
			},
		)
	}
}

// readResource renders the resource named by uri.
func (h *handlers) readResource(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}
	s, err := h.svc.Load(ctx)
	if err != nil {
		return nil, err
	}

	var v any
	switch uri {
	case URISettings:
		v = s
	case URIBadge:
		v = present.BadgeFor(s)
	case URIMenu:
		v = present.MenuFor(s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}

	data, err := store.MarshalJSON(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
