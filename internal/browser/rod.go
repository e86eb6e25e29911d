package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// rodBackend drives the browser through go-rod.
type rodBackend struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	timeout time.Duration
}

func newRod(ctx context.Context, cfg Config) (*rodBackend, error) {
	b := &rodBackend{timeout: cfg.Timeout}

	wsURL := cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().Headless(cfg.Headless)
		u, err := l.Context(ctx).Launch()
		if err != nil {
			return nil, fmt.Errorf("launching browser: %w", err)
		}
		wsURL = u
		b.lnch = l
	} else {
		u, err := launcher.ResolveURL(wsURL)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", wsURL, err)
		}
		wsURL = u
	}

	cctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	br := rod.New().ControlURL(wsURL)
	if err := br.Context(cctx).Connect(); err != nil {
		b.Close()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	// Drop the connect deadline for later calls.
	b.browser = br.Context(context.Background())
	return b, nil
}

func (b *rodBackend) Name() string { return BackendRod }

func (b *rodBackend) ActiveTab(ctx context.Context, id string) (Tab, error) {
	res, err := proto.TargetGetTargets{}.Call(b.browser.Context(ctx))
	if err != nil {
		return Tab{}, fmt.Errorf("listing tabs: %w", err)
	}
	for _, t := range res.TargetInfos {
		if !ordinary(string(t.Type), t.URL) {
			continue
		}
		if id == "" || string(t.TargetID) == id {
			return Tab{ID: string(t.TargetID), URL: t.URL, Title: t.Title}, nil
		}
	}
	if id != "" {
		return Tab{}, fmt.Errorf("%w: %s", ErrNoTab, id)
	}
	return Tab{}, ErrNoTab
}

func (b *rodBackend) Evaluate(ctx context.Context, tab Tab, expr string) (string, error) {
	if Privileged(tab.URL) {
		return "", fmt.Errorf("%w: %s", ErrInjectionDenied, tab.URL)
	}
	page, err := b.browser.Context(ctx).PageFromTarget(proto.TargetTargetID(tab.ID))
	if err != nil {
		return "", denied(fmt.Errorf("attaching to tab: %w", err))
	}
	res, err := page.Context(ctx).Eval(rodFunction(expr))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", denied(fmt.Errorf("evaluate: %w", err))
	}
	if res.Value.Nil() {
		return "", nil
	}
	if s, ok := res.Value.Val().(string); ok {
		return s, nil
	}
	return res.Value.JSON("", ""), nil
}

// rodFunction wraps a script expression as the function declaration rod's
// Eval expects; rod applies its argument, so a bare expression throws.
func rodFunction(expr string) string {
	return "() => (" + expr + ")"
}

func (b *rodBackend) OpenTab(ctx context.Context, url string) error {
	if _, err := b.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: url}); err != nil {
		return fmt.Errorf("open tab: %w", err)
	}
	return nil
}

func (b *rodBackend) Close() error {
	if b.lnch == nil {
		// Remote browser: leave it running.
		return nil
	}
	var err error
	if b.browser != nil {
		err = b.browser.Close()
	}
	b.lnch.Cleanup()
	return err
}
