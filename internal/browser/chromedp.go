package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
)

// chromedpBackend drives the browser through chromedp. Tabs are attached
// lazily on first evaluation and stay attached for the backend's lifetime,
// since cancelling an attached chromedp context closes its tab.
type chromedpBackend struct {
	mu          sync.Mutex
	allocCancel context.CancelFunc
	browserCtx  context.Context
	browserStop context.CancelFunc
	remote      bool
	timeout     time.Duration
	tabs        map[string]context.Context
	tabCancels  []context.CancelFunc

	// run starts a tab session; nil means chromedp.Run.
	run func(ctx context.Context) error
}

func newChromedp(ctx context.Context, cfg Config) (*chromedpBackend, error) {
	b := &chromedpBackend{
		remote:  cfg.RemoteURL != "",
		timeout: cfg.Timeout,
		tabs:    make(map[string]context.Context),
	}

	var allocCtx context.Context
	if b.remote {
		allocCtx, b.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
	} else {
		// Copy default options to avoid mutating the package-level slice.
		opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
		copy(opts, chromedp.DefaultExecAllocatorOptions[:])
		opts = append(opts,
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", true),
		)
		allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	}
	b.browserCtx, b.browserStop = chromedp.NewContext(allocCtx)

	// Listing targets allocates the browser without opening a tab.
	startCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		_, err := chromedp.Targets(b.browserCtx)
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connecting to browser: %w", err)
		}
	case <-startCtx.Done():
		b.Close()
		return nil, fmt.Errorf("connecting to browser: %w", startCtx.Err())
	}
	return b, nil
}

func (b *chromedpBackend) Name() string { return BackendChromedp }

func (b *chromedpBackend) ActiveTab(ctx context.Context, id string) (Tab, error) {
	targets, err := chromedp.Targets(b.browserCtx)
	if err != nil {
		return Tab{}, fmt.Errorf("listing tabs: %w", err)
	}
	for _, t := range targets {
		if !ordinary(t.Type, t.URL) {
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

// attach returns the chromedp context bound to tab, attaching on first use.
func (b *chromedpBackend) attach(tab Tab) (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if tctx, ok := b.tabs[tab.ID]; ok {
		return tctx, nil
	}
	tctx, cancel := chromedp.NewContext(b.browserCtx, chromedp.WithTargetID(target.ID(tab.ID)))
	run := b.run
	if run == nil {
		run = func(ctx context.Context) error { return chromedp.Run(ctx) }
	}

	// The session binds to the context of the first Run, so it must not be
	// a derived timeout context.
	done := make(chan error, 1)
	go func() { done <- run(tctx) }()
	select {
	case err := <-done:
		if err != nil {
			cancel()
			return nil, fmt.Errorf("attaching to tab: %w", err)
		}
	case <-time.After(b.timeout):
		cancel()
		return nil, fmt.Errorf("attaching to tab: timed out after %v", b.timeout)
	}
	b.tabs[tab.ID] = tctx
	b.tabCancels = append(b.tabCancels, cancel)
	return tctx, nil
}

func (b *chromedpBackend) Evaluate(ctx context.Context, tab Tab, expr string) (string, error) {
	if Privileged(tab.URL) {
		return "", fmt.Errorf("%w: %s", ErrInjectionDenied, tab.URL)
	}
	tctx, err := b.attach(tab)
	if err != nil {
		return "", denied(err)
	}
	rctx, cancel := context.WithCancel(tctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var result any
	if err := chromedp.Run(rctx, chromedp.Evaluate(expr, &result)); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", denied(fmt.Errorf("evaluate: %w", err))
	}
	return stringify(result)
}

func (b *chromedpBackend) OpenTab(ctx context.Context, url string) error {
	c := chromedp.FromContext(b.browserCtx)
	if c == nil || c.Browser == nil {
		return fmt.Errorf("open tab: %w", chromedp.ErrInvalidContext)
	}
	// Run against the browser session directly; a chromedp.Run on the
	// browser context would create an extra blank tab first.
	_, err := target.CreateTarget(url).Do(cdp.WithExecutor(ctx, c.Browser))
	if err != nil {
		return fmt.Errorf("open tab: %w", err)
	}
	return nil
}

func (b *chromedpBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.remote {
		// Leave attached tabs alone; the connection drops when the
		// process exits and the user's tabs stay open.
		return nil
	}
	for _, cancel := range b.tabCancels {
		cancel()
	}
	if b.browserStop != nil {
		b.browserStop()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.tabs = make(map[string]context.Context)
	b.tabCancels = nil
	return nil
}

// stringify returns string results unchanged and everything else as JSON.
// A nil result (undefined or null) is the empty string.
func stringify(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v), nil
		}
		return string(data), nil
	}
}
