package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer loads a page in headless Chrome and returns the DOM after
// scripts have run. It only serves text; the index page is the only thing
// worth rendering.
type Renderer struct {
	allocOpts []chromedp.ExecAllocatorOption
	timeout   time.Duration
	wait      time.Duration
}

// RenderOption configures a Renderer.
type RenderOption func(*Renderer)

// WithRenderTimeout bounds navigation plus DOM extraction.
func WithRenderTimeout(d time.Duration) RenderOption {
	return func(r *Renderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithSettleTime waits after the body is ready, for pages that keep
// mutating the DOM after load.
func WithSettleTime(d time.Duration) RenderOption {
	return func(r *Renderer) { r.wait = d }
}

// WithExecPath points chromedp at a specific browser binary.
func WithExecPath(path string) RenderOption {
	return func(r *Renderer) {
		if path != "" {
			r.allocOpts = append(r.allocOpts, chromedp.ExecPath(path))
		}
	}
}

// NewRenderer creates a Renderer using a fresh headless browser per call.
func NewRenderer(opts ...RenderOption) *Renderer {
	r := &Renderer{
		allocOpts: append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.DisableGPU,
			chromedp.NoSandbox,
			chromedp.Headless,
		),
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Get navigates to rawURL and returns the rendered outer HTML.
func (r *Renderer) Get(ctx context.Context, rawURL string, mode Mode) (*Response, error) {
	if mode == ModeBinary {
		return nil, errors.New("renderer: binary payloads are not supported")
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocOpts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	timeoutCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	resp, err := chromedp.RunResponse(timeoutCtx, chromedp.Navigate(rawURL))
	if err != nil {
		return nil, fmt.Errorf("renderer: navigate %s: %w", rawURL, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("renderer: navigate %s: no document response", rawURL)
	}
	status := int(resp.Status)
	if status < 200 || status > 299 {
		return nil, &StatusError{URL: rawURL, Status: status}
	}

	tasks := []chromedp.Action{chromedp.WaitReady("body")}
	if r.wait > 0 {
		tasks = append(tasks, chromedp.Sleep(r.wait))
	}

	var pageHTML string
	tasks = append(tasks, chromedp.OuterHTML("html", &pageHTML))
	if err := chromedp.Run(timeoutCtx, tasks...); err != nil {
		return nil, fmt.Errorf("renderer: read DOM %s: %w", rawURL, err)
	}

	return &Response{URL: rawURL, Status: status, Data: []byte(pageHTML)}, nil
}
