package browser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// Options configures the Chrome launch.
type Options struct {
	Headless  bool
	ExecPath  string
	UserAgent string
}

// Chrome drives a local Chrome/Chromium through the DevTools protocol.
type Chrome struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// NewChrome launches the browser and opens one tab.
func NewChrome(opts Options) (*Chrome, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			slog.Debug(fmt.Sprintf(format, args...), "component", "chromedp")
		}),
	)
	// Run with no actions starts the browser.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	slog.Info("started browser", "headless", opts.Headless, "exec_path", opts.ExecPath)
	return &Chrome{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}, nil
}

// run executes actions on the tab while honoring the caller's deadline and cancellation.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	if d, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, d)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url))
}

func (c *Chrome) WaitPresent(ctx context.Context, sel string) error {
	return c.run(ctx, chromedp.WaitReady(sel, chromedp.ByQuery))
}

func (c *Chrome) WaitVisible(ctx context.Context, sel string) error {
	return c.run(ctx, chromedp.WaitVisible(sel, chromedp.ByQuery))
}

func (c *Chrome) Exists(ctx context.Context, sel string) (bool, error) {
	var nodes []*cdp.Node
	if err := c.run(ctx, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

func (c *Chrome) Click(ctx context.Context, sel string) error {
	return c.run(ctx, chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible))
}

func (c *Chrome) Text(ctx context.Context, sel string) (string, error) {
	var text string
	err := c.run(ctx, chromedp.Text(sel, &text, chromedp.ByQuery))
	return text, err
}

func (c *Chrome) Attr(ctx context.Context, sel, name string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := c.run(ctx, chromedp.AttributeValue(sel, name, &value, &ok, chromedp.ByQuery))
	return value, ok, err
}

func (c *Chrome) HTML(ctx context.Context, sel string) (string, error) {
	var html string
	err := c.run(ctx, chromedp.OuterHTML(sel, &html, chromedp.ByQuery))
	return html, err
}

func (c *Chrome) Controls(ctx context.Context, sel string) ([]Control, error) {
	var nodes []*cdp.Node
	if err := c.run(ctx, chromedp.Nodes(sel, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	controls := make([]Control, 0, len(nodes))
	for _, n := range nodes {
		controls = append(controls, Control{
			Type:  n.AttributeValue("type"),
			Name:  n.AttributeValue("name"),
			Value: n.AttributeValue("value"),
		})
	}
	return controls, nil
}

func (c *Chrome) SendKeys(ctx context.Context, sel, text string) error {
	return c.run(ctx, chromedp.SendKeys(sel, text, chromedp.ByQuery))
}

func (c *Chrome) SetText(ctx context.Context, sel, text string) error {
	return c.run(ctx,
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, text, chromedp.ByQuery),
	)
}

func (c *Chrome) PressEscape(ctx context.Context) error {
	return c.run(ctx, chromedp.KeyEvent(kb.Escape))
}

func (c *Chrome) DragBy(ctx context.Context, sel string, dx float64) error {
	var box *dom.BoxModel
	if err := c.run(ctx, chromedp.Dimensions(sel, &box, chromedp.ByQuery)); err != nil {
		return err
	}
	if box == nil || len(box.Content) < 8 {
		return fmt.Errorf("no box model for %s", sel)
	}
	x := (box.Content[0] + box.Content[2] + box.Content[4] + box.Content[6]) / 4
	y := (box.Content[1] + box.Content[3] + box.Content[5] + box.Content[7]) / 4

	const steps = 10
	return c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := input.DispatchMouseEvent(input.MousePressed, x, y).
			WithButton(input.Left).WithClickCount(1).Do(ctx); err != nil {
			return err
		}
		for i := 1; i <= steps; i++ {
			if err := input.DispatchMouseEvent(input.MouseMoved, x+dx*float64(i)/steps, y).
				WithButton(input.Left).Do(ctx); err != nil {
				return err
			}
		}
		return input.DispatchMouseEvent(input.MouseReleased, x+dx, y).
			WithButton(input.Left).WithClickCount(1).Do(ctx)
	}))
}

// Close shuts the tab and the browser process down.
func (c *Chrome) Close() error {
	c.cancelTab()
	c.cancelAlloc()
	return nil
}
