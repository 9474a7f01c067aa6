// Package portal drives the homework portal through its list, item and
// completed-answers pages.
//
// Every operation that leaves the list page returns to it before reporting,
// on success and on failure, so the scraped record set stays valid for the next command.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pavelanni/hwhelper/internal/apperr"
	"github.com/pavelanni/hwhelper/internal/browser"
	"github.com/pavelanni/hwhelper/internal/output"
)

// Default URLs of the portal.
const (
	DefaultLoginURL = "https://admin.jeedu.net/login"
	DefaultListURL  = "https://admin.jeedu.net/exam/studentTaskList"
)

// Config holds the portal addresses and the bounded waits used while driving it.
type Config struct {
	LoginURL string
	ListURL  string
	// WaitTimeout bounds every wait for an element expected to appear.
	WaitTimeout time.Duration
	// NoticeWait is how long to watch for a toast after clicking a row control.
	NoticeWait time.Duration
	// AudioProbeWait is how long the answer pipeline looks for an audio element.
	AudioProbeWait time.Duration
	// AnswersWait is how long a completed answers table gets to render its rows.
	AnswersWait time.Duration
	// FillInterval is the pause between filling two questions.
	FillInterval time.Duration
	Selectors    Selectors
}

// Client performs portal operations against one browser session.
type Client struct {
	b    browser.Browser
	cfg  Config
	sel  Selectors
	sink output.Sink
}

// New creates a client. Zero durations and empty selectors take defaults.
func New(b browser.Browser, cfg Config, sink output.Sink) *Client {
	if cfg.LoginURL == "" {
		cfg.LoginURL = DefaultLoginURL
	}
	if cfg.ListURL == "" {
		cfg.ListURL = DefaultListURL
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 15 * time.Second
	}
	if cfg.NoticeWait <= 0 {
		cfg.NoticeWait = 1500 * time.Millisecond
	}
	if cfg.AudioProbeWait <= 0 {
		cfg.AudioProbeWait = 1500 * time.Millisecond
	}
	if cfg.AnswersWait <= 0 {
		cfg.AnswersWait = 3 * time.Second
	}
	if cfg.FillInterval <= 0 {
		cfg.FillInterval = 500 * time.Millisecond
	}
	return &Client{b: b, cfg: cfg, sel: cfg.Selectors.withDefaults(), sink: sink}
}

// step runs fn with the wait timeout applied and maps an expired deadline to ErrNavigationTimeout.
func (c *Client) step(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	return c.stepWithin(ctx, c.cfg.WaitTimeout, what, fn)
}

func (c *Client) stepWithin(ctx context.Context, d time.Duration, what string, fn func(ctx context.Context) error) error {
	stepCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	err := fn(stepCtx)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", apperr.ErrNavigationTimeout, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// waitPresent waits for sel within the wait timeout.
func (c *Client) waitPresent(ctx context.Context, sel string) error {
	return c.step(ctx, "wait for "+sel, func(ctx context.Context) error {
		return c.b.WaitPresent(ctx, sel)
	})
}

func (c *Client) click(ctx context.Context, sel string) error {
	return c.step(ctx, "click "+sel, func(ctx context.Context) error {
		return c.b.Click(ctx, sel)
	})
}

// returnToList navigates back to the list page after an item operation.
// The operation's own error takes precedence over a failure to return.
func (c *Client) returnToList(ctx context.Context, err *error) {
	rerr := c.GotoListPage(ctx)
	if rerr == nil {
		return
	}
	if *err == nil {
		*err = rerr
		return
	}
	slog.Warn("failed to return to list page", "error", rerr)
}
