package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pavelanni/hwhelper/internal/apperr"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

// GotoListPage loads the list URL and waits for the homework table.
// A table that never appears is reported as ErrNavigationTimeout; it is not retried.
func (c *Client) GotoListPage(ctx context.Context) error {
	err := c.step(ctx, "open list page", func(ctx context.Context) error {
		if err := c.b.Navigate(ctx, c.cfg.ListURL); err != nil {
			return err
		}
		return c.b.WaitPresent(ctx, c.sel.ListContainer)
	})
	if err != nil {
		return err
	}
	slog.Debug("navigated to list page", "url", c.cfg.ListURL)
	return nil
}

// gotoTablePage loads the list page and advances to the given 1-based table page.
func (c *Client) gotoTablePage(ctx context.Context, page int) error {
	if err := c.GotoListPage(ctx); err != nil {
		return err
	}
	for p := 1; p < page; p++ {
		if err := c.nextPage(ctx); err != nil {
			return fmt.Errorf("advance to page %d: %w", page, err)
		}
	}
	return nil
}

// rowControl returns the selector of a control inside the record's row.
func (c *Client) rowControl(rec model.HomeworkRecord, control string) string {
	return fmt.Sprintf("%s:nth-child(%d) > %s", c.sel.Row, rec.Row+1, control)
}

// GotoItemPage opens the item's detail page (for pending items) or original page (for completed ones).
// The portal sometimes raises a toast instead of navigating; if one appears within NoticeWait
// the navigation failed and the toast text is returned as a *apperr.NoticeError.
func (c *Client) GotoItemPage(ctx context.Context, rec model.HomeworkRecord) error {
	if !rec.Status.Navigable() {
		return fmt.Errorf("%w: %q has status %q", apperr.ErrUnsupportedStatus, rec.Title, rec.Status)
	}
	control := c.sel.Status
	if rec.Status == model.StatusCompleted {
		control = c.sel.ViewOriginal
	}

	if err := c.gotoTablePage(ctx, rec.Page); err != nil {
		return err
	}
	if err := c.click(ctx, c.rowControl(rec, control)); err != nil {
		return err
	}
	if err := c.checkNotice(ctx); err != nil {
		return err
	}
	slog.Debug("opened item page", "title", rec.Title, "status", rec.Status)
	return nil
}

// checkNotice watches for a toast during the notice window. No toast means the click navigated.
func (c *Client) checkNotice(ctx context.Context) error {
	err := c.stepWithin(ctx, c.cfg.NoticeWait, "watch for notice", func(ctx context.Context) error {
		return c.b.WaitPresent(ctx, c.sel.Toast)
	})
	if errors.Is(err, apperr.ErrNavigationTimeout) {
		return nil
	}
	if err != nil {
		return err
	}

	var text string
	err = c.step(ctx, "read notice", func(ctx context.Context) error {
		var err error
		text, err = c.b.Text(ctx, c.sel.Toast)
		return err
	})
	if err != nil {
		return err
	}
	output.Error(c.sink, i18n.Td(ctx, "PortalNotice", map[string]any{"Text": text}))
	return &apperr.NoticeError{Text: text}
}

// GotoCompletedAnswersPage opens the view-completed dialog of a completed item and then its answers view.
func (c *Client) GotoCompletedAnswersPage(ctx context.Context, rec model.HomeworkRecord) error {
	if rec.Status != model.StatusCompleted {
		return fmt.Errorf("%w: %q is not completed (status %q)", apperr.ErrInvalidState, rec.Title, rec.Status)
	}
	if err := c.gotoTablePage(ctx, rec.Page); err != nil {
		return err
	}
	if err := c.click(ctx, c.rowControl(rec, c.sel.ViewCompleted)); err != nil {
		return err
	}
	err := c.step(ctx, "open answers view", func(ctx context.Context) error {
		if err := c.b.WaitVisible(ctx, c.sel.DialogViewCompleted); err != nil {
			return err
		}
		if err := c.b.Click(ctx, c.sel.DialogViewCompleted); err != nil {
			return err
		}
		return c.b.WaitPresent(ctx, c.sel.AnswerTable)
	})
	if err != nil {
		return err
	}
	slog.Debug("opened completed answers page", "title", rec.Title)
	return nil
}

// WithItemPage opens the item page, runs fn there and returns to the list page.
func (c *Client) WithItemPage(ctx context.Context, rec model.HomeworkRecord, fn func(ctx context.Context) error) (err error) {
	defer c.returnToList(ctx, &err)
	if err := c.GotoItemPage(ctx, rec); err != nil {
		return err
	}
	return fn(ctx)
}

// ProbeAudio reports whether an audio element shows up within AudioProbeWait.
// Timing out means the item has no listening part.
func (c *Client) ProbeAudio(ctx context.Context) bool {
	err := c.stepWithin(ctx, c.cfg.AudioProbeWait, "probe audio", func(ctx context.Context) error {
		return c.b.WaitPresent(ctx, c.sel.Audio)
	})
	if err != nil && !errors.Is(err, apperr.ErrNavigationTimeout) {
		slog.Warn("audio probe failed", "error", err)
	}
	return err == nil
}
