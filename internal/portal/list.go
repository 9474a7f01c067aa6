package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pavelanni/hwhelper/internal/apperr"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

const pagePollInterval = 200 * time.Millisecond

// errNoRows means the table never rendered a row within the wait timeout.
var errNoRows = fmt.Errorf("%w: list page has no rows", apperr.ErrScrape)

// ListHomework scrapes every page of the homework table.
// Any failure yields an empty result; the cause is logged and reported to the sink,
// so callers must read an empty list as "could not scrape".
func (c *Client) ListHomework(ctx context.Context) []model.HomeworkRecord {
	records, err := c.scrapeAll(ctx)
	if err != nil {
		slog.Error("failed to scrape homework list", "error", err)
		output.Error(c.sink, i18n.Td(ctx, "ListReadFailed", map[string]any{"Error": err.Error()}))
		return []model.HomeworkRecord{}
	}
	slog.Info("scraped homework list", "count", len(records))
	return records
}

func (c *Client) scrapeAll(ctx context.Context) ([]model.HomeworkRecord, error) {
	if err := c.GotoListPage(ctx); err != nil {
		return nil, err
	}

	var records []model.HomeworkRecord
	for page := 1; ; page++ {
		html, err := c.containerHTML(ctx)
		if errors.Is(err, errNoRows) {
			output.Warn(c.sink, i18n.Td(ctx, "ListPageEmpty", map[string]any{"Page": page}))
			break
		}
		if err != nil {
			return nil, err
		}
		rows, err := c.parseRows(html, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		if len(rows) == 0 {
			output.Warn(c.sink, i18n.Td(ctx, "ListPageEmpty", map[string]any{"Page": page}))
			break
		}
		records = append(records, rows...)
		slog.Debug("scraped list page", "page", page, "rows", len(rows))

		more, err := c.hasNextPage(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		if err := c.turnPage(ctx, html); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// listRows selects the data rows inside the list table.
func (c *Client) listRows() string {
	return c.sel.ListContainer + " " + c.sel.Row
}

// containerHTML reads the list table once its rows have rendered.
// The table shell appears before the rows, so reading it on presence alone can see an empty page.
func (c *Client) containerHTML(ctx context.Context) (string, error) {
	err := c.step(ctx, "wait for list rows", func(ctx context.Context) error {
		return c.b.WaitPresent(ctx, c.listRows())
	})
	if errors.Is(err, apperr.ErrNavigationTimeout) {
		return "", errNoRows
	}
	if err != nil {
		return "", err
	}
	var html string
	err = c.step(ctx, "read list table", func(ctx context.Context) error {
		var err error
		html, err = c.b.HTML(ctx, c.sel.ListContainer)
		return err
	})
	return html, err
}

// parseRows extracts the records of one table page. Only the title cell is mandatory.
func (c *Client) parseRows(html string, page int) ([]model.HomeworkRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse table: %v", apperr.ErrScrape, err)
	}

	var (
		records []model.HomeworkRecord
		rowErr  error
	)
	doc.Find(c.sel.Row).EachWithBreak(func(i int, row *goquery.Selection) bool {
		title := cellText(row, c.sel.Title)
		if title == nil || *title == "" {
			rowErr = fmt.Errorf("%w: row %d has no title cell", apperr.ErrScrape, i+1)
			return false
		}
		rec := model.HomeworkRecord{
			Title:          *title,
			StartTime:      cellText(row, c.sel.StartTime),
			EndTime:        cellText(row, c.sel.EndTime),
			Teacher:        cellText(row, c.sel.Teacher),
			PassScore:      cellText(row, c.sel.PassScore),
			CurrentScore:   cellText(row, c.sel.CurrentScore),
			TotalScore:     cellText(row, c.sel.TotalScore),
			IsPass:         cellText(row, c.sel.IsPass),
			TeacherComment: cellText(row, c.sel.TeacherWords),
			StatusText:     cellText(row, c.sel.Status),
			Page:           page,
			Row:            i,
		}
		rec.Status = model.ClassifyStatus(model.Value(rec.StatusText))
		records = append(records, rec)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return records, nil
}

// cellText returns the trimmed text of the first match of sel in row, or nil when absent.
func cellText(row *goquery.Selection, sel string) *string {
	cell := row.Find(sel).First()
	if cell.Length() == 0 {
		return nil
	}
	s := strings.TrimSpace(cell.Text())
	return &s
}

func (c *Client) hasNextPage(ctx context.Context) (bool, error) {
	var enabled bool
	err := c.step(ctx, "check next page", func(ctx context.Context) error {
		ok, err := c.b.Exists(ctx, c.sel.NextPage)
		if err != nil || !ok {
			return err
		}
		_, disabled, err := c.b.Attr(ctx, c.sel.NextPage, "disabled")
		if err != nil {
			return err
		}
		enabled = !disabled
		return nil
	})
	return enabled, err
}

func (c *Client) nextPage(ctx context.Context) error {
	html, err := c.containerHTML(ctx)
	if err != nil {
		return err
	}
	return c.turnPage(ctx, html)
}

// turnPage clicks the next-page control and waits until the table content differs from prev.
func (c *Client) turnPage(ctx context.Context, prev string) error {
	return c.step(ctx, "turn list page", func(ctx context.Context) error {
		if err := c.b.Click(ctx, c.sel.NextPage); err != nil {
			return err
		}
		ticker := time.NewTicker(pagePollInterval)
		defer ticker.Stop()
		for {
			html, err := c.b.HTML(ctx, c.sel.ListContainer)
			if err != nil {
				return err
			}
			if html != prev {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	})
}
