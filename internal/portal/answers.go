package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pavelanni/hwhelper/internal/apperr"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

// ExistingAnswers reads the answers recorded for a completed item.
// Rows render after the table itself; if none show up within AnswersWait the
// table is reported as empty with a warning and an empty list.
func (c *Client) ExistingAnswers(ctx context.Context, rec model.HomeworkRecord) (answers []model.AnswerEntry, err error) {
	if rec.Status != model.StatusCompleted {
		return nil, fmt.Errorf("%w: %q is not completed (status %q)", apperr.ErrInvalidState, rec.Title, rec.Status)
	}
	defer c.returnToList(ctx, &err)
	if err := c.GotoCompletedAnswersPage(ctx, rec); err != nil {
		return nil, err
	}

	err = c.stepWithin(ctx, c.cfg.AnswersWait, "wait for answer rows", func(ctx context.Context) error {
		return c.b.WaitPresent(ctx, c.sel.AnswerRows)
	})
	if errors.Is(err, apperr.ErrNavigationTimeout) {
		output.Warn(c.sink, i18n.T(ctx, "AnswersTableEmpty"))
		return []model.AnswerEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var html string
	err = c.step(ctx, "read answers table", func(ctx context.Context) error {
		var err error
		html, err = c.b.HTML(ctx, c.sel.AnswerTable)
		return err
	})
	if err != nil {
		return nil, err
	}

	answers, err = c.parseAnswers(html)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		output.Warn(c.sink, i18n.T(ctx, "AnswersTableEmpty"))
		return []model.AnswerEntry{}, nil
	}
	slog.Debug("read existing answers", "title", rec.Title, "count", len(answers))
	return answers, nil
}

func (c *Client) parseAnswers(html string) ([]model.AnswerEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse answers: %v", apperr.ErrScrape, err)
	}
	var answers []model.AnswerEntry
	doc.Find(c.sel.AnswerRows).Each(func(i int, row *goquery.Selection) {
		content := strings.TrimSpace(row.Find(c.sel.AnswerText).First().Text())
		answers = append(answers, model.AnswerEntry{
			Index:   i + 1,
			Type:    model.ClassifyType(content),
			Content: content,
		})
	})
	return answers, nil
}
