package portal

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

// AudioURL returns the src of the item's audio element.
// ok is false when the item has no audio; that is not an error.
func (c *Client) AudioURL(ctx context.Context, rec model.HomeworkRecord) (url string, ok bool, err error) {
	err = c.WithItemPage(ctx, rec, func(ctx context.Context) error {
		if err := c.waitPresent(ctx, c.sel.Paper); err != nil {
			return err
		}
		return c.step(ctx, "read audio source", func(ctx context.Context) error {
			present, err := c.b.Exists(ctx, c.sel.Audio)
			if err != nil || !present {
				return err
			}
			src, _, err := c.b.Attr(ctx, c.sel.Audio, "src")
			if err != nil {
				return err
			}
			url = strings.TrimSpace(src)
			ok = url != ""
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	if !ok {
		output.Warn(c.sink, i18n.T(ctx, "NoAudio"))
		return "", false, nil
	}
	slog.Debug("found audio", "title", rec.Title, "url", url)
	return url, true, nil
}

// QuestionText returns the full text of the item's paper container.
func (c *Client) QuestionText(ctx context.Context, rec model.HomeworkRecord) (string, error) {
	var text string
	err := c.WithItemPage(ctx, rec, func(ctx context.Context) error {
		return c.step(ctx, "read question text", func(ctx context.Context) error {
			if err := c.b.WaitPresent(ctx, c.sel.Paper); err != nil {
				return err
			}
			var err error
			text, err = c.b.Text(ctx, c.sel.Paper)
			return err
		})
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
