package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pavelanni/hwhelper/internal/apperr"
	"github.com/pavelanni/hwhelper/internal/browser"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

const (
	inputRadio = "radio"
	inputText  = "text"
)

// question is one answerable question on the quiz page, identified by its input name.
type question struct {
	name string
	kind string
}

// FillReport summarizes a fill-in run.
type FillReport struct {
	Questions int
	Filled    int
	Failed    int
}

// FillAnswers enters answers into the item's quiz form in question order.
// It never submits the form. A type mismatch aborts the remaining questions;
// a failure to interact with a single control is logged and skipped.
func (c *Client) FillAnswers(ctx context.Context, rec model.HomeworkRecord, answers []model.AnswerEntry) (FillReport, error) {
	var report FillReport
	err := c.WithItemPage(ctx, rec, func(ctx context.Context) error {
		if err := c.waitPresent(ctx, c.sel.QuizScope); err != nil {
			return err
		}
		var controls []browser.Control
		err := c.step(ctx, "discover questions", func(ctx context.Context) error {
			var err error
			controls, err = c.b.Controls(ctx, c.sel.QuizInputs)
			return err
		})
		if err != nil {
			return err
		}

		questions := orderQuestions(controls)
		output.Info(c.sink, i18n.Tp(ctx, "QuestionsFound", len(questions)))
		if len(answers) < len(questions) {
			output.Warn(c.sink, i18n.Td(ctx, "AnswersShort", map[string]any{"Answers": len(answers), "Questions": len(questions)}))
			questions = questions[:len(answers)]
		}
		report.Questions = len(questions)

		for i, q := range questions {
			if err := sleepCtx(ctx, c.cfg.FillInterval); err != nil {
				return err
			}
			a := answers[i]
			if err := c.fillOne(ctx, q, a); err != nil {
				if errors.Is(err, apperr.ErrAnswerMismatch) {
					output.Error(c.sink, i18n.Td(ctx, "FillAborted", map[string]any{"Index": i + 1, "Error": err.Error()}))
					return err
				}
				report.Failed++
				slog.Warn("failed to fill question", "question", i+1, "name", q.name, "error", err)
				output.Error(c.sink, i18n.Td(ctx, "FillFailed", map[string]any{
					"Answer": fmt.Sprintf("%q", a.Content), "Index": i + 1, "Kind": q.kind, "Error": err.Error(),
				}))
				continue
			}
			report.Filled++
			output.Success(c.sink, i18n.Td(ctx, "FillOK", map[string]any{"Index": i + 1, "Kind": q.kind, "Answer": a.Content}))
		}
		return nil
	})
	if err != nil {
		return report, err
	}
	output.Info(c.sink, i18n.T(ctx, "FillDone"))
	return report, nil
}

func (c *Client) fillOne(ctx context.Context, q question, a model.AnswerEntry) error {
	switch q.kind {
	case inputRadio:
		if !a.Type.Accepts(model.AnswerChoice) {
			return fmt.Errorf("%w: question %s is a choice, answer is %s", apperr.ErrAnswerMismatch, q.name, a.Type)
		}
		value := strings.ToUpper(strings.TrimSpace(a.Content))
		sel := fmt.Sprintf("%s input[type='radio'][name=%s][value=%s]", c.sel.QuizScope, cssString(q.name), cssString(value))
		return c.click(ctx, sel)
	default:
		if !a.Type.Accepts(model.AnswerFillInBlanks) {
			return fmt.Errorf("%w: question %s is a fill-in, answer is %s", apperr.ErrAnswerMismatch, q.name, a.Type)
		}
		sel := fmt.Sprintf("%s input[type='text'][name=%s]", c.sel.QuizScope, cssString(q.name))
		return c.step(ctx, "type answer", func(ctx context.Context) error {
			return c.b.SetText(ctx, sel, a.Content)
		})
	}
}

// orderQuestions keeps the first occurrence of every named radio group or text input.
func orderQuestions(controls []browser.Control) []question {
	seen := make(map[string]bool)
	var questions []question
	for _, ctl := range controls {
		kind := strings.ToLower(ctl.Type)
		if ctl.Name == "" || seen[ctl.Name] || (kind != inputRadio && kind != inputText) {
			continue
		}
		seen[ctl.Name] = true
		questions = append(questions, question{name: ctl.Name, kind: kind})
	}
	return questions
}

// cssString quotes s as a CSS string literal.
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\a `)
	return "'" + r.Replace(s) + "'"
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
