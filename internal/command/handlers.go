package command

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/pavelanni/hwhelper/internal/apperr"
	"github.com/pavelanni/hwhelper/internal/cache"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

func (d *Dispatcher) list(ctx context.Context, _ []string) error {
	d.s.Records = d.s.Portal.ListHomework(ctx)
	d.showRecords(ctx)
	return nil
}

// Refresh scrapes the list into the session without rendering it.
func (d *Dispatcher) Refresh(ctx context.Context) {
	d.s.Records = d.s.Portal.ListHomework(ctx)
}

func (d *Dispatcher) showRecords(ctx context.Context) {
	headers := []string{
		i18n.T(ctx, "ColIndex"),
		i18n.T(ctx, "ColTitle"),
		i18n.T(ctx, "ColStatus"),
		i18n.T(ctx, "ColStart"),
		i18n.T(ctx, "ColEnd"),
		i18n.T(ctx, "ColScore"),
		i18n.T(ctx, "ColTeacher"),
	}
	rows := make([][]string, 0, len(d.s.Records))
	for i, r := range d.s.Records {
		status := model.Value(r.StatusText)
		if status == "" {
			status = string(r.Status)
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			r.Title,
			status,
			model.Value(r.StartTime),
			model.Value(r.EndTime),
			score(r),
			model.Value(r.Teacher),
		})
	}
	d.s.Sink.Table(i18n.T(ctx, "HomeworkTable"), headers, rows)
	output.Info(d.s.Sink, i18n.Tp(ctx, "HomeworkCount", len(d.s.Records)))
}

func score(r model.HomeworkRecord) string {
	cur, total := model.Value(r.CurrentScore), model.Value(r.TotalScore)
	switch {
	case cur == "" && total == "":
		return ""
	case total == "":
		return cur
	}
	return cur + "/" + total
}

func (d *Dispatcher) audioDownload(ctx context.Context, args []string) error {
	rec, err := d.record(args, d.cmds["audio"].usage)
	if err != nil {
		return err
	}
	url, ok, err := d.s.Portal.AudioURL(ctx, rec)
	if err != nil || !ok {
		return err
	}
	path := d.s.Cache.Path(rec.Title, cache.Audio)
	n, err := d.s.Fetcher.Download(ctx, url, path)
	if err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.Td(ctx, "AudioSaved", map[string]any{
		"Path": path,
		"Size": humanize.Bytes(uint64(n)),
	}))
	return nil
}

func (d *Dispatcher) audioTranscribe(ctx context.Context, args []string) error {
	rec, err := d.record(args, d.cmds["audio"].usage)
	if err != nil {
		return err
	}
	transcript, err := d.s.Pipeline.Transcribe(ctx, rec, d.s.Transcriber())
	if err != nil {
		return err
	}
	output.Info(d.s.Sink, transcript)
	return nil
}

func (d *Dispatcher) textDisplay(ctx context.Context, args []string) error {
	rec, err := d.record(args, d.cmds["text"].usage)
	if err != nil {
		return err
	}
	text, err := d.s.Portal.QuestionText(ctx, rec)
	if err != nil {
		return err
	}
	output.Info(d.s.Sink, text)
	return nil
}

func (d *Dispatcher) textDownload(ctx context.Context, args []string) error {
	rec, err := d.record(args, d.cmds["text"].usage)
	if err != nil {
		return err
	}
	text, err := d.s.Portal.QuestionText(ctx, rec)
	if err != nil {
		return err
	}
	path, err := d.s.Cache.WriteText(rec.Title, cache.Text, text)
	if err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.Td(ctx, "TextSaved", map[string]any{"Path": path}))
	return nil
}

func (d *Dispatcher) answersDownload(ctx context.Context, args []string) error {
	rec, err := d.record(args, d.cmds["answers"].usage)
	if err != nil {
		return err
	}
	answers, err := d.s.Portal.ExistingAnswers(ctx, rec)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		output.Warn(d.s.Sink, i18n.T(ctx, "AnswersEmpty"))
		return nil
	}
	path, err := d.s.Cache.WriteAnswers(rec.Title, cache.Answers, answers)
	if err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.Td(ctx, "AnswersSaved", map[string]any{"Count": len(answers), "Path": path}))
	return nil
}

func (d *Dispatcher) answersGenerate(ctx context.Context, args []string) error {
	rec, err := d.record(args, d.cmds["answers"].usage)
	if err != nil {
		return err
	}
	answers, err := d.s.Pipeline.GenerateAnswers(ctx, rec, d.s.Generator())
	if err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.Td(ctx, "AnswersSaved", map[string]any{
		"Count": len(answers),
		"Path":  d.s.Cache.Path(rec.Title, cache.GeneratedAnswers),
	}))
	return nil
}

func (d *Dispatcher) answersFillIn(ctx context.Context, args []string) error {
	rec, err := d.record(args, d.cmds["answers"].usage)
	if err != nil {
		return err
	}
	var answers []model.AnswerEntry
	path := d.s.Cache.Path(rec.Title, cache.GeneratedAnswers)
	if len(args) > 1 {
		path = args[1]
		answers, err = cache.ReadAnswersFile(path)
	} else {
		answers, err = d.s.Cache.ReadAnswers(rec.Title, cache.GeneratedAnswers)
	}
	if err != nil {
		if cache.IsNotExist(err) {
			return fmt.Errorf("%w: %s not found; run answers generate %s first",
				apperr.ErrMissingPrerequisite, path, args[0])
		}
		return err
	}
	report, err := d.s.Portal.FillAnswers(ctx, rec, answers)
	if err != nil {
		return err
	}
	output.Info(d.s.Sink, i18n.Td(ctx, "FillSummary", map[string]any{
		"Filled":    report.Filled,
		"Questions": report.Questions,
		"Failed":    report.Failed,
	}))
	return nil
}

func (d *Dispatcher) rescue(ctx context.Context, _ []string) error {
	if err := d.s.Portal.GotoListPage(ctx); err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.T(ctx, "BackOnList"))
	return nil
}

func (d *Dispatcher) exit(ctx context.Context, _ []string) error {
	if err := d.saveConfig(ctx); err != nil {
		return err
	}
	output.Info(d.s.Sink, i18n.T(ctx, "Bye"))
	return ErrQuit
}
