// Package pipeline turns cached homework content into typed answer sets.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/hwhelper/internal/apperr"
	"github.com/pavelanni/hwhelper/internal/cache"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/llm/prompts"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

// Portal is the part of the portal client the pipeline drives.
type Portal interface {
	WithItemPage(ctx context.Context, rec model.HomeworkRecord, fn func(ctx context.Context) error) error
	ProbeAudio(ctx context.Context) bool
}

// Generator completes a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Pipeline produces answers and transcripts into the cache.
type Pipeline struct {
	portal Portal
	cache  *cache.Dir
	sink   output.Sink
}

func New(p Portal, c *cache.Dir, sink output.Sink) *Pipeline {
	return &Pipeline{portal: p, cache: c, sink: sink}
}

// GenerateAnswers asks gen to answer the item's questions and writes the result
// to the generated-answers artifact. Nothing is written unless every step succeeds.
func (p *Pipeline) GenerateAnswers(ctx context.Context, rec model.HomeworkRecord, gen Generator) ([]model.AnswerEntry, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: no AI client selected; run 'ai select_api' first", apperr.ErrMissingPrerequisite)
	}
	if !p.cache.Exists(rec.Title, cache.Text) {
		return nil, fmt.Errorf("%w: question text not downloaded; run 'text download' first", apperr.ErrMissingPrerequisite)
	}
	questions, err := p.cache.ReadText(rec.Title, cache.Text)
	if err != nil {
		return nil, err
	}

	var raw string
	err = p.portal.WithItemPage(ctx, rec, func(ctx context.Context) error {
		var transcript string
		if p.portal.ProbeAudio(ctx) {
			if !p.cache.Exists(rec.Title, cache.Transcript) {
				return fmt.Errorf("%w: transcription does not exist; run 'audio transcribe' first", apperr.ErrMissingPrerequisite)
			}
			var err error
			transcript, err = p.cache.ReadText(rec.Title, cache.Transcript)
			if err != nil {
				return err
			}
		} else {
			output.Info(p.sink, i18n.T(ctx, "NoListeningPart"))
		}

		prompt, err := prompts.Build(transcript, questions)
		if err != nil {
			return err
		}
		slog.Debug("generating answers", "title", rec.Title, "listening", transcript != "", "prompt_len", len(prompt))
		raw, err = gen.Generate(ctx, prompt)
		return err
	})
	if err != nil {
		return nil, err
	}

	answers, err := ParseAnswers(raw)
	if err != nil {
		return nil, err
	}
	if changed := model.Reclassify(answers); changed > 0 {
		output.Info(p.sink, i18n.Td(ctx, "TypesCorrected", map[string]any{"Changed": changed, "Total": len(answers)}))
	}

	path, err := p.cache.WriteAnswers(rec.Title, cache.GeneratedAnswers, answers)
	if err != nil {
		return nil, err
	}
	output.Success(p.sink, i18n.Td(ctx, "AnswersGenerated", map[string]any{"Count": len(answers), "Path": path}))
	return answers, nil
}

// ParseAnswers decodes a model response. The response must be a bare JSON array;
// no repair is attempted.
func ParseAnswers(raw string) ([]model.AnswerEntry, error) {
	var answers []model.AnswerEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &answers); err != nil {
		return nil, fmt.Errorf("%w: %v\n%s", apperr.ErrInvalidModelOutput, err, raw)
	}
	if answers == nil {
		return nil, fmt.Errorf("%w: response is not an answer array\n%s", apperr.ErrInvalidModelOutput, raw)
	}
	return answers, nil
}

// Transcribe sends the cached audio to tr and stores the transcript next to it.
func (p *Pipeline) Transcribe(ctx context.Context, rec model.HomeworkRecord, tr Transcriber) (string, error) {
	if tr == nil {
		return "", fmt.Errorf("%w: no transcription service configured", apperr.ErrMissingPrerequisite)
	}
	if !p.cache.Exists(rec.Title, cache.Audio) {
		return "", fmt.Errorf("%w: audio not downloaded; run 'audio download' first", apperr.ErrMissingPrerequisite)
	}

	output.Info(p.sink, i18n.T(ctx, "Transcribing"))
	text, err := tr.Transcribe(ctx, p.cache.Path(rec.Title, cache.Audio))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty transcript", apperr.ErrProvider)
	}

	path, err := p.cache.WriteText(rec.Title, cache.Transcript, text)
	if err != nil {
		return "", err
	}
	output.Success(p.sink, i18n.Td(ctx, "TranscriptSaved", map[string]any{"Path": path}))
	return path, nil
}
