package model

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// AnswerType describes which kind of form control an answer can be entered into.
type AnswerType string

const (
	AnswerChoice       AnswerType = "choice"
	AnswerFillInBlanks AnswerType = "fill-in-blanks"
	AnswerChoiceOrFill AnswerType = "choice|fill-in-blanks"
	AnswerUnknown      AnswerType = "unknown"
)

const answerTypeSeparator = "|"

// Accepts reports whether t lists kind among its alternatives.
func (t AnswerType) Accepts(kind AnswerType) bool {
	for _, part := range strings.Split(string(t), answerTypeSeparator) {
		if AnswerType(part) == kind {
			return true
		}
	}
	return false
}

// AnswerEntry is one answer unit, as produced by the model or scraped from a completed paper.
type AnswerEntry struct {
	Index   int        `json:"index"`
	Type    AnswerType `json:"type"`
	Content string     `json:"content"`
}

// ClassifyType infers the answer type from the shape of its content.
//
// Two or more characters can only be a fill-in. A single letter A-D may be either a
// choice or a one-letter word key; E-Z can only be a word key. Blank content and
// single characters outside A-Z are logged and classified as AnswerUnknown.
func ClassifyType(content string) AnswerType {
	trimmed := strings.TrimSpace(content)
	switch n := utf8.RuneCountInString(trimmed); {
	case n >= 2:
		return AnswerFillInBlanks
	case n == 0:
		slog.Warn("answer content is blank")
		return AnswerUnknown
	}

	r, _ := utf8.DecodeRuneInString(strings.ToUpper(trimmed))
	switch {
	case r >= 'A' && r <= 'D':
		return AnswerChoiceOrFill
	case r >= 'E' && r <= 'Z':
		return AnswerFillInBlanks
	}
	slog.Warn("answer content is not a letter", "content", trimmed)
	return AnswerUnknown
}

// Reclassify overwrites every entry's type with ClassifyType(content) and
// returns how many entries changed.
func Reclassify(entries []AnswerEntry) int {
	changed := 0
	for i := range entries {
		t := ClassifyType(entries[i].Content)
		if entries[i].Type != t {
			entries[i].Type = t
			changed++
		}
	}
	return changed
}
