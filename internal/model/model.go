package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// HomeworkStatus represents the portal's status column for a homework row.
type HomeworkStatus string

const (
	StatusNotCompleted HomeworkStatus = "not_completed"
	StatusInProgress   HomeworkStatus = "in_progress"
	StatusMakeUp       HomeworkStatus = "make_up"
	StatusCompleted    HomeworkStatus = "completed"
	StatusUnknown      HomeworkStatus = "unknown"
)

// statusLabels maps every label the portal is known to render to its status.
// The portal is localized; both the Chinese and English renderings are accepted.
var statusLabels = map[string]HomeworkStatus{
	"去完成": StatusNotCompleted,
	"进行中": StatusInProgress,
	"补做":  StatusMakeUp,
	"已完成": StatusCompleted,

	"not completed": StatusNotCompleted,
	"in progress":   StatusInProgress,
	"make-up":       StatusMakeUp,
	"completed":     StatusCompleted,
}

// ClassifyStatus maps scraped status text to a HomeworkStatus by exact match.
// Text is NFC-normalized and trimmed first; anything unmatched is StatusUnknown.
func ClassifyStatus(text string) HomeworkStatus {
	label := strings.TrimSpace(norm.NFC.String(text))
	if s, ok := statusLabels[label]; ok {
		return s
	}
	return StatusUnknown
}

// Navigable reports whether a row with this status exposes a control that opens the item page.
func (s HomeworkStatus) Navigable() bool {
	switch s {
	case StatusNotCompleted, StatusInProgress, StatusMakeUp, StatusCompleted:
		return true
	}
	return false
}

// HomeworkRecord is one row of the portal's homework table.
// Optional cells are nil when the cell was missing from the row.
type HomeworkRecord struct {
	Title          string         `json:"title"`
	StartTime      *string        `json:"start_time,omitempty"`
	EndTime        *string        `json:"end_time,omitempty"`
	Teacher        *string        `json:"teacher,omitempty"`
	PassScore      *string        `json:"pass_score,omitempty"`
	CurrentScore   *string        `json:"current_score,omitempty"`
	TotalScore     *string        `json:"total_score,omitempty"`
	IsPass         *string        `json:"is_pass,omitempty"`
	TeacherComment *string        `json:"teacher_comment,omitempty"`
	StatusText     *string        `json:"status_text,omitempty"`
	Status         HomeworkStatus `json:"status"`

	// Page is the 1-based table page the row was scraped from, Row its 0-based position on that page.
	Page int `json:"page"`
	Row  int `json:"row"`
}

// Value dereferences an optional cell, returning "" for a missing one.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
