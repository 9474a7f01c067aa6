package output

import (
	"strings"
	"sync"
)

// Message is one recorded Text call.
type Message struct {
	Level Level
	Text  string
}

// TableCall is one recorded Table call.
type TableCall struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Recorder keeps everything it receives in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
	Tables   []TableCall
	Updates  int
}

func (r *Recorder) Text(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Level: level, Text: msg})
}

func (r *Recorder) Table(title string, headers []string, rows [][]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tables = append(r.Tables, TableCall{Title: title, Headers: headers, Rows: rows})
}

func (r *Recorder) Progress(string, int64, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updates++
}

// Has reports whether any message at level contains substr.
func (r *Recorder) Has(level Level, substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Messages {
		if m.Level == level && strings.Contains(m.Text, substr) {
			return true
		}
	}
	return false
}
