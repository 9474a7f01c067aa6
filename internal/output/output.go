// Package output is the single user-facing output channel shared by every front-end.
package output

// Level tags a text message for styling.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelDebug   Level = "debug"
)

// Sink receives everything the core wants to show to the user.
type Sink interface {
	Text(level Level, msg string)
	Table(title string, headers []string, rows [][]string)
	// Progress reports done out of total units. total <= 0 means unknown.
	Progress(label string, done, total int64)
}

func Info(s Sink, msg string) { s.Text(LevelInfo, msg) }

func Success(s Sink, msg string) { s.Text(LevelSuccess, msg) }

func Warn(s Sink, msg string) { s.Text(LevelWarning, msg) }

func Error(s Sink, msg string) { s.Text(LevelError, msg) }
