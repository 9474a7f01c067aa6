package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var levelStyles = map[Level]lipgloss.Style{
	LevelDebug:   lipgloss.NewStyle().Faint(true),
	LevelSuccess: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
	LevelInfo:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
	LevelWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	LevelError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Italic(true)
)

// Console renders to a terminal writer.
type Console struct {
	mu    sync.Mutex
	w     io.Writer
	bar   progress.Model
	debug bool

	// active progress line, so it can be redrawn in place
	progressLabel string
}

// NewConsole creates a console sink. Debug-level messages are shown only when debug is set.
func NewConsole(w io.Writer, debug bool) *Console {
	return &Console{
		w:     w,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		debug: debug,
	}
}

func (c *Console) Text(level Level, msg string) {
	if level == LevelDebug && !c.debug {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endProgress()
	style, ok := levelStyles[level]
	if !ok {
		style = levelStyles[LevelInfo]
	}
	fmt.Fprintf(c.w, "<%s> %s\n", style.Render(string(level)), msg)
}

func (c *Console) Table(title string, headers []string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endProgress()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if title != "" {
		fmt.Fprintln(c.w, titleStyle.Render(title))
	}
	fmt.Fprintln(c.w, t.Render())
}

func (c *Console) Progress(label string, done, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progressLabel = label
	if total <= 0 {
		fmt.Fprintf(c.w, "\r%s %s", label, humanize.Bytes(uint64(done)))
		return
	}
	pct := float64(done) / float64(total)
	fmt.Fprintf(c.w, "\r%s %s %s/%s", label, c.bar.ViewAs(pct), humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)))
	if done >= total {
		c.endProgress()
	}
}

func (c *Console) endProgress() {
	if c.progressLabel == "" {
		return
	}
	fmt.Fprintln(c.w)
	c.progressLabel = ""
}
