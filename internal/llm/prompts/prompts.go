package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var builtin embed.FS

// Kind selects the answer-generation template.
type Kind string

const (
	// WithListening embeds the audio transcript ahead of the questions.
	WithListening Kind = "with_listening"
	// TextOnly embeds the questions alone.
	TextOnly Kind = "text_only"
)

var kinds = []Kind{WithListening, TextOnly}

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[Kind]*template.Template
)

// Data holds template data for answer-generation prompts.
type Data struct {
	Transcript string
	Questions  string
}

// Load parses the templates from fsys. Only the first call has any effect.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		templates = make(map[Kind]*template.Template)
		for _, k := range kinds {
			file := "templates/" + string(k) + ".txt"
			content, err := fs.ReadFile(fsys, file)
			if err != nil {
				loadErr = errors.New("failed to read prompt file " + file + ": " + err.Error())
				return
			}
			tmpl, err := template.New(string(k)).Parse(string(content))
			if err != nil {
				loadErr = errors.New("failed to parse prompt template " + file + ": " + err.Error())
				return
			}
			templates[k] = tmpl
		}
	})
	return loadErr
}

// Build renders the prompt for one homework item. A non-empty transcript
// selects the listening template.
func Build(transcript, questions string) (string, error) {
	if err := Load(builtin); err != nil {
		return "", fmt.Errorf("templates load failed: %w", err)
	}
	kind := TextOnly
	if strings.TrimSpace(transcript) != "" {
		kind = WithListening
	}

	data := Data{
		Transcript: transcript,
		Questions:  questions,
	}
	var buf bytes.Buffer
	if err := templates[kind].Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
