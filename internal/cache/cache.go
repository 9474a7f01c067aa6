// Package cache stores per-homework artifacts in a flat directory keyed by an
// encoding of the homework title.
package cache

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pavelanni/hwhelper/internal/model"
)

// Artifact names one kind of cached file.
type Artifact string

const (
	Audio            Artifact = "_audio.mp3"
	Transcript       Artifact = "_audio.mp3.txt"
	Text             Artifact = "_text.txt"
	Answers          Artifact = "_answers.json"
	GeneratedAnswers Artifact = "_answers_gen.json"
)

// EncodeKey turns a title into a filename-safe key: unpadded URL-safe base64 of its UTF-8 bytes.
func EncodeKey(title string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(title))
}

// DecodeKey reverses EncodeKey. Trailing padding is tolerated.
func DecodeKey(key string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(key, "="))
	if err != nil {
		return "", fmt.Errorf("decode cache key %q: %w", key, err)
	}
	return string(b), nil
}

// Dir is a flat cache directory. Writes are last-writer-wins; there is no locking.
type Dir struct {
	root string
}

// New creates the directory if needed.
func New(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Dir{root: root}, nil
}

// Path returns the file path of an artifact for the given title.
func (d *Dir) Path(title string, a Artifact) string {
	return filepath.Join(d.root, EncodeKey(title)+string(a))
}

// Exists reports whether the artifact is a regular file.
func (d *Dir) Exists(title string, a Artifact) bool {
	info, err := os.Stat(d.Path(title, a))
	return err == nil && info.Mode().IsRegular()
}

// ReadText reads a text artifact. A missing file yields an error wrapping fs.ErrNotExist.
func (d *Dir) ReadText(title string, a Artifact) (string, error) {
	data, err := os.ReadFile(d.Path(title, a))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText writes a text artifact and returns its path.
func (d *Dir) WriteText(title string, a Artifact, text string) (string, error) {
	path := d.Path(title, a)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// WriteAnswers stores answers as indented JSON and returns the path.
func (d *Dir) WriteAnswers(title string, a Artifact, answers []model.AnswerEntry) (string, error) {
	data, err := json.MarshalIndent(answers, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}
	return d.WriteText(title, a, string(data)+"\n")
}

// ReadAnswers loads an answers JSON artifact.
func (d *Dir) ReadAnswers(title string, a Artifact) ([]model.AnswerEntry, error) {
	return ReadAnswersFile(d.Path(title, a))
}

// ReadAnswersFile loads answers from an arbitrary JSON file.
func ReadAnswersFile(path string) ([]model.AnswerEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var answers []model.AnswerEntry
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return answers, nil
}

// IsNotExist reports whether err means the artifact is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
