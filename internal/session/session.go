// Package session bundles everything one interactive run works against: the browser
// document, the configuration snapshot, the output sink and the selected AI client.
//
// A Session is used by one command at a time; nothing in it is locked.
package session

import (
	"fmt"
	"log/slog"

	"github.com/pavelanni/hwhelper/internal/browser"
	"github.com/pavelanni/hwhelper/internal/cache"
	"github.com/pavelanni/hwhelper/internal/config"
	"github.com/pavelanni/hwhelper/internal/fetch"
	"github.com/pavelanni/hwhelper/internal/llm"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
	"github.com/pavelanni/hwhelper/internal/pipeline"
	"github.com/pavelanni/hwhelper/internal/portal"
)

// Loader re-reads the configuration from its sources.
type Loader func() (*config.Config, error)

type Session struct {
	Config     *config.Config
	ConfigPath string
	Browser    browser.Browser
	Sink       output.Sink
	Cache      *cache.Dir
	Portal     *portal.Client
	Pipeline   *pipeline.Pipeline
	Fetcher    *fetch.Downloader
	AI         *llm.Client
	Speech     *llm.Transcriber
	// Records is the last scraped homework list; indices refer to it.
	Records []model.HomeworkRecord

	load Loader
}

// New builds a session around b and applies cfg.
func New(cfg *config.Config, configPath string, b browser.Browser, sink output.Sink, load Loader) (*Session, error) {
	s := &Session{ConfigPath: configPath, Browser: b, Sink: sink, load: load}
	if err := s.Apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Apply makes cfg the current snapshot and rebuilds everything derived from it.
func (s *Session) Apply(cfg *config.Config) error {
	dir, err := cache.New(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	s.Config = cfg
	s.Cache = dir
	s.Portal = portal.New(s.Browser, portal.Config{
		LoginURL:       cfg.Portal.LoginURL,
		ListURL:        cfg.Portal.ListURL,
		WaitTimeout:    cfg.Portal.WaitTimeout,
		NoticeWait:     cfg.Portal.NoticeWait,
		AudioProbeWait: cfg.Portal.AudioProbeWait,
		AnswersWait:    cfg.Portal.AnswersWait,
		FillInterval:   cfg.Portal.FillInterval,
		Selectors:      cfg.Portal.Selectors,
	}, s.Sink)
	s.Pipeline = pipeline.New(s.Portal, dir, s.Sink)
	s.Fetcher = fetch.New(cfg.Download.Timeout, s.Sink)
	s.AI, err = aiClient(cfg)
	if err != nil {
		return err
	}
	s.Speech = speechClient(cfg)
	return nil
}

func aiClient(cfg *config.Config) (*llm.Client, error) {
	p, ok := cfg.SelectedAI()
	if !ok {
		return nil, nil
	}
	modelName, ok := p.Model()
	if !ok {
		slog.Warn("AI provider has no selected model", "provider", p.Name)
		return nil, nil
	}
	c, err := llm.New(p.APIURL, p.APIKey, modelName, cfg.AI.Temperature)
	if err != nil {
		return nil, fmt.Errorf("create LLM client: %w", err)
	}
	slog.Debug("selected AI client", "provider", p.Name, "model", modelName)
	return c, nil
}

// speechClient uses the transcription endpoint, falling back to the selected AI provider's.
func speechClient(cfg *config.Config) *llm.Transcriber {
	t := cfg.Transcription
	url, key := t.APIURL, t.APIKey
	if url == "" && key == "" {
		p, ok := cfg.SelectedAI()
		if !ok {
			return nil
		}
		url, key = p.APIURL, p.APIKey
	}
	return llm.NewTranscriber(url, key, t.Model, t.Language)
}

// Reload re-reads the configuration and applies it. The scraped records are kept.
func (s *Session) Reload() error {
	if s.load == nil {
		return fmt.Errorf("config reload is not available")
	}
	cfg, err := s.load()
	if err != nil {
		return err
	}
	return s.Apply(cfg)
}

// Generator returns the selected AI client, or nil when none is selected.
func (s *Session) Generator() pipeline.Generator {
	if s.AI == nil {
		return nil
	}
	return s.AI
}

// Transcriber returns the speech-to-text client, or nil when none is configured.
func (s *Session) Transcriber() pipeline.Transcriber {
	if s.Speech == nil {
		return nil
	}
	return s.Speech
}

// Record returns the scraped record at index i.
func (s *Session) Record(i int) (model.HomeworkRecord, bool) {
	if i < 0 || i >= len(s.Records) {
		return model.HomeworkRecord{}, false
	}
	return s.Records[i], true
}

// Close releases the browser.
func (s *Session) Close() error {
	if s.Browser == nil {
		return nil
	}
	return s.Browser.Close()
}
