package session

import (
	"errors"
	"testing"
	"time"

	"github.com/pavelanni/hwhelper/internal/config"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		CacheDir: t.TempDir(),
		Lang:     "en",
		Portal: config.PortalConfig{
			WaitTimeout:    time.Second,
			NoticeWait:     time.Millisecond,
			AudioProbeWait: time.Millisecond,
			AnswersWait:    time.Millisecond,
		},
		Transcription: config.TranscriptionConfig{Model: "whisper-1", Language: "en"},
	}
}

func TestApplyWithoutAI(t *testing.T) {
	s, err := New(baseConfig(t), "", nil, &output.Recorder{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Generator() != nil {
		t.Error("Generator() should be a nil interface without a selected provider")
	}
	if s.Transcriber() != nil {
		t.Error("Transcriber() should be nil without any endpoint")
	}
	if s.Portal == nil || s.Pipeline == nil || s.Fetcher == nil || s.Cache == nil {
		t.Error("derived components not built")
	}
}

func TestApplySelectedAI(t *testing.T) {
	cfg := baseConfig(t)
	cfg.AI.All = []config.AIProvider{
		{Name: "local", APIURL: "http://localhost:11434/v1", APIKey: "ollama", Models: []string{"llama3.2"}, SelectedModel: config.Index(0)},
	}
	cfg.AI.Selected = config.Index(0)

	s, err := New(cfg, "", nil, &output.Recorder{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Generator() == nil {
		t.Fatal("Generator() should be set")
	}
	if s.AI.Model() != "llama3.2" {
		t.Errorf("model = %q", s.AI.Model())
	}
	if s.Transcriber() == nil {
		t.Error("Transcriber() should fall back to the AI provider endpoint")
	}
}

func TestApplyProviderWithoutModel(t *testing.T) {
	cfg := baseConfig(t)
	cfg.AI.All = []config.AIProvider{{Name: "x", Models: []string{"a"}}}
	cfg.AI.Selected = config.Index(0)

	s, err := New(cfg, "", nil, &output.Recorder{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Generator() != nil {
		t.Error("no model selected means no generator")
	}
}

func TestReload(t *testing.T) {
	first := baseConfig(t)
	second := baseConfig(t)
	second.Lang = "zh"
	s, err := New(first, "", nil, &output.Recorder{}, func() (*config.Config, error) { return second, nil })
	if err != nil {
		t.Fatal(err)
	}
	s.Records = []model.HomeworkRecord{{Title: "Unit 1"}}

	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if s.Config.Lang != "zh" {
		t.Error("Reload() did not apply the new snapshot")
	}
	if len(s.Records) != 1 {
		t.Error("Reload() must keep the scraped records")
	}
}

func TestReloadError(t *testing.T) {
	cfg := baseConfig(t)
	boom := errors.New("bad file")
	s, err := New(cfg, "", nil, &output.Recorder{}, func() (*config.Config, error) { return nil, boom })
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); !errors.Is(err, boom) {
		t.Errorf("Reload() error = %v", err)
	}
	if s.Config != cfg {
		t.Error("failed reload must keep the previous snapshot")
	}
}

func TestRecord(t *testing.T) {
	s, err := New(baseConfig(t), "", nil, &output.Recorder{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Records = []model.HomeworkRecord{{Title: "a"}, {Title: "b"}}

	if r, ok := s.Record(1); !ok || r.Title != "b" {
		t.Errorf("Record(1) = %v, %v", r, ok)
	}
	for _, i := range []int{-1, 2} {
		if _, ok := s.Record(i); ok {
			t.Errorf("Record(%d) should be out of range", i)
		}
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() with no browser = %v", err)
	}
}
