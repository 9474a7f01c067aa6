// Package config loads the typed configuration snapshot every command runs against.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pavelanni/hwhelper/internal/portal"
)

// AppName is used for the config file name, the env prefix and the keyring service.
const AppName = "hwhelper"

type Config struct {
	CacheDir      string              `mapstructure:"cache_dir" validate:"required"`
	Lang          string              `mapstructure:"lang" validate:"oneof=en zh"`
	Portal        PortalConfig        `mapstructure:"portal"`
	Browser       BrowserConfig       `mapstructure:"browser"`
	Credentials   Credentials         `mapstructure:"credentials"`
	AI            AIConfig            `mapstructure:"ai"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Download      DownloadConfig      `mapstructure:"download"`
}

type PortalConfig struct {
	ListURL        string           `mapstructure:"list_url" validate:"required,url"`
	LoginURL       string           `mapstructure:"login_url" validate:"required,url"`
	WaitTimeout    time.Duration    `mapstructure:"wait_timeout" validate:"gt=0"`
	NoticeWait     time.Duration    `mapstructure:"notice_wait" validate:"gt=0"`
	AudioProbeWait time.Duration    `mapstructure:"audio_probe_wait" validate:"gt=0"`
	AnswersWait    time.Duration    `mapstructure:"answers_wait" validate:"gt=0"`
	FillInterval   time.Duration    `mapstructure:"fill_interval" validate:"gte=0"`
	Selectors      portal.Selectors `mapstructure:"selectors"`
}

type BrowserConfig struct {
	Headless  bool   `mapstructure:"headless"`
	ExecPath  string `mapstructure:"exec_path"`
	UserAgent string `mapstructure:"user_agent"`
}

// Credential is one portal account. An empty password is looked up in the OS keyring.
type Credential struct {
	School   string `mapstructure:"school" validate:"required"`
	Username string `mapstructure:"username" validate:"required"`
	Password string `mapstructure:"password"`
}

type Credentials struct {
	All      []Credential `mapstructure:"all" validate:"dive"`
	Selected *int         `mapstructure:"selected"`
}

// AIProvider is one OpenAI-compatible endpoint and the models it offers.
type AIProvider struct {
	Name          string   `mapstructure:"name" validate:"required"`
	APIURL        string   `mapstructure:"api_url" validate:"omitempty,url"`
	APIKey        string   `mapstructure:"api_key"`
	Models        []string `mapstructure:"models"`
	SelectedModel *int     `mapstructure:"selected_model"`
}

type AIConfig struct {
	All         []AIProvider `mapstructure:"all" validate:"dive"`
	Selected    *int         `mapstructure:"selected"`
	Temperature float32      `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

type TranscriptionConfig struct {
	APIURL   string `mapstructure:"api_url" validate:"omitempty,url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model" validate:"required"`
	Language string `mapstructure:"language"`
}

type DownloadConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// SetDefaults registers every key with its default so env overrides apply to all of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("lang", "en")
	v.SetDefault("portal.list_url", portal.DefaultListURL)
	v.SetDefault("portal.login_url", portal.DefaultLoginURL)
	v.SetDefault("portal.wait_timeout", 15*time.Second)
	v.SetDefault("portal.notice_wait", 1500*time.Millisecond)
	v.SetDefault("portal.audio_probe_wait", 1500*time.Millisecond)
	v.SetDefault("portal.answers_wait", 3*time.Second)
	v.SetDefault("portal.fill_interval", 500*time.Millisecond)
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("transcription.api_url", "")
	v.SetDefault("transcription.api_key", "")
	v.SetDefault("transcription.model", "whisper-1")
	v.SetDefault("transcription.language", "en")
	v.SetDefault("download.timeout", 5*time.Minute)
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "cache")
	}
	return filepath.Join(dir, AppName)
}

// LoadEnv loads a .env file from the working directory when one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("error reading .env file", "error", err)
		}
		return
	}
	slog.Debug("loaded .env file")
}

// Load decodes and validates the viper tree.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and that every selection index is in range.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if !inRange(c.Credentials.Selected, len(c.Credentials.All)) {
		return fmt.Errorf("invalid config: credentials.selected %d out of range", *c.Credentials.Selected)
	}
	if !inRange(c.AI.Selected, len(c.AI.All)) {
		return fmt.Errorf("invalid config: ai.selected %d out of range", *c.AI.Selected)
	}
	for i, p := range c.AI.All {
		if !inRange(p.SelectedModel, len(p.Models)) {
			return fmt.Errorf("invalid config: ai.all[%d].selected_model %d out of range", i, *p.SelectedModel)
		}
	}
	return nil
}

func inRange(idx *int, n int) bool {
	return idx == nil || (*idx >= 0 && *idx < n)
}

// SelectedCredential returns the default account, if one is chosen.
func (c *Config) SelectedCredential() (Credential, bool) {
	if c.Credentials.Selected == nil {
		return Credential{}, false
	}
	return c.Credentials.All[*c.Credentials.Selected], true
}

// SelectedAI returns the chosen provider, if any.
func (c *Config) SelectedAI() (AIProvider, bool) {
	if c.AI.Selected == nil {
		return AIProvider{}, false
	}
	return c.AI.All[*c.AI.Selected], true
}

// Model returns the provider's chosen model.
func (p AIProvider) Model() (string, bool) {
	if p.SelectedModel == nil {
		return "", false
	}
	return p.Models[*p.SelectedModel], true
}

// Clone returns a deep copy, so a REPL edit never mutates a snapshot a command is using.
func (c *Config) Clone() *Config {
	out := *c
	out.Credentials.All = append([]Credential(nil), c.Credentials.All...)
	out.Credentials.Selected = cloneIndex(c.Credentials.Selected)
	out.AI.All = make([]AIProvider, len(c.AI.All))
	for i, p := range c.AI.All {
		p.Models = append([]string(nil), p.Models...)
		p.SelectedModel = cloneIndex(p.SelectedModel)
		out.AI.All[i] = p
	}
	out.AI.Selected = cloneIndex(c.AI.Selected)
	return &out
}

func cloneIndex(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// Index returns a pointer to i for use as a selection.
func Index(i int) *int {
	return &i
}
