package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/pavelanni/hwhelper/internal/portal"
)

// DefaultPath is where Save writes when no config file was loaded.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName + ".yaml"
	}
	return filepath.Join(home, ".config", AppName, AppName+".yaml")
}

// Save writes the snapshot to path. The format follows the file extension.
func Save(c *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	v := viper.New()
	settings, err := c.settings()
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// settings renders the snapshot as the key tree Load reads back.
func (c *Config) settings() (map[string]any, error) {
	creds := make([]any, 0, len(c.Credentials.All))
	for _, cr := range c.Credentials.All {
		m := map[string]any{"school": cr.School, "username": cr.Username}
		if cr.Password != "" {
			m["password"] = cr.Password
		}
		creds = append(creds, m)
	}
	providers := make([]any, 0, len(c.AI.All))
	for _, p := range c.AI.All {
		m := map[string]any{
			"name":    p.Name,
			"api_url": p.APIURL,
			"api_key": p.APIKey,
			"models":  p.Models,
		}
		setIndex(m, "selected_model", p.SelectedModel)
		providers = append(providers, m)
	}

	credentials := map[string]any{"all": creds}
	setIndex(credentials, "selected", c.Credentials.Selected)
	ai := map[string]any{"all": providers, "temperature": c.AI.Temperature}
	setIndex(ai, "selected", c.AI.Selected)

	selectors, err := customSelectors(c.Portal.Selectors)
	if err != nil {
		return nil, err
	}
	portalTree := map[string]any{
		"list_url":         c.Portal.ListURL,
		"login_url":        c.Portal.LoginURL,
		"wait_timeout":     duration(c.Portal.WaitTimeout),
		"notice_wait":      duration(c.Portal.NoticeWait),
		"audio_probe_wait": duration(c.Portal.AudioProbeWait),
		"answers_wait":     duration(c.Portal.AnswersWait),
		"fill_interval":    duration(c.Portal.FillInterval),
	}
	if len(selectors) > 0 {
		portalTree["selectors"] = selectors
	}

	return map[string]any{
		"cache_dir": c.CacheDir,
		"lang":      c.Lang,
		"portal":    portalTree,
		"browser": map[string]any{
			"headless":   c.Browser.Headless,
			"exec_path":  c.Browser.ExecPath,
			"user_agent": c.Browser.UserAgent,
		},
		"credentials": credentials,
		"ai":          ai,
		"transcription": map[string]any{
			"api_url":  c.Transcription.APIURL,
			"api_key":  c.Transcription.APIKey,
			"model":    c.Transcription.Model,
			"language": c.Transcription.Language,
		},
		"download": map[string]any{"timeout": duration(c.Download.Timeout)},
	}, nil
}

// customSelectors returns only the selectors that are set and differ from the defaults.
func customSelectors(sel portal.Selectors) (map[string]any, error) {
	var current, defaults map[string]any
	if err := mapstructure.Decode(sel, &current); err != nil {
		return nil, fmt.Errorf("encode selectors: %w", err)
	}
	if err := mapstructure.Decode(portal.DefaultSelectors(), &defaults); err != nil {
		return nil, fmt.Errorf("encode selectors: %w", err)
	}
	for k, v := range current {
		if v == "" || v == defaults[k] {
			delete(current, k)
		}
	}
	return current, nil
}

func setIndex(m map[string]any, key string, idx *int) {
	if idx != nil {
		m[key] = *idx
	}
}

func duration(d time.Duration) string {
	return d.String()
}
