package command

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pavelanni/hwhelper/internal/config"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/llm"
	"github.com/pavelanni/hwhelper/internal/output"
	"github.com/pavelanni/hwhelper/internal/portal"
)

// Login signs in with the default account.
func (d *Dispatcher) Login(ctx context.Context) error {
	cred, ok := d.s.Config.SelectedCredential()
	if !ok {
		return userError("NoAccountSelected", nil)
	}
	return d.login(ctx, cred)
}

func (d *Dispatcher) login(ctx context.Context, cred config.Credential) error {
	pw, err := cred.ResolvePassword()
	if errors.Is(err, config.ErrPasswordNotFound) {
		pw, err = d.prompt.Password(ctx, i18n.Td(ctx, "PasswordPrompt", map[string]any{"User": label(cred)}))
	}
	if err != nil {
		return err
	}
	return d.s.Portal.Login(ctx, portal.Credentials{
		School:   cred.School,
		Username: cred.Username,
		Password: pw,
	})
}

func label(c config.Credential) string {
	return c.School + "/" + c.Username
}

func (d *Dispatcher) credentialLabels() []string {
	labels := make([]string, len(d.s.Config.Credentials.All))
	for i, c := range d.s.Config.Credentials.All {
		labels[i] = label(c)
	}
	return labels
}

func current(idx *int) int {
	if idx == nil {
		return -1
	}
	return *idx
}

// pickCredential asks for one of the configured accounts, preselecting the default.
func (d *Dispatcher) pickCredential(ctx context.Context) (config.Credential, int, error) {
	creds := d.s.Config.Credentials
	if len(creds.All) == 0 {
		return config.Credential{}, 0, userError("NoCredentials", nil)
	}
	i, err := d.prompt.Select(ctx, i18n.T(ctx, "SelectAccount"), d.credentialLabels(), current(creds.Selected))
	if err != nil {
		return config.Credential{}, 0, err
	}
	return creds.All[i], i, nil
}

func (d *Dispatcher) accountLogin(ctx context.Context, _ []string) error {
	cred, _, err := d.pickCredential(ctx)
	if err != nil {
		return err
	}
	if err := d.s.Portal.Logout(ctx); err != nil {
		slog.Warn("logout before login failed", "error", err)
	}
	d.s.Records = nil
	if err := d.login(ctx, cred); err != nil {
		return err
	}
	return d.list(ctx, nil)
}

func (d *Dispatcher) accountLogout(ctx context.Context, _ []string) error {
	if err := d.s.Portal.Logout(ctx); err != nil {
		return err
	}
	d.s.Records = nil
	return nil
}

func (d *Dispatcher) accountSelectDefault(ctx context.Context, _ []string) error {
	_, i, err := d.pickCredential(ctx)
	if err != nil {
		return err
	}
	cfg := d.s.Config.Clone()
	cfg.Credentials.Selected = config.Index(i)
	if err := d.s.Apply(cfg); err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.Td(ctx, "DefaultAccountSet", map[string]any{"User": label(cfg.Credentials.All[i])}))
	return nil
}

func (d *Dispatcher) accountSetPassword(ctx context.Context, _ []string) error {
	cred, _, err := d.pickCredential(ctx)
	if err != nil {
		return err
	}
	pw, err := d.prompt.Password(ctx, i18n.Td(ctx, "PasswordPrompt", map[string]any{"User": label(cred)}))
	if err != nil {
		return err
	}
	if err := config.StorePassword(cred, pw); err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.Td(ctx, "PasswordStored", map[string]any{"User": label(cred)}))
	return nil
}

func (d *Dispatcher) aiSelectAPI(ctx context.Context, _ []string) error {
	providers := d.s.Config.AI.All
	if len(providers) == 0 {
		return userError("NoAIProviders", nil)
	}
	names := make([]string, 0, len(providers)+1)
	for _, p := range providers {
		names = append(names, p.Name)
	}
	names = append(names, i18n.T(ctx, "None"))

	i, err := d.prompt.Select(ctx, i18n.T(ctx, "SelectProvider"), names, current(d.s.Config.AI.Selected))
	if err != nil {
		return err
	}
	cfg := d.s.Config.Clone()
	if i == len(providers) {
		cfg.AI.Selected = nil
	} else {
		cfg.AI.Selected = config.Index(i)
	}
	if err := d.s.Apply(cfg); err != nil {
		return err
	}
	if cfg.AI.Selected == nil {
		output.Success(d.s.Sink, i18n.T(ctx, "ProviderCleared"))
		return nil
	}
	output.Success(d.s.Sink, i18n.Td(ctx, "ProviderSet", map[string]any{"Name": providers[i].Name}))
	return nil
}

func (d *Dispatcher) aiSelectModel(ctx context.Context, _ []string) error {
	if d.s.Config.AI.Selected == nil {
		return userError("NoAIProviders", nil)
	}
	cfg := d.s.Config.Clone()
	p := &cfg.AI.All[*cfg.AI.Selected]
	if len(p.Models) == 0 {
		models, err := llm.ListModels(ctx, p.APIURL, p.APIKey)
		if err != nil {
			return err
		}
		p.Models = models
		p.SelectedModel = nil
	}
	if len(p.Models) == 0 {
		return userError("NoModels", nil)
	}
	i, err := d.prompt.Select(ctx, i18n.T(ctx, "SelectModel"), p.Models, current(p.SelectedModel))
	if err != nil {
		return err
	}
	p.SelectedModel = config.Index(i)
	if err := d.s.Apply(cfg); err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.Td(ctx, "ModelSet", map[string]any{"Model": p.Models[i]}))
	return nil
}

func (d *Dispatcher) configReload(ctx context.Context, _ []string) error {
	if err := d.s.Reload(); err != nil {
		return err
	}
	output.Success(d.s.Sink, i18n.T(ctx, "ConfigReloaded"))
	return nil
}

func (d *Dispatcher) configSave(ctx context.Context, _ []string) error {
	return d.saveConfig(ctx)
}

func (d *Dispatcher) saveConfig(ctx context.Context) error {
	path := d.s.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.Save(d.s.Config, path); err != nil {
		return err
	}
	d.s.ConfigPath = path
	output.Success(d.s.Sink, i18n.Td(ctx, "ConfigSaved", map[string]any{"Path": path}))
	return nil
}
