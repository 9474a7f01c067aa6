package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pavelanni/hwhelper/internal/browser"
	"github.com/pavelanni/hwhelper/internal/cache"
	"github.com/pavelanni/hwhelper/internal/command"
	"github.com/pavelanni/hwhelper/internal/config"
	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/logger"
	"github.com/pavelanni/hwhelper/internal/output"
	"github.com/pavelanni/hwhelper/internal/session"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "hwhelper",
		Short:        "Homework portal assistant: scrape, transcribe, generate and fill in answers",
		SilenceUsage: true,
	}

	repl := replCmd()
	root.AddCommand(repl, runCmd(), cacheCmd(), accountCmd(), configCmd())

	// Make "repl" the default when no subcommand is given.
	root.RunE = repl.RunE

	f := root.PersistentFlags()
	f.String("config", "", "Config file (default: hwhelper.yaml in ., $HOME/.config/hwhelper, /etc/hwhelper)")
	f.String("cache-dir", "", "Directory for downloaded and generated artifacts")
	f.StringP("lang", "l", "", "Message language (en, zh)")
	f.Bool("headless", false, "Run the browser without a window")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json, pretty)")
	return root
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Log in with the default account and start the interactive console",
		Args:  cobra.NoArgs,
		RunE:  runREPL,
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <verb> [subcommand] [index] [file]",
		Short: "Log in, scrape the homework list, run one command and exit",
		Example: `  hwhelper run list
  hwhelper run text download 3
  hwhelper run answers fill_in 3 answers.json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		RunE:          runOnce,
	}
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Convert between homework titles and cache keys",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "key <title>",
		Short: "Print the cache key of a homework title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cache.EncodeKey(strings.Join(args, " ")))
			return nil
		},
	}, &cobra.Command{
		Use:   "title <key>",
		Short: "Print the homework title a cache key encodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := cache.DecodeKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), title)
			return nil
		},
	})
	return cmd
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage portal accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-password",
		Short: "Store an account password in the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOffline(cmd, "account", "set-password")
		},
	})
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load and validate the configuration, then check the selected AI endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closer := setupLogging(cmd)
			defer closer.Close()
			ctx, s, err := newSession(cmd, false)
			if err != nil {
				return err
			}
			path := s.ConfigPath
			if path == "" {
				path = "(defaults)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", i18n.T(ctx, "ConfigOK"), path)
			if s.AI == nil {
				return nil
			}
			if err := s.AI.Ping(ctx); err != nil {
				return fmt.Errorf("LLM health check: %w", err)
			}
			slog.Info("LLM endpoint OK", "model", s.AI.Model())
			fmt.Fprintf(cmd.OutOrStdout(), "LLM endpoint OK (%s)\n", s.AI.Model())
			return nil
		},
	})
	return cmd
}

func setupLogging(cmd *cobra.Command) io.Closer {
	v := viperForCmd(cmd)
	closer, err := logger.Init(logger.Config{
		Level:  v.GetString("log-level"),
		Format: v.GetString("log-format"),
		Dir:    filepath.Dir(config.DefaultPath()),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		return io.NopCloser(nil)
	}
	return closer
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	f := cmd.Flags()
	_ = v.BindPFlags(f)
	bindIfSet(v, "cache_dir", cmd, "cache-dir")
	bindIfSet(v, "browser.headless", cmd, "headless")

	v.SetEnvPrefix("HWHELPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file, _ := f.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(config.AppName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/" + config.AppName)
		v.AddConfigPath("/etc/" + config.AppName)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// bindIfSet lets an explicit flag override key without a flag default masking the config file.
func bindIfSet(v *viper.Viper, key string, cmd *cobra.Command, flag string) {
	if cmd.Flags().Changed(flag) {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	config.LoadEnv()
	v := viperForCmd(cmd)
	cfg, err := config.Load(v)
	if err != nil {
		return nil, "", err
	}
	return cfg, v.ConfigFileUsed(), nil
}

func localize(ctx context.Context, lang string) (context.Context, error) {
	if err := i18n.Init(lang); err != nil {
		return nil, fmt.Errorf("init i18n: %w", err)
	}
	return i18n.WithLocalizer(ctx, i18n.NewLocalizer(lang)), nil
}

// newSession loads the config and wraps it with a console sink. The browser is
// launched only when withBrowser is set.
func newSession(cmd *cobra.Command, withBrowser bool) (context.Context, *session.Session, error) {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	ctx, err := localize(cmd.Context(), cfg.Lang)
	if err != nil {
		return nil, nil, err
	}

	var b browser.Browser
	if withBrowser {
		b, err = browser.NewChrome(browser.Options{
			Headless:  cfg.Browser.Headless,
			ExecPath:  cfg.Browser.ExecPath,
			UserAgent: cfg.Browser.UserAgent,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	debug := strings.EqualFold(viperForCmd(cmd).GetString("log-level"), "debug")
	sink := output.NewConsole(os.Stdout, debug)
	reload := func() (*config.Config, error) {
		cfg, _, err := loadConfig(cmd)
		return cfg, err
	}
	s, err := session.New(cfg, path, b, sink, reload)
	if err != nil {
		if b != nil {
			_ = b.Close()
		}
		return nil, nil, err
	}
	return ctx, s, nil
}

func runREPL(cmd *cobra.Command, _ []string) error {
	closer := setupLogging(cmd)
	defer closer.Close()

	ctx, s, err := newSession(cmd, true)
	if err != nil {
		return err
	}
	defer s.Close()

	d := command.New(s, command.HuhPrompter{})
	if err := d.Login(ctx); err != nil {
		d.Report(ctx, err)
	} else {
		d.Report(ctx, d.Execute(ctx, []string{"list"}))
	}
	return d.REPL(ctx, os.Stdin, os.Stdout)
}

func runOnce(cmd *cobra.Command, args []string) error {
	closer := setupLogging(cmd)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	cmd.SetContext(ctx)

	ctx, s, err := newSession(cmd, true)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer s.Close()

	d := command.New(s, command.HuhPrompter{})
	err = d.Login(ctx)
	if err == nil {
		if !strings.EqualFold(args[0], "list") {
			d.Refresh(ctx)
		}
		err = d.Execute(ctx, args)
	}
	d.Report(ctx, err)
	return err
}

// runOffline runs one console command that needs the config but not the portal.
func runOffline(cmd *cobra.Command, args ...string) error {
	closer := setupLogging(cmd)
	defer closer.Close()

	ctx, s, err := newSession(cmd, false)
	if err != nil {
		return err
	}
	d := command.New(s, command.HuhPrompter{})
	return d.Execute(ctx, args)
}
