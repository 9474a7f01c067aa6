// Package command maps REPL verbs and subcommands onto portal and pipeline operations.
// Front-ends only turn user input into Execute calls and render what the sink receives.
package command

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/hwhelper/internal/i18n"
	"github.com/pavelanni/hwhelper/internal/model"
	"github.com/pavelanni/hwhelper/internal/output"
	"github.com/pavelanni/hwhelper/internal/session"
)

// ErrQuit is returned by the exit command.
var ErrQuit = errors.New("quit")

// UserError is a usage problem reported with a localized message and no category.
type UserError struct {
	ID   string
	Data map[string]any
}

func (e *UserError) Error() string {
	return e.ID
}

func userError(id string, data map[string]any) error {
	return &UserError{ID: id, Data: data}
}

type handler func(ctx context.Context, args []string) error

type command struct {
	help  string
	usage string
	run   handler
	subs  map[string]handler
}

// Dispatcher routes one command line at a time to its handler.
type Dispatcher struct {
	s      *session.Session
	prompt Prompter
	cmds   map[string]command
	order  []string
}

// New creates a dispatcher over s. prompt answers interactive selections.
func New(s *session.Session, prompt Prompter) *Dispatcher {
	d := &Dispatcher{s: s, prompt: prompt, cmds: map[string]command{}}
	d.register("list", command{help: "HelpList", run: d.list})
	d.register("audio", command{
		help:  "HelpAudio",
		usage: "audio download|transcribe <index>",
		subs:  map[string]handler{"download": d.audioDownload, "transcribe": d.audioTranscribe},
	})
	d.register("text", command{
		help:  "HelpText",
		usage: "text display|download <index>",
		subs:  map[string]handler{"display": d.textDisplay, "download": d.textDownload},
	})
	d.register("answers", command{
		help:  "HelpAnswers",
		usage: "answers download|generate|fill_in <index> [file]",
		subs: map[string]handler{
			"download": d.answersDownload,
			"generate": d.answersGenerate,
			"fill_in":  d.answersFillIn,
		},
	})
	d.register("account", command{
		help:  "HelpAccount",
		usage: "account login|logout|select_default|set-password",
		subs: map[string]handler{
			"login":          d.accountLogin,
			"logout":         d.accountLogout,
			"select_default": d.accountSelectDefault,
			"set-password":   d.accountSetPassword,
		},
	})
	d.register("ai", command{
		help:  "HelpAI",
		usage: "ai select_api|select_model",
		subs:  map[string]handler{"select_api": d.aiSelectAPI, "select_model": d.aiSelectModel},
	})
	d.register("config", command{
		help:  "HelpConfig",
		usage: "config reload|save",
		subs:  map[string]handler{"reload": d.configReload, "save": d.configSave},
	})
	d.register("rescue", command{help: "HelpRescue", run: d.rescue})
	d.register("help", command{help: "HelpHelp", run: d.help})
	d.register("exit", command{help: "HelpExit", run: d.exit})
	return d
}

func (d *Dispatcher) register(verb string, c command) {
	d.cmds[verb] = c
	d.order = append(d.order, verb)
}

// Execute runs one command given as words, e.g. ["answers", "generate", "3"].
func (d *Dispatcher) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	log := slog.With("run_id", uuid.NewString(), "command", strings.Join(args, " "))
	start := time.Now()
	log.Info("command started")

	err := d.dispatch(ctx, args)

	switch {
	case err == nil, errors.Is(err, ErrQuit):
		log.Info("command finished", "duration", time.Since(start))
	default:
		var ue *UserError
		if errors.As(err, &ue) {
			log.Info("command rejected", "reason", ue.ID)
		} else {
			log.Error("command failed", "error", err, "duration", time.Since(start))
		}
	}
	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, args []string) error {
	verb := strings.ToLower(args[0])
	c, ok := d.cmds[verb]
	if !ok {
		return userError("UnknownCommand", map[string]any{"Command": args[0]})
	}
	if c.subs == nil {
		return c.run(ctx, args[1:])
	}
	if len(args) < 2 {
		return userError("Usage", map[string]any{"Usage": c.usage})
	}
	h, ok := c.subs[strings.ToLower(args[1])]
	if !ok {
		return userError("Usage", map[string]any{"Usage": c.usage})
	}
	return h(ctx, args[2:])
}

// Report shows err to the user as a single line.
func (d *Dispatcher) Report(ctx context.Context, err error) {
	if err == nil || errors.Is(err, ErrQuit) {
		return
	}
	var ue *UserError
	if errors.As(err, &ue) {
		output.Error(d.s.Sink, i18n.Td(ctx, ue.ID, ue.Data))
		return
	}
	output.Error(d.s.Sink, i18n.Error(ctx, err))
}

// record resolves the index argument against the last scraped list.
func (d *Dispatcher) record(args []string, usage string) (model.HomeworkRecord, error) {
	if len(args) < 1 {
		return model.HomeworkRecord{}, userError("Usage", map[string]any{"Usage": usage})
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return model.HomeworkRecord{}, userError("InvalidIndex", map[string]any{"Index": args[0]})
	}
	if len(d.s.Records) == 0 {
		return model.HomeworkRecord{}, userError("NoRecords", nil)
	}
	rec, ok := d.s.Record(i)
	if !ok {
		return model.HomeworkRecord{}, userError("InvalidIndex", map[string]any{"Index": i})
	}
	return rec, nil
}

func (d *Dispatcher) help(ctx context.Context, _ []string) error {
	lines := []string{i18n.T(ctx, "HelpTitle") + ":"}
	for _, verb := range d.order {
		lines = append(lines, "  "+i18n.T(ctx, d.cmds[verb].help))
	}
	output.Info(d.s.Sink, strings.Join(lines, "\n"))
	return nil
}
