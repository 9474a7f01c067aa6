package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// Prompter asks the user to pick or type something mid-command.
type Prompter interface {
	// Select returns the index of the chosen option. current preselects an option when in range.
	Select(ctx context.Context, title string, options []string, current int) (int, error)
	Password(ctx context.Context, title string) (string, error)
}

// HuhPrompter renders prompts as huh forms on the terminal.
type HuhPrompter struct{}

func (HuhPrompter) Select(ctx context.Context, title string, options []string, current int) (int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}
	choice := current
	if choice < 0 || choice >= len(options) {
		choice = 0
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(opts...).
				Value(&choice),
		),
	)
	if err := runForm(ctx, form); err != nil {
		return 0, err
	}
	return choice, nil
}

func (HuhPrompter) Password(ctx context.Context, title string) (string, error) {
	var pw string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password cannot be empty")
					}
					return nil
				}).
				Value(&pw),
		),
	)
	if err := runForm(ctx, form); err != nil {
		return "", err
	}
	return pw, nil
}

func runForm(ctx context.Context, form *huh.Form) error {
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return context.Canceled
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}
