package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
)

const promptText = "hwhelper> "

// REPL reads one command per line from in until exit or end of input.
// Ctrl-C cancels the running command only; at the prompt it ends the session
// and saves the config the same way end of input does.
func (d *Dispatcher) REPL(ctx context.Context, in io.Reader, out io.Writer) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	return d.repl(ctx, in, out, sigs)
}

func (d *Dispatcher) repl(ctx context.Context, in io.Reader, out io.Writer, sigs <-chan os.Signal) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	readErr := readLines(in, lines, done)

	for {
		fmt.Fprint(out, promptText)
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case <-sigs:
			fmt.Fprintln(out)
			return d.saveConfig(ctx)
		case err := <-readErr:
			fmt.Fprintln(out)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return d.saveConfig(ctx)
		case line = <-lines:
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		err := d.runOne(ctx, args, sigs)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		d.Report(ctx, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// readLines scans in on its own goroutine so the prompt can also watch for interrupts.
// The returned channel yields the scanner error, nil on end of input.
func readLines(in io.Reader, lines chan<- string, done <-chan struct{}) <-chan error {
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()
	return readErr
}

// runOne executes a command whose context is cancelled by an interrupt that arrives while it runs.
func (d *Dispatcher) runOne(ctx context.Context, args []string, sigs <-chan os.Signal) error {
	cmdCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-finished:
		}
	}()
	return d.Execute(cmdCtx, args)
}
