// Package exec runs external commands on behalf of post-actions, with
// spinner feedback for long-running tools.
package exec

import (
	"context"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Executor runs external commands with consistent output handling.
type Executor struct {
	stdout io.Writer
	stderr io.Writer
	env    []string
	dir    string

	// commandFunc is swapped out in tests.
	commandFunc func(name string, args ...string) *osexec.Cmd
}

// Options configures command execution.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // additional environment variables
	Dir    string   // working directory
}

// NewExecutor creates an executor. A nil opts uses stdout/stderr defaults.
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		commandFunc: osexec.Command,
	}
}

// Run executes a command, streaming its output, and waits for completion or
// context cancellation.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.commandFunc(name, args...)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Start(); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w\ncommand %q not found, install it and retry", err, name)
		}
		return fmt.Errorf("starting %s: %w", name, err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	}
}

// RunWithSpinner runs a command behind a progress spinner, discarding the
// command's own output.
func (e *Executor) RunWithSpinner(ctx context.Context, message, name string, args ...string) error {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()

	piped := &Executor{
		stdout:      outW,
		stderr:      errW,
		env:         e.env,
		dir:         e.dir,
		commandFunc: e.commandFunc,
	}

	done := make(chan error, 1)
	go func() {
		err := piped.Run(ctx, name, args...)
		outW.Close()
		errW.Close()
		done <- err
	}()

	go io.Copy(io.Discard, outR)
	go io.Copy(io.Discard, errR)

	m := newSpinnerModel(message)
	p := tea.NewProgram(m, tea.WithOutput(e.stderr))
	go func() {
		_, _ = p.Run()
	}()

	err := <-done

	p.Send(spinnerDoneMsg{err: err})
	time.Sleep(50 * time.Millisecond)
	p.Quit()

	return err
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{spinner: s, message: message}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("✖ %s\n", m.message)
		}
		return fmt.Sprintf("✔ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return err == osexec.ErrNotFound ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}
