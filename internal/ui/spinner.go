package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the user presses ctrl+c while a spinner
// is showing
var ErrInterrupted = errors.New("interrupted")

// stdoutIsTerminal decides whether the spinner is drawn
var stdoutIsTerminal = func() bool {
	return os.Getenv("TERM") != "dumb" && isatty.IsTerminal(os.Stdout.Fd())
}

// actionDoneMsg signals the action completed
type actionDoneMsg struct {
	err error
}

// blockingSpinnerModel runs a spinner while an action executes
type blockingSpinnerModel struct {
	spinner     spinner.Model
	title       string
	action      func() error
	done        bool
	interrupted bool
	err         error
}

// RunWithSpinner executes action while displaying a spinner and returns
// the action's error. Without a terminal on stdout, or with TERM=dumb, the
// action simply runs.
//
//	var df *frame.DataFrame
//	err := RunWithSpinner("Fetching TP.DK.USD.A...", func() (err error) {
//	    df, err = client.FetchFrame(ctx, idx, q)
//	    return err
//	})
func RunWithSpinner(title string, action func() error) error {
	if !stdoutIsTerminal() {
		return action()
	}

	m := blockingSpinnerModel{
		spinner: NewAppSpinner(),
		title:   title,
		action:  action,
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("spinner program error: %w", err)
	}

	final := finalModel.(blockingSpinnerModel)
	if final.interrupted {
		return ErrInterrupted
	}
	return final.err
}

func (m blockingSpinnerModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runAction(),
	)
}

func (m blockingSpinnerModel) runAction() tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: m.action()}
	}
}

func (m blockingSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m blockingSpinnerModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), RenderNormal(m.title))
}
