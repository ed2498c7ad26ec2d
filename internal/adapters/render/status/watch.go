package status

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bnema/umi-memepool/internal/application"
	"github.com/bnema/umi-memepool/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WatchSource is the live session the watch view follows.
type WatchSource interface {
	Status() application.WalletStatus
	Updates() <-chan domain.WalletSession
}

type WatchOptions struct {
	Render     RenderOptions
	Now        func() time.Time
	Connect    func() error
	Disconnect func() error
}

type sessionMsg domain.WalletSession

type clearErrorMsg struct {
	at time.Time
}

type actionDoneMsg struct {
	err error
}

type clearActionErrorMsg struct {
	at time.Time
}

type watchModel struct {
	source  WatchSource
	opts    WatchOptions
	status  application.WalletStatus
	styles  styles
	spinner spinner.Model
	busy    bool

	actionErr   string
	actionErrAt time.Time
}

func newWatchModel(source WatchSource, opts WatchOptions) watchModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return watchModel{
		source: source,
		opts:   opts,
		status: source.Status(),
		styles: newStyles(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
		),
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate(), m.scheduleErrorClear())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case sessionMsg:
		m.status.Session = domain.WalletSession(msg)
		return m, tea.Batch(m.waitForUpdate(), m.scheduleErrorClear())
	case clearErrorMsg:
		// A newer error restarts its own timer.
		if m.status.Session.ErrorAt.Equal(msg.at) {
			m.status.Session.LastError = ""
		}
		return m, nil
	case actionDoneMsg:
		m.busy = false
		return m.recordActionError(msg.err)
	case clearActionErrorMsg:
		if m.actionErrAt.Equal(msg.at) {
			m.actionErr = ""
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "c":
		if m.busy || m.opts.Connect == nil || m.status.Session.Connected {
			return m, nil
		}
		m.busy = true
		return m, m.action(m.opts.Connect)
	case "d":
		if m.busy || m.opts.Disconnect == nil || !m.status.Session.Connected {
			return m, nil
		}
		m.busy = true
		return m, m.action(m.opts.Disconnect)
	default:
		return m, nil
	}
}

func (m watchModel) View() string {
	opts := m.opts.Render
	opts.Now = m.opts.Now()

	card := renderWallet(m.status, opts, m.styles)
	if m.busy || m.status.Session.Connecting {
		card += "\n" + fmt.Sprintf("%s %s", m.spinner.View(), "waiting for wallet...")
	}
	if m.actionErr != "" {
		card += "\n" + m.styles.warning.Render("error: "+sanitizeForTerminal(m.actionErr))
	}

	return card + "\n\n" + m.styles.header.Render(m.help()) + "\n"
}

func (m watchModel) help() string {
	switch {
	case m.status.Session.Connected && m.opts.Disconnect != nil:
		return "d disconnect · q quit"
	case !m.status.Session.Connected && m.opts.Connect != nil:
		return "c connect · q quit"
	default:
		return "q quit"
	}
}

func (m watchModel) waitForUpdate() tea.Cmd {
	updates := m.source.Updates()
	if updates == nil {
		return nil
	}

	return func() tea.Msg {
		session, ok := <-updates
		if !ok {
			return nil
		}
		return sessionMsg(session)
	}
}

func (m watchModel) scheduleErrorClear() tea.Cmd {
	session := m.status.Session
	remaining := session.ErrorExpiresIn(m.opts.Now())
	if session.LastError == "" {
		return nil
	}
	if remaining <= 0 {
		at := session.ErrorAt
		return func() tea.Msg { return clearErrorMsg{at: at} }
	}

	at := session.ErrorAt
	return tea.Tick(remaining, func(time.Time) tea.Msg {
		return clearErrorMsg{at: at}
	})
}

func (m watchModel) action(fn func() error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn()}
	}
}

// recordActionError shows failures the session did not already report, such
// as a session file that could not be removed on disconnect.
func (m watchModel) recordActionError(err error) (tea.Model, tea.Cmd) {
	if err == nil || err.Error() == m.status.Session.LastError {
		return m, nil
	}

	at := m.opts.Now()
	m.actionErr = err.Error()
	m.actionErrAt = at
	return m, tea.Tick(domain.ErrorDisplayWindow, func(time.Time) tea.Msg {
		return clearActionErrorMsg{at: at}
	})
}

// Watch runs the live wallet view until the user quits or ctx ends.
func Watch(ctx context.Context, source WatchSource, input io.Reader, output io.Writer, opts WatchOptions) error {
	p := tea.NewProgram(
		newWatchModel(source, opts),
		tea.WithContext(ctx),
		tea.WithInput(input),
		tea.WithOutput(output),
	)

	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}

	return err
}
