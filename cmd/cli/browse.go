package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/walloffame/wof/internal/models"
	"github.com/walloffame/wof/internal/navigation"
)

const (
	sessionPollInterval = time.Second
	winsRefreshInterval = 30 * time.Second
)

type browseView int

const (
	viewAllWins browseView = iota
	viewMyWins
)

func (v browseView) destination() navigation.Destination {
	if v == viewMyWins {
		return navigation.MyWins
	}
	return navigation.Home
}

// winsSource is the part of the API client the browser needs.
type winsSource interface {
	FetchAllWins(ctx context.Context) ([]models.WinRecord, error)
	FetchMyWins(ctx context.Context) ([]models.WinRecord, error)
}

type loggedInChecker interface {
	IsLoggedIn() bool
}

type winsLoadedMsg struct {
	view browseView
	wins []models.WinRecord
}

type winsFailedMsg struct {
	view browseView
	err  error
}

type sessionTickMsg struct{}

type refreshTickMsg struct{}

type browseModel struct {
	ctx     context.Context
	source  winsSource
	session loggedInChecker
	guard   *navigation.Guard

	view       browseView
	table      table.Model
	spinner    spinner.Model
	loading    bool
	loggedIn   bool
	count      int
	notice     string
	noticeErr  bool
	lastUpdate time.Time
	quitting   bool
}

func newBrowseModel(ctx context.Context, source winsSource, session loggedInChecker, g *navigation.Guard) browseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Title", Width: 36},
			{Title: "Author", Width: 20},
			{Title: "Posted", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return browseModel{
		ctx:      ctx,
		source:   source,
		session:  session,
		guard:    g,
		view:     viewAllWins,
		table:    t,
		spinner:  s,
		loading:  true,
		loggedIn: session.IsLoggedIn(),
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.view), pollSession(), scheduleRefresh())
}

func pollSession() tea.Cmd {
	return tea.Tick(sessionPollInterval, func(time.Time) tea.Msg {
		return sessionTickMsg{}
	})
}

func scheduleRefresh() tea.Cmd {
	return tea.Tick(winsRefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m browseModel) fetch(view browseView) tea.Cmd {
	return func() tea.Msg {
		var (
			wins []models.WinRecord
			err  error
		)
		if view == viewMyWins {
			wins, err = m.source.FetchMyWins(m.ctx)
		} else {
			wins, err = m.source.FetchAllWins(m.ctx)
		}
		if err != nil {
			return winsFailedMsg{view: view, err: err}
		}
		return winsLoadedMsg{view: view, wins: wins}
	}
}

// navigate switches view if the guard lets it.
func (m browseModel) navigate(view browseView) (browseModel, tea.Cmd) {
	decision := m.guard.Evaluate(view.destination())
	if decision.Redirected() {
		m.notice = "Not logged in. Run 'wof login' in another terminal, this view picks it up."
		m.noticeErr = true
		return m, nil
	}

	m.view = view
	m.loading = true
	m.notice = ""
	return m, tea.Batch(m.spinner.Tick, m.fetch(view))
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "a":
			return m.navigate(viewAllWins)
		case "m":
			return m.navigate(viewMyWins)
		case "r":
			return m.navigate(m.view)
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionTickMsg:
		return m.sessionChanged()

	case refreshTickMsg:
		if m.loading {
			return m, scheduleRefresh()
		}
		return m, tea.Batch(m.fetch(m.view), scheduleRefresh())

	case winsLoadedMsg:
		if msg.view != m.view {
			return m, nil
		}
		m.loading = false
		m.count = len(msg.wins)
		m.lastUpdate = time.Now()
		m.table.SetRows(winRows(msg.wins))
		return m, nil

	case winsFailedMsg:
		if msg.view != m.view {
			return m, nil
		}
		m.loading = false
		m.notice = msg.err.Error()
		m.noticeErr = true
		return m, nil
	}

	return m, nil
}

// sessionChanged follows logins and logouts made elsewhere. Leaving the
// user on their own wins after a logout would show stale data.
func (m browseModel) sessionChanged() (tea.Model, tea.Cmd) {
	loggedIn := m.session.IsLoggedIn()
	if loggedIn == m.loggedIn {
		return m, pollSession()
	}
	m.loggedIn = loggedIn

	if loggedIn {
		m.notice = "Logged in"
		m.noticeErr = false
		return m, pollSession()
	}

	if m.guard.Evaluate(m.view.destination()).Redirected() {
		m.view = viewAllWins
		m.loading = true
		m.notice = "Logged out. Showing everyone's wins."
		m.noticeErr = true
		return m, tea.Batch(pollSession(), m.spinner.Tick, m.fetch(m.view))
	}

	m.notice = "Logged out"
	m.noticeErr = false
	return m, pollSession()
}

func (m browseModel) View() string {
	if m.quitting {
		return ""
	}

	var content strings.Builder

	heading := "All wins"
	if m.view == viewMyWins {
		heading = "My wins"
	}
	content.WriteString(titleStyle.Render("Wall of Fame · " + heading))
	content.WriteString("\n")

	if m.loggedIn {
		content.WriteString(statusBadgeStyle.Render("LOGGED IN"))
	} else {
		content.WriteString(statusBadgeStyle.Render("LOGGED OUT"))
	}
	content.WriteString("\n\n")

	switch {
	case m.loading:
		content.WriteString(fmt.Sprintf(" %s Fetching wins...\n", m.spinner.View()))
	case m.count == 0 && !m.lastUpdate.IsZero():
		content.WriteString(infoStyle.Render("No wins yet"))
		content.WriteString("\n")
	case m.count > 0:
		content.WriteString(m.table.View())
		content.WriteString("\n")
	}

	if len(m.notice) > 0 {
		content.WriteString("\n")
		if m.noticeErr {
			content.WriteString(errorStyle.Render(m.notice))
		} else {
			content.WriteString(successStyle.Render(m.notice))
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	if !m.lastUpdate.IsZero() {
		content.WriteString(mutedStyle.Render(fmt.Sprintf("Last updated: %s", m.lastUpdate.Format("15:04:05"))))
		content.WriteString("\n")
	}
	content.WriteString(mutedStyle.Render("a all · m mine · r refresh · q quit"))
	content.WriteString("\n")

	return content.String()
}

func winRows(wins []models.WinRecord) []table.Row {
	rows := make([]table.Row, 0, len(wins))
	for _, win := range wins {
		summary := summarizeWin(win)
		rows = append(rows, table.Row{summary.Title, summary.Author, summary.Created})
	}
	return rows
}

var winsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse wins interactively",
	Long: `Browse the wall in an interactive view that refreshes itself.

Logging in or out from another terminal is picked up while it runs.`,
	Annotations: routeAnnotations(navigation.RouteHome),
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return errors.New("browse needs an interactive terminal, use 'wof wins' instead")
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		go func() {
			if err := store.Watch(ctx); err != nil {
				logrus.WithError(err).Warnln("Stopped watching the session file")
			}
		}()

		program := tea.NewProgram(newBrowseModel(ctx, client, store, guard))

		if _, err := program.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

func init() {
	winsCmd.AddCommand(winsBrowseCmd)
}
