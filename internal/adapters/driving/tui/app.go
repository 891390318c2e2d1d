package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/bizrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bizrag/internal/adapters/driving/tui/styles"
)

// mode selects what the viewport shows.
type mode int

const (
	modeResults mode = iota
	modeReport
)

// chrome is the number of rows used by everything except the viewport:
// title, bordered input (3), panel border (2), status and help.
const chrome = 8

// App is the TUI model. The query input stays focused; up and down cycle
// through the results of the last query.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	input    textinput.Model
	viewport viewport.Model
	help     help.Model

	mode     mode
	query    string
	results  []string
	selected int
	report   string
	fallback bool

	busy   bool
	status string
	err    error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI model.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about your documents..."
	ti.CharLimit = 512
	ti.Width = 50
	ti.Focus()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   styles.DefaultStyles(),
		keys:     keymap.DefaultKeyMap(),
		input:    ti,
		viewport: viewport.New(80, 10),
		help:     help.New(),
		status:   "Ready",
	}, nil
}

// WithContext sets the context used for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case QueryCompleted:
		a.busy = false
		a.mode = modeResults
		a.query = msg.Query
		if msg.Err != nil {
			a.err = msg.Err
			a.results = nil
			a.status = "Query failed"
		} else {
			a.err = nil
			a.results = msg.Results
			a.status = fmt.Sprintf("%d results", len(msg.Results))
		}
		a.selected = 0
		a.refresh()
		return a, nil

	case InsightsCompleted:
		a.busy = false
		if msg.Err != nil {
			a.err = msg.Err
			a.status = "Insights failed"
			return a, nil
		}
		a.err = nil
		a.mode = modeReport
		a.report = msg.Insight.Response
		a.fallback = msg.Insight.Fallback
		a.status = "Insight report"
		a.refresh()
		return a, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Back):
		if a.mode == modeReport {
			a.mode = modeResults
			a.status = fmt.Sprintf("%d results", len(a.results))
			a.refresh()
			return a, nil
		}
		return a, tea.Quit

	case key.Matches(msg, a.keys.Search):
		q := strings.TrimSpace(a.input.Value())
		if q == "" || a.busy {
			return a, nil
		}
		a.busy = true
		a.status = "Searching..."
		return a, a.queryCmd(q)

	case key.Matches(msg, a.keys.Insights):
		if a.ports.Insights == nil {
			a.status = "Insights are not enabled"
			return a, nil
		}
		if a.busy {
			return a, nil
		}
		a.busy = true
		a.status = "Building insights..."
		return a, a.insightsCmd(strings.TrimSpace(a.input.Value()))

	case key.Matches(msg, a.keys.Next):
		a.cycle(1)
		return a, nil

	case key.Matches(msg, a.keys.Prev):
		a.cycle(-1)
		return a, nil

	case key.Matches(msg, a.keys.ScrollUp, a.keys.ScrollDown):
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// cycle moves the selection by step, wrapping at either end.
func (a *App) cycle(step int) {
	if a.mode != modeResults || len(a.results) == 0 {
		return
	}
	n := len(a.results)
	a.selected = ((a.selected+step)%n + n) % n
	a.refresh()
}

func (a *App) queryCmd(q string) tea.Cmd {
	ctx, rag, tenant, topK := a.ctx, a.ports.RAG, a.ports.Tenant, a.ports.TopK
	return func() tea.Msg {
		results, err := rag.Query(ctx, tenant, q, topK)
		return QueryCompleted{Query: q, Results: results, Err: err}
	}
}

func (a *App) insightsCmd(q string) tea.Cmd {
	ctx, insights, tenant := a.ctx, a.ports.Insights, a.ports.Tenant
	return func() tea.Msg {
		insight, err := insights.Insights(ctx, tenant, q)
		return InsightsCompleted{Insight: insight, Err: err}
	}
}

// refresh renders the current result or report into the viewport.
func (a *App) refresh() {
	wrap := lipgloss.NewStyle().Width(max(a.viewport.Width, 10))

	switch {
	case a.mode == modeReport:
		body := a.report
		if a.fallback {
			body = a.styles.Fallback.Render("No matching documents; showing a general report.") + "\n\n" + body
		}
		a.viewport.SetContent(wrap.Render(body))
	case len(a.results) == 0 && a.query != "":
		a.viewport.SetContent(a.styles.Muted.Render("No results found."))
	case len(a.results) == 0:
		a.viewport.SetContent(a.styles.Muted.Render("Type a question and press enter."))
	default:
		header := a.styles.Counter.Render(fmt.Sprintf("Result %d of %d", a.selected+1, len(a.results)))
		a.viewport.SetContent(header + "\n\n" + wrap.Render(a.results[a.selected]))
	}
	a.viewport.GotoTop()
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	title := a.styles.Title.Render("bizrag") + a.styles.Muted.Render(" · tenant "+a.ports.Tenant.String())
	input := a.styles.Input.Render(a.input.View())
	panel := a.styles.Panel.Render(a.viewport.View())

	status := a.styles.Status.Width(a.width).Render(a.statusLine())
	return lipgloss.JoinVertical(lipgloss.Left, title, input, panel, status, a.help.View(a.keys))
}

func (a *App) statusLine() string {
	switch {
	case a.err != nil:
		return a.styles.Error.Render(fmt.Sprintf("%s: %v", a.status, a.err))
	case a.busy:
		return a.styles.Warning.Render(a.status)
	default:
		return a.status
	}
}

// SetDimensions sizes every component for a width x height terminal.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.input.Width = max(width-6, 20)
	a.resize()
}

func (a *App) resize() {
	rows := chrome
	if a.help.ShowAll {
		rows += 3
	}
	a.viewport.Width = max(a.width-4, 10)
	a.viewport.Height = max(a.height-rows, 3)
	a.refresh()
}

// Run starts the program in the alternate screen.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the last submitted query.
func (a *App) Query() string {
	return a.query
}

// Results returns the results of the last query.
func (a *App) Results() []string {
	return a.results
}

// Selected returns the index of the displayed result.
func (a *App) Selected() int {
	return a.selected
}

// Report returns the last insight report.
func (a *App) Report() string {
	return a.report
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Ready reports whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}
