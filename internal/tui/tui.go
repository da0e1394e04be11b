package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pranshuparmar/daxprobe/internal/output"
	"github.com/pranshuparmar/daxprobe/pkg/model"
)

// Querier runs one DAX query. *connector.Connector satisfies it.
type Querier interface {
	RunQuery(ctx context.Context, query string) (model.QueryResult, error)
}

const (
	minColumnWidth = 4
	maxColumnWidth = 40
	chromeHeight   = 10
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("57")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("160")).Padding(0, 1)
)

type focus int

const (
	focusQuery focus = iota
	focusResults
)

type resultMsg struct {
	query   string
	result  model.QueryResult
	elapsed time.Duration
}

type errMsg struct {
	query string
	err   error
}

type browser struct {
	ctx   context.Context
	conn  Querier
	title string

	input   textinput.Model
	table   table.Model
	focus   focus
	running bool

	history []string
	histPos int

	lastQuery string
	rowCount  int
	elapsed   time.Duration
	err       error

	width  int
	height int
}

func newBrowser(ctx context.Context, conn Querier, title string) browser {
	ti := textinput.New()
	ti.Placeholder = "EVALUATE ..."
	ti.Prompt = "DAX> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("57"))
	ti.CharLimit = 0
	ti.Width = 80
	ti.Focus()

	t := table.New(
		table.WithFocused(false),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(s)

	return browser{
		ctx:   ctx,
		conn:  conn,
		title: title,
		input: ti,
		table: t,
		focus: focusQuery,
	}
}

func (m browser) Init() tea.Cmd {
	return textinput.Blink
}

func (m browser) runQuery(query string) tea.Cmd {
	ctx, conn := m.ctx, m.conn
	return func() tea.Msg {
		start := time.Now()
		res, err := conn.RunQuery(ctx, query)
		if err != nil {
			return errMsg{query: query, err: err}
		}
		return resultMsg{query: query, result: res, elapsed: time.Since(start)}
	}
}

func (m browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.toggleFocus()
			return m, nil
		}
		if m.focus == focusQuery {
			switch msg.String() {
			case "enter":
				query := strings.TrimSpace(m.input.Value())
				if query == "" || m.running {
					return m, nil
				}
				m.running = true
				m.err = nil
				m.remember(query)
				return m, m.runQuery(query)
			case "up":
				m.recall(-1)
				return m, nil
			case "down":
				m.recall(1)
				return m, nil
			}
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	case resultMsg:
		m.running = false
		m.lastQuery = msg.query
		m.rowCount = msg.result.Len()
		m.elapsed = msg.elapsed
		m.setResult(msg.result)
		return m, nil
	case errMsg:
		m.running = false
		m.lastQuery = msg.query
		m.err = msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(m.height-chromeHeight, 3))
		m.input.Width = max(m.width-len(m.input.Prompt)-2, 10)
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *browser) toggleFocus() {
	if m.focus == focusQuery {
		m.focus = focusResults
		m.input.Blur()
		m.table.Focus()
		return
	}
	m.focus = focusQuery
	m.table.Blur()
	m.input.Focus()
}

func (m *browser) remember(query string) {
	if n := len(m.history); n == 0 || m.history[n-1] != query {
		m.history = append(m.history, query)
	}
	m.histPos = len(m.history)
}

// recall moves through the query history; stepping past the newest entry
// clears the input.
func (m *browser) recall(step int) {
	if len(m.history) == 0 {
		return
	}
	m.histPos = min(max(m.histPos+step, 0), len(m.history))
	if m.histPos == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[m.histPos])
	m.input.CursorEnd()
}

// setResult swaps the table contents. Rows are cleared first because the
// table renders rows against the current columns.
func (m *browser) setResult(res model.QueryResult) {
	columns, rows := toTable(res)
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

var cellReplacer = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ")

func cellValue(s string) string {
	return cellReplacer.Replace(output.SanitizeTerminal(s))
}

// toTable converts a query result into table columns sized to their content.
func toTable(res model.QueryResult) ([]table.Column, []table.Row) {
	columns := make([]table.Column, len(res.Columns))
	for i, name := range res.Columns {
		title := cellValue(name)
		columns[i] = table.Column{Title: title, Width: lipgloss.Width(title)}
	}

	rows := make([]table.Row, 0, len(res.Rows))
	for _, r := range res.Rows {
		row := make(table.Row, len(columns))
		for i := range columns {
			if i >= len(r) {
				continue
			}
			row[i] = cellValue(r[i].Value)
			columns[i].Width = max(columns[i].Width, lipgloss.Width(row[i]))
		}
		rows = append(rows, row)
	}

	for i := range columns {
		columns[i].Width = min(max(columns[i].Width, minColumnWidth), maxColumnWidth)
	}
	return columns, rows
}

func (m browser) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("daxprobe") + " " + mutedStyle.Render(m.title) + "\n\n")

	b.WriteString(m.input.View() + "\n\n")

	b.WriteString(baseStyle.Render(m.table.View()) + "\n")

	switch {
	case m.running:
		b.WriteString(mutedStyle.Render(" running...") + "\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: "+output.SanitizeTerminal(m.err.Error())) + "\n")
	case m.lastQuery != "":
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %d row(s) in %s", m.rowCount, m.elapsed.Round(time.Millisecond))) + "\n")
	default:
		b.WriteString("\n")
	}

	help := "\n  enter: run • tab: switch focus • up/down: history • esc: quit"
	b.WriteString(mutedStyle.Render(help) + "\n")

	return b.String()
}

// Run starts the interactive query browser and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, conn Querier) error {
	title := ""
	if d, ok := conn.(interface{ Descriptor() string }); ok {
		title = d.Descriptor()
	}
	p := tea.NewProgram(newBrowser(ctx, conn, title), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
